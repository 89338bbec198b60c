package thinwrap

// Marker is a zero-size field that ties a wrapper type to T without storing
// a T. Bound uses two of them: one for the handle it lends out and one for
// the binding context it depends on.
type Marker[T any] [0]*T
