package gen

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Names of the package-level files.
const (
	docFile        = "doc.go"
	layoutTestFile = "layout_test.go"
	kindListFile   = "kinds.go"
)

// Generator renders a Graph into a Go package using jennifer.
// Files are generated in parallel and formatted with goimports.
type Generator struct {
	graph   *Graph
	workers int
	out     OutputConfig
	log     *zap.Logger

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// NewGenerator creates a generator writing to the graph's target directory.
func NewGenerator(g *Graph) *Generator {
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		graph:   g,
		workers: workers,
		out:     g.Output(),
		log:     g.logger(),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Metrics returns a snapshot of the generation metrics.
func (g *Generator) Metrics() WriterMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// Generate writes one file per kind plus the package-level files of the
// enabled features, then removes the output of disabled features.
func (g *Generator) Generate(ctx context.Context) error {
	if g.out.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := os.MkdirAll(g.out.Target, 0o755); err != nil {
		return NewGenerationError("write", g.out.Target, "create output directory", err)
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	write := func(name string, render func() *jen.File) {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.writeFile(render(), name)
		})
	}

	for _, k := range g.graph.Kinds {
		write(k.FileName(), func() *jen.File { return g.genKind(k) })
	}
	write(docFile, g.genDoc)
	if g.graph.HasFeature(FeatureLayoutTests.Name) {
		write(layoutTestFile, g.genLayoutTest)
	}
	if g.graph.HasFeature(FeatureKindList.Name) {
		write(kindListFile, g.genKindList)
	}
	if err := errg.Wait(); err != nil {
		return err
	}
	if err := g.cleanup(); err != nil {
		return err
	}

	m := g.Metrics()
	g.log.Info("generated package",
		zap.String("package", g.out.Package),
		zap.String("target", g.out.Target),
		zap.Int("kinds", len(g.graph.Kinds)),
		zap.Int("files", m.FilesGenerated),
		zap.Int64("bytes", m.TotalBytes),
	)
	return nil
}

// Gen generates the graph with its own configuration.
func (g *Graph) Gen(ctx context.Context) error {
	return NewGenerator(g).Generate(ctx)
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.out.Package)
	if h := strings.TrimSpace(strings.TrimPrefix(g.out.Header, "//")); h != "" {
		f.HeaderComment(h)
	}
	f.ImportName(g.graph.Runtime, "thinwrap")
	return f
}

func (g *Generator) rt(name string) *jen.Statement {
	return jen.Qual(g.graph.Runtime, name)
}

func qual(q QualifiedName) *jen.Statement {
	return jen.Qual(q.Path, q.Name)
}

// short renders q the way it appears in code, e.g. "fakeffi.UnloadImage".
func short(q QualifiedName) string {
	return q.Path[strings.LastIndex(q.Path, "/")+1:] + "." + q.Name
}

// typeArgs returns the type arguments instantiating the wrapper of k.
func typeArgs(k *Kind) []jen.Code {
	args := []jen.Code{qual(k.Handle), jen.Id(k.Releaser())}
	if k.Bound() {
		args = append(args, qual(*k.Binding))
	}
	return args
}

// genKind renders the releaser, alias and constructor of a kind.
func (g *Generator) genKind(k *Kind) *jen.File {
	f := g.newFile()
	rel := k.Releaser()

	f.Commentf("%s releases %s handles with %s.", rel, short(k.Handle), short(k.Release))
	f.Type().Id(rel).Struct()
	f.Line()
	f.Comment("Release implements thinwrap.Releaser.")
	f.Func().Params(jen.Id(rel)).Id("Release").Params(jen.Id("h").Add(qual(k.Handle))).Block(
		qual(k.Release).Call(jen.Id("h")),
	)
	f.Line()
	f.Comment("Kind implements thinwrap.Kinder.")
	f.Func().Params(jen.Id(rel)).Id("Kind").Params().String().Block(
		jen.Return(jen.Lit(k.Name)),
	)
	f.Line()

	wrapper := "Owned"
	if k.Bound() {
		wrapper = "Bound"
	}
	for _, line := range aliasDoc(k) {
		f.Comment(line)
	}
	f.Type().Id(k.Name).Op("=").Add(g.rt(wrapper)).Types(typeArgs(k)...)
	f.Line()

	if k.Bound() {
		f.Commentf("%s takes ownership of raw and ties it to b.", k.Constructor())
		f.Comment("The binding must outlive the wrapper; closing it releases raw first.")
		f.Func().Id(k.Constructor()).Params(
			jen.Id("b").Op("*").Add(g.rt("Binding")).Types(qual(*k.Binding)),
			jen.Id("raw").Add(qual(k.Handle)),
		).Op("*").Id(k.Name).Block(
			jen.Return(g.rt("FromRawBound").Types(qual(k.Handle), jen.Id(rel)).Call(jen.Id("b"), jen.Id("raw"))),
		)
	} else {
		f.Commentf("%s takes ownership of raw. The wrapper releases it with %s", k.Constructor(), short(k.Release))
		f.Comment("unless the handle is extracted first.")
		f.Func().Id(k.Constructor()).Params(
			jen.Id("raw").Add(qual(k.Handle)),
		).Op("*").Id(k.Name).Block(
			jen.Return(g.rt("FromRaw").Types(qual(k.Handle), jen.Id(rel)).Call(jen.Id("raw"))),
		)
	}

	if g.graph.HasFeature(FeatureScopeHelpers.Name) {
		f.Line()
		g.genScopeHelper(f, k)
	}

	f.Line()
	f.Var().Id("_").Add(g.rt("Wrapper")).Types(qual(k.Handle)).Op("=").
		Parens(jen.Op("*").Id(k.Name)).Call(jen.Nil())
	return f
}

// genScopeHelper renders With<Kind>.
func (g *Generator) genScopeHelper(f *jen.File, k *Kind) {
	name := "With" + k.Name
	fn := jen.Id("fn").Func().Params(jen.Op("*").Id(k.Name)).Error()
	f.Commentf("%s takes ownership of raw, passes the wrapper to fn and releases", name)
	f.Comment("the handle when fn returns or panics, unless fn extracted it.")
	if k.Bound() {
		f.Func().Id(name).Params(
			jen.Id("b").Op("*").Add(g.rt("Binding")).Types(qual(*k.Binding)),
			jen.Id("raw").Add(qual(k.Handle)),
			fn,
		).Error().Block(
			jen.Return(g.rt("WithBound").Types(qual(k.Handle), jen.Id(k.Releaser())).Call(jen.Id("b"), jen.Id("raw"), jen.Id("fn"))),
		)
		return
	}
	f.Func().Id(name).Params(
		jen.Id("raw").Add(qual(k.Handle)),
		fn,
	).Error().Block(
		jen.Return(g.rt("With").Types(qual(k.Handle), jen.Id(k.Releaser())).Call(jen.Id("raw"), jen.Id("fn"))),
	)
}

// aliasDoc returns the doc comment lines of the wrapper alias.
func aliasDoc(k *Kind) []string {
	var first string
	if k.Bound() {
		first = fmt.Sprintf("%s is an owned %s bound to a %s.", k.Name, short(k.Handle), short(*k.Binding))
	} else {
		first = fmt.Sprintf("%s is an owned %s.", k.Name, short(k.Handle))
	}
	lines := []string{first}
	if k.Doc != "" {
		lines = append(lines, strings.Split(k.Doc, "\n")...)
	}
	return lines
}

// genDoc renders the package documentation.
func (g *Generator) genDoc() *jen.File {
	f := g.newFile()
	f.PackageComment(fmt.Sprintf("Package %s provides ownership wrappers for foreign handles.", g.graph.Package))
	f.PackageComment("")
	f.PackageComment("Kinds:")
	f.PackageComment("")
	for _, k := range g.graph.Kinds {
		line := "  - " + k.Name + ": "
		if k.Doc != "" {
			line += strings.ReplaceAll(k.Doc, "\n", " ")
		} else {
			line += k.Label + " handle."
		}
		f.PackageComment(line)
	}
	return f
}

// genLayoutTest renders a test checking the layout of every kind.
func (g *Generator) genLayoutTest() *jen.File {
	f := g.newFile()
	checks := jen.Dict{}
	for _, k := range g.graph.Kinds {
		check := "CheckLayout"
		if k.Bound() {
			check = "CheckBoundLayout"
		}
		checks[jen.Lit(k.Name)] = g.rt(check).Types(typeArgs(k)...)
	}
	f.Func().Id("TestLayout").Params(jen.Id("t").Op("*").Qual("testing", "T")).Block(
		jen.Id("checks").Op(":=").Map(jen.String()).Func().Params().Error().Values(checks),
		jen.For(jen.List(jen.Id("name"), jen.Id("check")).Op(":=").Range().Id("checks")).Block(
			jen.If(jen.Err().Op(":=").Id("check").Call(), jen.Err().Op("!=").Nil()).Block(
				jen.Id("t").Dot("Errorf").Call(jen.Lit("%s: %v"), jen.Id("name"), jen.Err()),
			),
		),
	)
	return f
}

// genKindList renders the Kinds variable.
func (g *Generator) genKindList() *jen.File {
	f := g.newFile()
	f.Comment("Kinds lists the kind names generated in this package.")
	f.Var().Id("Kinds").Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
		for _, k := range g.graph.Kinds {
			grp.Lit(k.Name)
		}
	})
	return f
}
