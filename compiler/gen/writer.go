package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"
)

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// writeFile renders f, formats it with goimports and writes it to the
// output directory.
func (g *Generator) writeFile(f *jen.File, name string) error {
	fullPath := filepath.Join(g.out.Target, name)

	start := time.Now()
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "", err)
	}
	rendered := time.Now()

	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted output around for debugging.
		debugPath := fullPath + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return NewGenerationError("format", name, "unformatted output written to "+debugPath, err)
	}
	formattedAt := time.Now()

	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	written := time.Now()

	g.mu.Lock()
	g.metrics.FilesGenerated++
	g.metrics.TotalBytes += int64(len(formatted))
	g.metrics.RenderTime += rendered.Sub(start)
	g.metrics.FormatTime += formattedAt.Sub(rendered)
	g.metrics.WriteTime += written.Sub(formattedAt)
	g.mu.Unlock()

	g.log.Debug("wrote file", zap.String("file", fullPath), zap.Int("bytes", len(formatted)))
	return nil
}

// cleanup removes files written by features that are now disabled.
func (g *Generator) cleanup() error {
	for _, f := range AllFeatures {
		if f.cleanup == nil || g.graph.HasFeature(f.Name) {
			continue
		}
		if err := f.cleanup(g.graph.Config); err != nil {
			return NewGenerationError("cleanup", "", "feature "+f.Name, err)
		}
	}
	return nil
}
