package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/xyframe/pkg/chartio"
	"github.com/matzehuels/xyframe/pkg/observability"
)

// Load reads a chart definition from a JSON or TOML file.
func Load(ctx context.Context, path string) (*chartio.Document, error) {
	return load(ctx, path, func() (*chartio.Document, error) { return chartio.ImportFile(path) })
}

// LoadJSON reads a JSON chart definition. source names it in hooks.
func LoadJSON(ctx context.Context, source string, r io.Reader) (*chartio.Document, error) {
	return load(ctx, source, func() (*chartio.Document, error) { return chartio.ReadJSON(r) })
}

func load(ctx context.Context, source string, read func() (*chartio.Document, error)) (*chartio.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)

	start := time.Now()
	doc, err := read()
	records := 0
	if doc != nil {
		records = countRecords(doc)
	}
	hooks.OnLoadComplete(ctx, source, records, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func countRecords(doc *chartio.Document) int {
	n := len(doc.Points)
	for _, g := range doc.Lines {
		n += len(g.Coordinates)
	}
	for _, g := range doc.Areas {
		n += len(g.Coordinates)
	}
	return n
}
