package pipeline

import (
	"context"

	"github.com/matzehuels/xyframe/pkg/chartio"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Inputs converts a chart definition to frame inputs, applying the size
// override. Descriptors that cannot be decoded are returned in skipped and
// logged.
func Inputs(doc *chartio.Document, opts Options) (frame.Inputs, []error, error) {
	in, skipped, err := doc.Inputs()
	if err != nil {
		return frame.Inputs{}, nil, err
	}
	if opts.OverridesSize() {
		in.Size = geom.Size{W: opts.Width, H: opts.Height}
	}
	if opts.Logger != nil {
		for _, e := range skipped {
			opts.Logger.Warn("skipping annotation", "error", e)
		}
	}
	return in, skipped, nil
}

// BuildFrame runs a one-shot recomputation of doc through a fresh
// assembler keyed by the definition's key.
func BuildFrame(ctx context.Context, doc *chartio.Document, opts Options) (*frame.Assembler, []error, error) {
	in, skipped, err := Inputs(doc, opts)
	if err != nil {
		return nil, nil, err
	}
	a := frame.NewAssembler(frame.WithKey(doc.Key), frame.WithLogger(opts.Logger))
	a.Update(ctx, in)
	return a, skipped, nil
}
