package frame

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/observability"
)

// Assembler owns the frame of one chart across input revisions.
//
// The chart key is fixed at construction and stamped on every frame. Update
// recomputes against the latest frame; readers get the published snapshot
// through Current. An Assembler is safe for concurrent use.
type Assembler struct {
	mu      sync.RWMutex
	key     string
	logger  *log.Logger
	current *Frame
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithKey sets the chart key instead of a generated one.
func WithKey(key string) Option {
	return func(a *Assembler) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger. Without one, nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler returns an Assembler with no frame yet.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(a)
	}
	if a.key == "" {
		a.key = uuid.NewString()
	}
	return a
}

// Key returns the chart key.
func (a *Assembler) Key() string { return a.key }

// Current returns the latest frame, or nil before the first Update.
func (a *Assembler) Current() *Frame {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Update recomputes the frame for in and publishes it. The returned frame
// is the previous one when the update was skipped.
func (a *Assembler) Update(ctx context.Context, in Inputs) *Frame {
	a.mu.Lock()
	defer a.mu.Unlock()

	in.Key = a.key
	hooks := observability.Frame()
	hooks.OnRecomputeStart(ctx, a.key, in.Records())

	start := time.Now()
	prev := a.current
	next := Recompute(in, prev)
	skipped := Skipped(next, prev)
	dur := time.Since(start)

	hooks.OnRecomputeComplete(ctx, a.key, skipped, dur)
	if skipped {
		a.logger.Debug("frame unchanged", "key", a.key, "version", in.DataVersion)
		return next
	}

	if next.XChanged {
		hooks.OnExtentChange(ctx, a.key, "x", next.CalculatedX.Min, next.CalculatedX.Max)
	}
	if next.YChanged {
		hooks.OnExtentChange(ctx, a.key, "y", next.CalculatedY.Min, next.CalculatedY.Max)
	}
	a.logger.Debug("frame recomputed",
		"key", a.key,
		"records", in.Records(),
		"x", next.XExtent,
		"y", next.YExtent,
		"duration", dur)

	a.current = next
	return next
}

// Resolve resolves the annotations of the current frame. Dropped
// annotations are logged and reported to the frame hooks.
func (a *Assembler) Resolve(ctx context.Context) []annotation.Resolved {
	return a.ResolveFrame(ctx, a.Current())
}

// ResolveFrame resolves the annotations of f, typically the frame returned
// by Update, so a concurrent Update cannot swap it out between the two calls.
func (a *Assembler) ResolveFrame(ctx context.Context, f *Frame) []annotation.Resolved {
	if f == nil {
		return nil
	}
	return a.resolver(ctx, f).ResolveAll(f.Annotations)
}

// Hover resolves a transient hover annotation against the current frame.
// It returns the tooltip and the hover marker, either of which may be nil.
func (a *Assembler) Hover(ctx context.Context, h annotation.FrameHover) (*annotation.Tooltip, annotation.Geometry) {
	f := a.Current()
	if f == nil {
		return nil, nil
	}
	r := a.resolver(ctx, f)
	return r.ResolveHTML(h, 0), r.Resolve(h, 0)
}

func (a *Assembler) resolver(ctx context.Context, f *Frame) *annotation.Resolver {
	r := f.Resolver()
	r.Logger = a.logger
	r.OnDrop = func(an annotation.Annotation, i int, reason string) {
		kind := ""
		if an != nil {
			kind = an.Kind()
		}
		observability.Frame().OnAnnotationDropped(ctx, a.key, kind, i, reason)
	}
	return r
}
