package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/cache"
	"github.com/matzehuels/xyframe/pkg/chartio"
	"github.com/matzehuels/xyframe/pkg/data"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/observability"
	"github.com/matzehuels/xyframe/pkg/pipeline"
	"github.com/matzehuels/xyframe/pkg/sink"
)

// Response headers.
const (
	HeaderCache   = "X-Xyframe-Cache"
	HeaderSkipped = "X-Xyframe-Skipped"
	HeaderKey     = "X-Xyframe-Key"
)

// =============================================================================
// Frames
// =============================================================================

// handleFrame recomputes the chart's frame and returns it as JSON.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := renderOptions(r, pipeline.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if doc.Key != "" {
		if err := xerrors.ValidateKey(doc.Key); err != nil {
			s.writeError(w, err)
			return
		}
	}

	in, skipped, err := pipeline.Inputs(doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set(HeaderSkipped, strconv.Itoa(len(skipped)))

	// Without a key there is nothing to reuse across requests.
	if doc.Key == "" {
		a := frame.NewAssembler(frame.WithLogger(s.logger))
		f := a.Update(ctx, in)
		s.writeFrame(w, f, a.ResolveFrame(ctx, f), opts, "none")
		return
	}

	// The assembler is updated on every request, cached or not, so GET and
	// hover see the chart even when another instance filled the cache.
	a := s.assembler(doc.Key, true)
	f := a.Update(ctx, in)

	cacheKey := ""
	if doc.DataVersion != "" {
		cacheKey = s.runner.Keyer.FrameKey(doc.Key, frameRevision(doc.DataVersion, in, opts))
		if data, hit := s.cacheGet(ctx, cacheKey); hit {
			w.Header().Set(HeaderKey, doc.Key)
			w.Header().Set(HeaderCache, "hit")
			writeBytes(w, "application/json", data)
			return
		}
	}

	data, err := sink.RenderJSON(f, jsonOptions(a.ResolveFrame(ctx, f), opts)...)
	if err != nil {
		s.writeError(w, xerrors.Wrap(xerrors.ErrCodeInternal, err, "encode frame"))
		return
	}
	if cacheKey != "" {
		s.cacheSet(ctx, cacheKey, data)
	}
	w.Header().Set(HeaderKey, doc.Key)
	w.Header().Set(HeaderCache, "miss")
	writeBytes(w, "application/json", data)
}

// handleGetFrame returns the latest frame of a chart.
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	a, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := renderOptions(r, pipeline.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	f := a.Current()
	s.writeFrame(w, f, a.ResolveFrame(r.Context(), f), opts, "none")
}

func (s *Server) handleDeleteFrame(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := xerrors.ValidateKey(key); err != nil {
		s.writeError(w, err)
		return
	}
	if !s.forget(key) {
		s.writeError(w, xerrors.New(xerrors.ErrCodeFrameNotFound, "no frame for key %q", key))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type hoverRequest struct {
	Datum   data.Record `json:"datum"`
	Percent *float64    `json:"percent,omitempty"`
}

type hoverResponse struct {
	Tooltip *annotation.Tooltip `json:"tooltip"`
	Marker  annotation.Geometry `json:"marker"`
}

// handleHover resolves a transient hover annotation against the latest
// frame of a chart.
func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	a, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req hoverRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, xerrors.Wrap(xerrors.ErrCodeInvalidInput, err, "decode hover"))
		return
	}
	if len(req.Datum) == 0 {
		s.writeError(w, xerrors.New(xerrors.ErrCodeInvalidInput, "hover needs a datum"))
		return
	}

	tip, marker := a.Hover(r.Context(), annotation.FrameHover{Point: req.Datum, Percent: req.Percent})
	if tip == nil && marker == nil {
		s.writeError(w, xerrors.New(xerrors.ErrCodeInvalidAnnotation, "hover datum has no screen position"))
		return
	}
	writeJSON(w, http.StatusOK, hoverResponse{Tooltip: tip, Marker: marker})
}

// =============================================================================
// Render
// =============================================================================

// handleRender runs the pipeline for one format and returns the artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts, err := renderOptions(r, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cached := "miss"
	if res.CacheInfo.RenderHit {
		cached = "hit"
	}
	w.Header().Set(HeaderCache, cached)
	w.Header().Set(HeaderSkipped, strconv.Itoa(len(res.Skipped)))
	writeBytes(w, contentType(format), res.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*chartio.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	return pipeline.LoadJSON(r.Context(), "http", body)
}

func (s *Server) lookup(r *http.Request) (*frame.Assembler, error) {
	key := chi.URLParam(r, "key")
	if err := xerrors.ValidateKey(key); err != nil {
		return nil, err
	}
	a := s.assembler(key, false)
	if a == nil || a.Current() == nil {
		return nil, xerrors.New(xerrors.ErrCodeFrameNotFound, "no frame for key %q", key)
	}
	return a, nil
}

// renderOptions reads width, height, pretty and annotations from the
// query string.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{format}}
	var err error
	if opts.Width, err = queryFloat(q.Get("width")); err != nil {
		return opts, err
	}
	if opts.Height, err = queryFloat(q.Get("height")); err != nil {
		return opts, err
	}
	if v := q.Get("pretty"); v != "" {
		if opts.Pretty, err = strconv.ParseBool(v); err != nil {
			return opts, xerrors.New(xerrors.ErrCodeInvalidInput, "pretty: %q is not a boolean", v)
		}
	}
	if v := q.Get("annotations"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, xerrors.New(xerrors.ErrCodeInvalidInput, "annotations: %q is not a boolean", v)
		}
		opts.NoAnnotations = !on
	}
	err = opts.ValidateAndSetDefaults()
	return opts, err
}

func queryFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, xerrors.New(xerrors.ErrCodeInvalidSize, "%q is not a number", v)
	}
	return f, nil
}

// frameRevision folds the settings that change a frame without changing
// its revision token into the cache key.
func frameRevision(version string, in frame.Inputs, opts pipeline.Options) string {
	return fmt.Sprintf("%s@%gx%g:a=%t:p=%t", version, in.Size.W, in.Size.H, !opts.NoAnnotations, opts.Pretty)
}

func jsonOptions(resolved []annotation.Resolved, opts pipeline.Options) []sink.JSONOption {
	if opts.NoAnnotations {
		resolved = nil
	}
	out := []sink.JSONOption{sink.WithJSONAnnotations(resolved)}
	if !opts.Pretty {
		out = append(out, sink.WithJSONCompact())
	}
	return out
}

func (s *Server) writeFrame(w http.ResponseWriter, f *frame.Frame, resolved []annotation.Resolved, opts pipeline.Options, cached string) {
	data, err := sink.RenderJSON(f, jsonOptions(resolved, opts)...)
	if err != nil {
		s.writeError(w, xerrors.Wrap(xerrors.ErrCodeInternal, err, "encode frame"))
		return
	}
	w.Header().Set(HeaderKey, f.Key)
	w.Header().Set(HeaderCache, cached)
	writeBytes(w, "application/json", data)
}

func (s *Server) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := s.runner.Cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("frame cache read failed", "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "frame")
	} else {
		observability.Cache().OnCacheMiss(ctx, "frame")
	}
	return data, hit
}

func (s *Server) cacheSet(ctx context.Context, key string, data []byte) {
	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
		s.logger.Warn("frame cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "frame", len(data))
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    xerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := xerrors.HTTPStatus(err)
	code := xerrors.GetCode(err)
	if code == "" {
		code = xerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: xerrors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format string) string {
	if format == pipeline.FormatSVG {
		return "image/svg+xml"
	}
	return "application/json"
}
