package chartio

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Document is a declarative chart definition.
type Document struct {
	Key         string `json:"key,omitempty" toml:"key"`
	DataVersion string `json:"data_version,omitempty" toml:"data_version"`

	Width    float64 `json:"width,omitempty" toml:"width"`
	Height   float64 `json:"height,omitempty" toml:"height"`
	Margin   *Margin `json:"margin,omitempty" toml:"margin"`
	Position *Point  `json:"position,omitempty" toml:"position"`

	Lines  []Group       `json:"lines,omitempty" toml:"lines"`
	Points []data.Record `json:"points,omitempty" toml:"points"`
	Areas  []Group       `json:"areas,omitempty" toml:"areas"`

	// Accessor field names. X and Y default to "x" and "y"; the band is
	// used only when both YTop and YBottom are set.
	X       string `json:"x,omitempty" toml:"x"`
	Y       string `json:"y,omitempty" toml:"y"`
	YTop    string `json:"y_top,omitempty" toml:"y_top"`
	YBottom string `json:"y_bottom,omitempty" toml:"y_bottom"`
	LineID  string `json:"line_id,omitempty" toml:"line_id"`

	XExtent *Extent `json:"x_extent,omitempty" toml:"x_extent"`
	YExtent *Extent `json:"y_extent,omitempty" toml:"y_extent"`

	Axes        []Axis       `json:"axes,omitempty" toml:"axes"`
	Annotations []Descriptor `json:"annotations,omitempty" toml:"annotations"`

	Title     string     `json:"title,omitempty" toml:"title"`
	Legend    *Legend    `json:"legend,omitempty" toml:"legend"`
	Matte     *Matte     `json:"matte,omitempty" toml:"matte"`
	LineType  string     `json:"line_type,omitempty" toml:"line_type"`
	AreaLabel *AreaLabel `json:"area_label,omitempty" toml:"area_label"`
}

// Group is a line or an area.
type Group struct {
	ID          string         `json:"id,omitempty" toml:"id"`
	Coordinates []data.Record  `json:"coordinates" toml:"coordinates"`
	Anchors     []data.Anchors `json:"anchors,omitempty" toml:"anchors"`
	Meta        data.Record    `json:"meta,omitempty" toml:"meta"`
}

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Extent configures one axis extent. Setting one bound overrides that side
// of the calculated extent.
type Extent struct {
	Min    *float64 `json:"min,omitempty" toml:"min"`
	Max    *float64 `json:"max,omitempty" toml:"max"`
	Invert bool     `json:"invert,omitempty" toml:"invert"`
}

// Axis describes one axis.
type Axis struct {
	Orient     string    `json:"orient" toml:"orient"`
	TickValues []float64 `json:"tick_values,omitempty" toml:"tick_values"`
	Ticks      int       `json:"ticks,omitempty" toml:"ticks"`
	// Baseline is "auto" (the default), "on" or "off".
	Baseline  string   `json:"baseline,omitempty" toml:"baseline"`
	Padding   *float64 `json:"padding,omitempty" toml:"padding"`
	TickSize  *float64 `json:"tick_size,omitempty" toml:"tick_size"`
	Footer    bool     `json:"footer,omitempty" toml:"footer"`
	Label     string   `json:"label,omitempty" toml:"label"`
	Rotate    float64  `json:"rotate,omitempty" toml:"rotate"`
	ClassName string   `json:"class_name,omitempty" toml:"class_name"`
	Key       string   `json:"key,omitempty" toml:"key"`
}

// Legend enables the legend.
type Legend struct {
	Title string `json:"title,omitempty" toml:"title"`
}

// Matte enables the margin matte.
type Matte struct {
	Inset float64 `json:"inset,omitempty" toml:"inset"`
}

// AreaLabel enables area labels.
type AreaLabel struct {
	Position string  `json:"position,omitempty" toml:"position"`
	DX       float64 `json:"dx,omitempty" toml:"dx"`
	DY       float64 `json:"dy,omitempty" toml:"dy"`
	Class    string  `json:"class,omitempty" toml:"class"`
}

// Margin is either a uniform number or per-side values.
type Margin geom.Margin

// UnmarshalJSON accepts a number or an object.
func (m *Margin) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return m.set(v)
}

// MarshalJSON writes the per-side form.
func (m Margin) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{
		"top": m.Top, "right": m.Right, "bottom": m.Bottom, "left": m.Left,
	})
}

// UnmarshalTOML accepts a number or a table.
func (m *Margin) UnmarshalTOML(v any) error {
	return m.set(v)
}

func (m *Margin) set(v any) error {
	if n, ok := data.Number(v); ok {
		*m = Margin(geom.Uniform(n))
		return nil
	}
	sides, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("margin: want number or object, got %T", v)
	}
	for name, dst := range map[string]*float64{
		"top": &m.Top, "right": &m.Right, "bottom": &m.Bottom, "left": &m.Left,
	} {
		raw, ok := sides[name]
		if !ok {
			continue
		}
		n, ok := data.Number(raw)
		if !ok {
			return fmt.Errorf("margin.%s: not a number", name)
		}
		*dst = n
	}
	return nil
}

var baselines = map[string]axis.Baseline{
	"":     axis.BaselineAuto,
	"auto": axis.BaselineAuto,
	"on":   axis.BaselineOn,
	"off":  axis.BaselineOff,
}

// Validate checks the parts of the document that cannot degrade
// gracefully: the frame size, axis orientations and baseline modes.
func (d *Document) Validate() error {
	if err := xerrors.ValidateSize(d.Width, d.Height); err != nil {
		return err
	}
	for i, a := range d.Axes {
		if err := xerrors.ValidateOrient(a.Orient); err != nil {
			return xerrors.New(xerrors.ErrCodeInvalidOrient, "axes[%d]: %s", i, xerrors.UserMessage(err))
		}
		if _, ok := baselines[a.Baseline]; !ok {
			return xerrors.New(xerrors.ErrCodeInvalidDocument, "axes[%d]: invalid baseline %q (must be one of: auto, on, off)", i, a.Baseline)
		}
	}
	return nil
}

// Inputs converts the document into frame inputs. Descriptors that cannot
// be decoded are returned in skipped, in order, and left out of the
// inputs; err is set only when [Document.Validate] fails.
func (d *Document) Inputs() (in frame.Inputs, skipped []error, err error) {
	if err := d.Validate(); err != nil {
		return frame.Inputs{}, nil, err
	}

	in = frame.Inputs{
		Points:      d.Points,
		X:           frame.Accessor{Field: d.X},
		Y:           frame.Accessor{Field: d.Y},
		YTop:        frame.Accessor{Field: d.YTop},
		YBottom:     frame.Accessor{Field: d.YBottom},
		LineID:      frame.IDAccessor{Field: d.LineID},
		XExtent:     d.XExtent.settings(),
		YExtent:     d.YExtent.settings(),
		Size:        geom.Size{W: d.Width, H: d.Height},
		Title:       d.Title,
		LineType:    d.LineType,
		DataVersion: d.DataVersion,
		Key:         d.Key,
	}
	if d.Margin != nil {
		m := geom.Margin(*d.Margin)
		in.Margin = &m
	}
	if d.Position != nil {
		in.Position = geom.Point{X: d.Position.X, Y: d.Position.Y}
	}
	for _, g := range d.Lines {
		in.Lines = append(in.Lines, data.Line{ID: g.ID, Coordinates: g.Coordinates, Meta: g.Meta})
	}
	for _, g := range d.Areas {
		in.Areas = append(in.Areas, data.Area{ID: g.ID, Coordinates: g.Coordinates, Anchors: g.Anchors, Meta: g.Meta})
	}
	for _, a := range d.Axes {
		in.Axes = append(in.Axes, a.spec())
	}
	if d.Legend != nil {
		in.Legend = &frame.Legend{Title: d.Legend.Title}
	}
	if d.Matte != nil {
		in.Matte = &frame.Matte{Inset: d.Matte.Inset}
	}
	if l := d.AreaLabel; l != nil {
		in.AreaLabel = &frame.AreaLabel{Position: l.Position, DX: l.DX, DY: l.DY, Class: l.Class}
	}

	for i, desc := range d.Annotations {
		a, err := desc.Decode()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("annotations[%d]: %w", i, err))
			continue
		}
		in.Annotations = append(in.Annotations, a)
	}
	return in, skipped, nil
}

func (e *Extent) settings() extent.Settings {
	if e == nil {
		return extent.Settings{}
	}
	return extent.Settings{Min: e.Min, Max: e.Max, Invert: e.Invert}
}

func (a Axis) spec() axis.Spec {
	return axis.Spec{
		Orient:     axis.Orient(a.Orient),
		TickValues: a.TickValues,
		Ticks:      a.Ticks,
		Baseline:   baselines[a.Baseline],
		Padding:    a.Padding,
		TickSize:   a.TickSize,
		Footer:     a.Footer,
		Label:      a.Label,
		Rotate:     a.Rotate,
		ClassName:  a.ClassName,
		Key:        a.Key,
	}
}
