package chartio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"

	xerrors "github.com/matzehuels/xyframe/pkg/errors"
)

// ReadJSON decodes a JSON chart definition from r. Unknown fields are
// rejected so that typos in field names surface early.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCodeInvalidDocument, err, "decode json")
	}
	return &doc, nil
}

// ReadTOML decodes a TOML chart definition from r. Like [ReadJSON], keys
// that map to no field are rejected. Keys inside records and annotation
// descriptors are data and always accepted.
func ReadTOML(r io.Reader) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCodeInvalidDocument, err, "decode toml")
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		if !freeForm(reflect.TypeOf(doc), k) {
			unknown = append(unknown, k.String())
		}
	}
	if len(unknown) > 0 {
		return nil, xerrors.New(xerrors.ErrCodeInvalidDocument, "decode toml: unknown keys: %s", strings.Join(unknown, ", "))
	}
	return &doc, nil
}

// freeForm reports whether key lies below a map or interface value of t.
// The decoder leaves nested keys of such values undecoded.
func freeForm(t reflect.Type, key toml.Key) bool {
	for _, part := range key {
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		switch t.Kind() {
		case reflect.Map, reflect.Interface:
			return true
		case reflect.Struct:
			f, ok := tomlField(t, part)
			if !ok {
				return false
			}
			t = f.Type
		default:
			return false
		}
	}
	return false
}

func tomlField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// ImportFile reads the chart definition at path. Files ending in .toml are
// decoded as TOML, everything else as JSON.
func ImportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Wrap(xerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}

// WriteJSON encodes doc as indented JSON. The output reads back with
// [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
