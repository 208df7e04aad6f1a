package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Layout is the declarative overlay description, in z-order: later entries
// draw on top of earlier ones.
type Layout struct {
	Overlays []Entry `json:"overlays"`
}

// Entry is one overlay record. The "type" field selects the layer kind, the
// remaining fields are kind specific.
type Entry map[string]interface{}

func Load(fs afero.Fs, path string) (*Layout, error) {
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read layout failed: %w", err)
	}
	return Parse(bs)
}

func Parse(bs []byte) (*Layout, error) {
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.UseNumber()

	var l Layout
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parse layout failed: %w", err)
	}
	return &l, nil
}

func (e Entry) Type() string {
	s, _ := e["type"].(string)
	return strings.ToLower(strings.TrimSpace(s))
}

func (e Entry) Has(key string) bool {
	v, ok := e[key]
	return ok && v != nil
}

func (e Entry) Float(key string, def float64) (float64, error) {
	if !e.Has(key) {
		return def, nil
	}

	switch v := e[key].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def, errors.Wrapf(err, "field %s", key)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def, errors.Wrapf(err, "field %s", key)
		}
		return f, nil
	}

	return def, errors.Errorf("field %s: expected number, got %T", key, e[key])
}

// Int truncates fractional values toward zero.
func (e Entry) Int(key string, def int) (int, error) {
	f, err := e.Float(key, float64(def))
	if err != nil {
		return def, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def, errors.Errorf("field %s: not a finite number", key)
	}
	return int(f), nil
}

func (e Entry) String(key string, def string) (string, error) {
	if !e.Has(key) {
		return def, nil
	}

	switch v := e[key].(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64, int, int64, bool:
		return fmt.Sprint(v), nil
	}

	return def, errors.Errorf("field %s: expected string, got %T", key, e[key])
}

func (e Entry) Bool(key string, def bool) (bool, error) {
	if !e.Has(key) {
		return def, nil
	}

	switch v := e[key].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def, errors.Wrapf(err, "field %s", key)
		}
		return b, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def, errors.Wrapf(err, "field %s", key)
		}
		return f != 0, nil
	}

	return def, errors.Errorf("field %s: expected bool, got %T", key, e[key])
}

// Color reads a three element channel list, each clamped to [0,255].
func (e Entry) Color(key string, def [3]uint8) ([3]uint8, error) {
	if !e.Has(key) {
		return def, nil
	}

	var list []interface{}
	switch v := e[key].(type) {
	case []interface{}:
		list = v
	case []int:
		for _, n := range v {
			list = append(list, n)
		}
	default:
		return def, errors.Errorf("field %s: expected color list, got %T", key, e[key])
	}

	if len(list) != 3 {
		return def, errors.Errorf("field %s: expected 3 channels, got %d", key, len(list))
	}

	var c [3]uint8
	for i, item := range list {
		n, err := Entry{"c": item}.Int("c", 0)
		if err != nil {
			return def, errors.Wrapf(err, "field %s[%d]", key, i)
		}
		if n < 0 {
			n = 0
		} else if n > 255 {
			n = 255
		}
		c[i] = uint8(n)
	}
	return c, nil
}
