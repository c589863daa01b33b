package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/netplot/pkg/network"
)

// Curve is the edge curvature. Besides a number in [-1, 1], config files,
// API requests and flags accept a boolean: true means [DefaultCurved],
// false means straight edges.
type Curve float64

// Set implements pflag.Value.
func (c *Curve) Set(s string) error {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*c = Curve(f)
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("curved: want a number or a boolean, got %q", s)
	}
	*c = curveFromBool(b)
	return nil
}

func (c *Curve) String() string { return strconv.FormatFloat(float64(*c), 'g', -1, 64) }

// Type implements pflag.Value.
func (c *Curve) Type() string { return "float" }

func (c *Curve) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = curveFromBool(b)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("curved: want a number or a boolean, got %s", data)
	}
	*c = Curve(f)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Curve) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case bool:
		*c = curveFromBool(v)
	case float64:
		*c = Curve(v)
	case int64:
		*c = Curve(v)
	default:
		return fmt.Errorf("curved: want a number or a boolean, got %T", v)
	}
	return nil
}

func curveFromBool(b bool) Curve {
	if b {
		return DefaultCurved
	}
	return 0
}

// Weights selects edge weighting: "" or false for none, true for the
// default "weight" attribute, or an attribute name. Booleans are accepted
// from config files and API requests.
type Weights string

// Weighting parses w into a [network.Weighting].
func (w Weights) Weighting() (network.Weighting, error) {
	return network.ParseWeighting(string(w))
}

// Set implements pflag.Value.
func (w *Weights) Set(s string) error {
	*w = Weights(s)
	return nil
}

func (w *Weights) String() string { return string(*w) }

// Type implements pflag.Value.
func (w *Weights) Type() string { return "string" }

func (w *Weights) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*w = weightsFromBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("weighted: want a boolean or an attribute name, got %s", data)
	}
	*w = Weights(s)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (w *Weights) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case bool:
		*w = weightsFromBool(v)
	case string:
		*w = Weights(v)
	default:
		return fmt.Errorf("weighted: want a boolean or an attribute name, got %T", v)
	}
	return nil
}

func weightsFromBool(b bool) Weights {
	if b {
		return Weights(network.DefaultWeightAttr)
	}
	return ""
}
