package gosolve

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ToMap returns the JSON object form of e.
func ToMap(e Expr) map[string]interface{} { return e.toJSON() }

func listToJSON(list []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(list))
	for i, e := range list {
		out[i] = e.toJSON()
	}
	return out
}

// JSONValue returns f for JSON encoding. NaN and the infinities, which
// JSON has no literal for, become the strings "NaN", "+Inf" and "-Inf".
func JSONValue(f float64) interface{} {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return f
}

// FromJSON decodes an expression object, as produced by ToMap or by
// unmarshalling ToJSON output. Variables are resolved by name in the
// arena and allocated there on first use. A name may carry its value on
// any one occurrence; repeating it with a different value is an error.
func FromJSON(data map[string]interface{}, arena *Arena) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := asObject(v)
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m, arena)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typ, field, err)
		}
		return e, nil
	}

	subList := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		var raw []interface{}
		switch list := v.(type) {
		case []interface{}:
			raw = list
		case []map[string]interface{}:
			for _, m := range list {
				raw = append(raw, m)
			}
		default:
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		var errs *multierror.Error
		out := make([]Expr, len(raw))
		for i, r := range raw {
			m, ok := asObject(r)
			if !ok {
				errs = multierror.Append(errs, fmt.Errorf("%s.%s[%d]: must be an object", typ, field, i))
				continue
			}
			e, err := FromJSON(m, arena)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s.%s[%d]: %w", typ, field, i, err))
				continue
			}
			out[i] = e
		}
		if err := errs.ErrorOrNil(); err != nil {
			return nil, err
		}
		return out, nil
	}

	pair := func(a, b string) (Expr, Expr, error) {
		var errs *multierror.Error
		x, err := sub(a)
		errs = multierror.Append(errs, err)
		y, err := sub(b)
		errs = multierror.Append(errs, err)
		if err := errs.ErrorOrNil(); err != nil {
			return nil, nil, err
		}
		return x, y, nil
	}

	switch typ {
	case "num":
		v, ok := data["value"]
		if !ok {
			return nil, fmt.Errorf("num: missing \"value\"")
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("num: %w", err)
		}
		return Scalar(f), nil
	case "const":
		name, _ := data["name"].(string)
		switch name {
		case "e":
			return E, nil
		case "pi":
			return Pi, nil
		}
		return nil, fmt.Errorf("const: unknown constant %q", name)
	case "var":
		name, _ := data["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("var: \"name\" must be a non-empty string")
		}
		if arena == nil {
			return nil, fmt.Errorf("var %s: no arena to resolve variables in", name)
		}
		raw, explicit := data["value"]
		value := 0.0
		if explicit {
			f, err := toFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("var %s: %w", name, err)
			}
			value = f
		}
		v, ok := arena.Lookup(name)
		if !ok {
			v = arena.NewVar(name, value)
			if !explicit {
				arena.defaulted[v.slot] = true
			}
			return v, nil
		}
		if !explicit {
			return v, nil
		}
		if arena.defaulted[v.slot] {
			// The first occurrence carried no value.
			delete(arena.defaulted, v.slot)
			v.Set(value)
			return v, nil
		}
		if !ScalarsEqual(v.Value(), value) {
			return nil, fmt.Errorf("var %s: value %g conflicts with earlier value %g", name, value, v.Value())
		}
		return v, nil
	case "sum":
		terms, err := subList("terms")
		if err != nil {
			return nil, err
		}
		return &Sum{terms: terms}, nil
	case "product":
		factors, err := subList("factors")
		if err != nil {
			return nil, err
		}
		return &Product{factors: factors}, nil
	case "pow":
		base, exp, err := pair("base", "exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	case "log":
		arg, base, err := pair("arg", "base")
		if err != nil {
			return nil, err
		}
		return LogOf(arg, base), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// asObject accepts the map shapes produced by encoding/json and yaml.v3.
func asObject(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("value must be a number, got %T", v)
}
