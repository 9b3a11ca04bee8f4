package ir

import (
	"fmt"
	"strconv"
)

// FromValue lowers generically decoded data (YAML, JSON) into a Term.
//
// Accepted shapes:
//
//	"a"                              atom a
//	42                               atom 42
//	{var: "X"}                       variable X
//	{functor: "f", args: [...]}      compound f(...); args may be omitted
//
// Floats are rejected: atoms built from them would not round-trip.
func FromValue(v any) (Term, error) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil, fmt.Errorf("atom name must not be empty")
		}
		return Atom(val), nil
	case int:
		return Atom(strconv.Itoa(val)), nil
	case int64:
		return Atom(strconv.FormatInt(val, 10)), nil
	case uint64:
		return Atom(strconv.FormatUint(val, 10)), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are not valid terms: %v", val)
	case map[string]any:
		return fromMap(val)
	case nil:
		return nil, fmt.Errorf("null is not a valid term")
	default:
		return nil, fmt.Errorf("unsupported term value: %T", v)
	}
}

func fromMap(m map[string]any) (Term, error) {
	if name, ok := m["var"]; ok {
		if len(m) != 1 {
			return nil, fmt.Errorf("variable must not have other fields")
		}
		s, ok := name.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("var must be a non-empty string")
		}
		return Var{Name: s}, nil
	}

	functor, ok := m["functor"]
	if !ok {
		return nil, fmt.Errorf("term must have either var or functor")
	}
	f, ok := functor.(string)
	if !ok || f == "" {
		return nil, fmt.Errorf("functor must be a non-empty string")
	}
	for k := range m {
		if k != "functor" && k != "args" {
			return nil, fmt.Errorf("unknown term field %q", k)
		}
	}

	c := Compound{Functor: f}
	rawArgs, ok := m["args"]
	if !ok || rawArgs == nil {
		return c, nil
	}
	list, ok := rawArgs.([]any)
	if !ok {
		return nil, fmt.Errorf("args of %s must be a list", f)
	}
	c.Args = make([]Term, len(list))
	for i, raw := range list {
		arg, err := FromValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%s.args[%d]: %w", f, i, err)
		}
		c.Args[i] = arg
	}
	return c, nil
}
