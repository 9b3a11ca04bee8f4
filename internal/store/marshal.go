package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/program"
)

// marshalSource converts a term to canonical JSON TEXT for storage.
func marshalSource(t ir.Term) (string, error) {
	data, err := ir.MarshalCanonical(t)
	if err != nil {
		return "", fmt.Errorf("marshal source: %w", err)
	}
	return string(data), nil
}

// unmarshalSource parses canonical JSON TEXT back into a term. The canonical
// form uses the same shapes ir.FromValue accepts.
func unmarshalSource(data string) (ir.Term, error) {
	var raw any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal source: %w", err)
	}
	t, err := ir.FromValue(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal source: %w", err)
	}
	return t, nil
}

// marshalBindings converts run bindings to canonical JSON TEXT.
func marshalBindings(bindings map[string]ir.Term) (string, error) {
	if len(bindings) == 0 {
		return "{}", nil
	}
	data, err := ir.MarshalBindings(bindings)
	if err != nil {
		return "", fmt.Errorf("marshal bindings: %w", err)
	}
	return string(data), nil
}

// unmarshalBindings parses canonical JSON TEXT into bindings.
func unmarshalBindings(data string) (map[string]ir.Term, error) {
	bindings := map[string]ir.Term{}
	if data == "" || data == "{}" {
		return bindings, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal bindings: %w", err)
	}
	for name, v := range raw {
		t, err := ir.FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("unmarshal bindings: %s: %w", name, err)
		}
		bindings[name] = t
	}
	return bindings, nil
}

func marshalSymbols(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshal symbols: %w", err)
	}
	return string(data), nil
}

func unmarshalSymbols(data string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal symbols: %w", err)
	}
	return names, nil
}

func marshalCode(p *program.Program) ([]byte, error) {
	data, err := p.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("marshal code: %w", err)
	}
	return data, nil
}

func unmarshalCode(data []byte) (*program.Program, error) {
	p, err := program.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal code: %w", err)
	}
	return p, nil
}
