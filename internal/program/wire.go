package program

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the current encoded program format version.
const WireVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireProgram is the serialized form of a Program.
type wireProgram struct {
	Version   int   `cbor:"1,keyasint"`
	Code      []int `cbor:"2,keyasint"`
	Count     int   `cbor:"3,keyasint"`
	Registers int   `cbor:"4,keyasint"`
}

// MarshalCBOR serializes the program to canonical CBOR.
func (p *Program) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(wireProgram{
		Version:   WireVersion,
		Code:      p.code,
		Count:     p.count,
		Registers: p.registers,
	})
}

// Unmarshal deserializes and validates a program produced by MarshalCBOR.
func Unmarshal(data []byte) (*Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("program: unmarshal: %w", err)
	}
	if w.Version != WireVersion {
		return nil, fmt.Errorf("program: unsupported wire version %d", w.Version)
	}
	p := &Program{code: w.Code, count: w.Count, registers: w.Registers}
	if p.code == nil {
		p.code = []int{}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("program: invalid: %w", err)
	}
	return p, nil
}
