package apk

import (
	"encoding/json"
	"fmt"
	"os"
)

// Fixture is the JSON document shape apkguard accepts as a bundle's
// analyzable facts: permissions, the symbol table, the call graph, and
// per-method bytecode. Producing a Fixture from a real application
// bundle format is explicitly out of scope for apkguard itself; a
// fixture is how callers that do that parsing elsewhere hand results in.
type Fixture struct {
	Filename    string                          `json:"filename"`
	Filesize    int64                           `json:"filesize"`
	Permissions []string                        `json:"permissions"`
	Calls       []FixtureCall                   `json:"calls"`
	Bytecode    map[string][]FixtureInstruction `json:"bytecode,omitempty"`
}

// FixtureCall is one call-site edge: caller invokes callee at offset.
type FixtureCall struct {
	Caller FixtureMethod `json:"caller"`
	Callee FixtureMethod `json:"callee"`
	Offset int           `json:"offset"`
}

// FixtureMethod is the JSON form of a MethodRef.
type FixtureMethod struct {
	Class  string `json:"class"`
	Method string `json:"method"`
}

func (m FixtureMethod) ref() MethodRef {
	return MethodRef{Class: m.Class, Method: m.Method}
}

// FixtureInstruction is the JSON form of Instruction.
type FixtureInstruction struct {
	Mnemonic  string   `json:"mnemonic"`
	Registers []string `json:"registers,omitempty"`
	Parameter string   `json:"parameter,omitempty"`
}

// LoadFixture reads a Fixture document and builds the Bundle it describes.
// The bytecode map is keyed by "class->method" (MethodRef.Key()).
func LoadFixture(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied fixture path
	if err != nil {
		return nil, fmt.Errorf("reading bundle fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing bundle fixture %s: %w", path, err)
	}
	return BuildFromFixture(fx), nil
}

// BuildFromFixture assembles a Bundle from an already-decoded Fixture.
func BuildFromFixture(fx Fixture) *Bundle {
	b := NewBundle(fx.Filename, fx.Filesize)
	b.Grant(fx.Permissions...)

	for _, c := range fx.Calls {
		b.AddCall(c.Caller.ref(), c.Callee.ref(), c.Offset)
	}

	for key, instrs := range fx.Bytecode {
		class, method := splitKey(key)
		m := MethodRef{Class: class, Method: method}
		converted := make([]Instruction, 0, len(instrs))
		for _, i := range instrs {
			converted = append(converted, Instruction{
				Mnemonic:  i.Mnemonic,
				Registers: i.Registers,
				Parameter: i.Parameter,
				HasParam:  i.Parameter != "",
			})
		}
		b.SetBytecode(m, converted...)
	}

	return b
}

// splitKey reverses MethodRef.Key()'s "class->method" rendering.
func splitKey(key string) (class, method string) {
	for i := 0; i+1 < len(key); i++ {
		if key[i] == '-' && key[i+1] == '>' {
			return key[:i], key[i+2:]
		}
	}
	return key, ""
}
