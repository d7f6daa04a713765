package bytecode

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the serialized format changes.
const codeSchemaVersion uint16 = 1

type codePayload struct {
	Schema uint16     `msgpack:"schema"`
	Code   CodeObject `msgpack:"code"`
}

// Encode writes the serialized form of a code object.
func Encode(w io.Writer, c *CodeObject) error {
	if c == nil {
		return fmt.Errorf("bytecode: nil code object")
	}
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&codePayload{Schema: codeSchemaVersion, Code: *c})
}

// Decode reads a serialized code object, rejecting unknown schema
// versions.
func Decode(r io.Reader) (*CodeObject, error) {
	dec := msgpack.NewDecoder(r)
	var payload codePayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("bytecode: decode: %w", err)
	}
	if payload.Schema != codeSchemaVersion {
		return nil, fmt.Errorf("bytecode: unsupported schema version %d (want %d)", payload.Schema, codeSchemaVersion)
	}
	code := payload.Code
	if err := code.Validate(); err != nil {
		return nil, fmt.Errorf("bytecode: %s: %w", code.Name, err)
	}
	return &code, nil
}

// ReadFile loads a serialized code object from disk.
func ReadFile(path string) (*CodeObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile stores a serialized code object to disk.
func WriteFile(path string, c *CodeObject) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
