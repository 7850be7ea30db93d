package syn

import (
	"fmt"
	"io/fs"
	"os"
)

// ErrNotFound is matched by errors returned for a missing post file.
var ErrNotFound = fs.ErrNotExist

// LoadFile opens path and parses the full document.
func LoadFile(path string) (*Document, error) {
	return load(path, (*Decoder).Decode, nil)
}

// LoadFileFunc is LoadFile with a callback for dropped body blocks.
func LoadFileFunc(path string, onDrop func(block string, err error)) (*Document, error) {
	return load(path, (*Decoder).Decode, onDrop)
}

// LoadMetadata opens path and parses only the header.
func LoadMetadata(path string) (*Document, error) {
	return load(path, (*Decoder).DecodeMetadata, nil)
}

func load(path string, decode func(*Decoder) (*Document, error), onDrop func(string, error)) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("syn: open %s: %w", path, err)
	}
	defer f.Close()
	dec := NewDecoder(f)
	dec.OnDrop = onDrop
	doc, err := decode(dec)
	if err != nil {
		return nil, fmt.Errorf("syn: load %s: %w", path, err)
	}
	return doc, nil
}

// SaveFile writes doc to path, creating or truncating the file. Concurrent
// writers to the same path must be serialized by the caller.
func SaveFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("syn: create %s: %w", path, err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("syn: write %s: %w", path, err)
	}
	return f.Close()
}
