package fs

import (
	"fmt"
	"io"

	"github.com/aretw0/tablet/pkg/codec"
)

// Serializer defines how record mappings are read from and written to files.
type Serializer interface {
	// Parse reads one record from r.
	Parse(r io.Reader) (map[string]any, error)
	// Serialize renders one record.
	Serialize(fields codec.Fields) ([]byte, error)
	// SerializeList renders the snapshot of several records.
	SerializeList(items []codec.Fields) ([]byte, error)
}

// FlatSerializer handles the flat JSON-like record format of package codec.
type FlatSerializer struct{}

// NewFlatSerializer creates the default serializer.
func NewFlatSerializer() *FlatSerializer {
	return &FlatSerializer{}
}

func (s *FlatSerializer) Parse(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError("read record", err)
	}

	fields, err := codec.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return fields, nil
}

// Serialize refuses fields that would not decode back, so a bad value never
// reaches disk.
func (s *FlatSerializer) Serialize(fields codec.Fields) ([]byte, error) {
	if err := codec.Validate(fields); err != nil {
		return nil, err
	}
	return []byte(codec.Encode(fields)), nil
}

func (s *FlatSerializer) SerializeList(items []codec.Fields) ([]byte, error) {
	for _, item := range items {
		if err := codec.Validate(item); err != nil {
			return nil, err
		}
	}
	return []byte(codec.EncodeList(items)), nil
}
