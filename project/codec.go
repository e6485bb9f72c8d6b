package project

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-palette/registry"
	"github.com/lixenwraith/vi-palette/toml"
)

func init() {
	registry.RegisterCodec(registry.Codec{
		Name:       "toml",
		Marshal:    toml.Marshal,
		Unmarshal:  toml.Unmarshal,
		Extensions: []string{".toml"},
	})
	registry.RegisterCodec(registry.Codec{
		Name:       "yaml",
		Marshal:    yaml.Marshal,
		Unmarshal:  yaml.Unmarshal,
		Extensions: []string{".yaml", ".yml"},
	})
	registry.RegisterCodec(registry.Codec{
		Name:       "json",
		Marshal:    marshalJSON,
		Unmarshal:  json.Unmarshal,
		Extensions: []string{".json"},
	})
	// Comments and trailing commas are stripped before decoding; output is plain JSON
	registry.RegisterCodec(registry.Codec{
		Name:    "jsonc",
		Marshal: marshalJSON,
		Unmarshal: func(data []byte, v any) error {
			return json.Unmarshal(jsonc.ToJSON(data), v)
		},
		Extensions: []string{".jsonc"},
	})
}

func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func codecFor(format string) (registry.Codec, error) {
	c, ok := registry.GetCodec(format)
	if !ok {
		return registry.Codec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return c, nil
}

func codecForPath(path string) (registry.Codec, error) {
	c, ok := registry.CodecForPath(path)
	if !ok {
		return registry.Codec{}, fmt.Errorf("%w: %s (extension %q)", ErrUnknownFormat, path, filepath.Ext(path))
	}
	return c, nil
}

// Decode parses data in the named format
func Decode(data []byte, format string) (Document, error) {
	c, err := codecFor(format)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := c.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", format, err)
	}
	return doc, nil
}

// Encode serializes doc in the named format
func Encode(doc Document, format string) ([]byte, error) {
	c, err := codecFor(format)
	if err != nil {
		return nil, err
	}
	out, err := c.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return out, nil
}
