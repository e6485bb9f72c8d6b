package registry

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// MarshalFunc encodes a project document
type MarshalFunc func(v any) ([]byte, error)

// UnmarshalFunc decodes a project document into v
type UnmarshalFunc func(data []byte, v any) error

// Codec pairs the two directions of one serialization format
type Codec struct {
	Name       string
	Marshal    MarshalFunc
	Unmarshal  UnmarshalFunc
	Extensions []string // Lowercase, with leading dot
}

var (
	codecsMu   sync.RWMutex
	codecs     = make(map[string]Codec)
	extensions = make(map[string]string)
)

// RegisterCodec adds a codec by name and claims its file extensions
// Re-registering a name replaces it; a later codec claiming an extension wins
func RegisterCodec(c Codec) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[c.Name] = c
	for _, ext := range c.Extensions {
		extensions[strings.ToLower(ext)] = c.Name
	}
}

// GetCodec retrieves a codec by name
func GetCodec(name string) (Codec, bool) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[name]
	return c, ok
}

// CodecForPath picks a codec from a file's extension
func CodecForPath(path string) (Codec, bool) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	name, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Codec{}, false
	}
	c, ok := codecs[name]
	return c, ok
}

// CodecNames returns all registered codec names, sorted
func CodecNames() []string {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
