package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Config is one entry of a metadata document's codec list: a codec name
// plus its raw configuration object.
type Config struct {
	Name          string
	Configuration json.RawMessage
}

type configDoc struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// MarshalJSON renders {"name": ..., "configuration": {...}}, omitting an
// empty configuration.
func (c Config) MarshalJSON() ([]byte, error) {
	cfg := c.Configuration
	if len(bytes.TrimSpace(cfg)) == 0 || string(bytes.TrimSpace(cfg)) == "{}" || string(bytes.TrimSpace(cfg)) == "null" {
		cfg = nil
	}
	return json.Marshal(configDoc{Name: c.Name, Configuration: cfg})
}

// UnmarshalJSON parses the document form; a bare string is also accepted
// as shorthand for a codec without configuration.
func (c *Config) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*c = Config{Name: name}
		return nil
	}
	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Name == "" {
		return fmt.Errorf("codec entry is missing a name")
	}
	*c = Config{Name: doc.Name, Configuration: doc.Configuration}
	return nil
}

// Factory builds a configured codec from its raw configuration, which may
// be empty for codecs with defaults.
type Factory func(config json.RawMessage) (any, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register installs a codec factory under a name. Built-in codecs register
// during package init; additional codecs may be registered at program
// start-up. Registering a duplicate name panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("codec %q already registered", name))
	}
	registry[name] = f
}

// Registered returns the sorted names of all registered codecs.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs a configured codec instance from a config entry.
// The result is one of ArrayArrayCodec, ArrayBytesCodec or BytesBytesCodec.
func Build(cfg Config) (any, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, cfg.Name)
	}
	c, err := f(cfg.Configuration)
	if err != nil {
		return nil, fmt.Errorf("codec %q: invalid configuration: %w", cfg.Name, err)
	}
	return c, nil
}
