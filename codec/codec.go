// Package codec encodes container manifests.
//
// Every manifest records the name of the codec that wrote it, so a container
// written with one codec can still be opened after Default changes.
package codec

import (
	"encoding/json"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

var (
	// JSON uses encoding/json. Manifests written with it can be read by any
	// JSON tooling.
	JSON Codec = jsonCodec{name: "json", marshal: json.Marshal, unmarshal: json.Unmarshal}

	// GoJSON uses github.com/goccy/go-json.
	GoJSON Codec = jsonCodec{name: "go-json", marshal: gojson.Marshal, unmarshal: gojson.Unmarshal}

	// Default is the codec used for newly written manifests.
	Default = GoJSON
)

// builtin maps the name stored in a manifest header to its codec.
var builtin = map[string]Codec{
	JSON.Name():   JSON,
	GoJSON.Name(): GoJSON,
}

type jsonCodec struct {
	name      string
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

func (c jsonCodec) Marshal(v any) ([]byte, error)      { return c.marshal(v) }
func (c jsonCodec) Unmarshal(data []byte, v any) error { return c.unmarshal(data, v) }
func (c jsonCodec) Name() string                       { return c.name }

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	c, ok := builtin[name]
	return c, ok
}

// MustMarshal marshals v with c (or Default when c is nil) and panics on error.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
