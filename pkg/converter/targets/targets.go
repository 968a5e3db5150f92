// Package targets provides output formats for tone generators
package targets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/james-see/midi2tone/pkg/converter"
)

// ErrUnknownTarget is returned by Lookup for unsupported target IDs
var ErrUnknownTarget = errors.New("unknown target")

// DefaultID is the target used when none is requested
const DefaultID = "arduino"

// All returns every supported target
func All() []converter.Target {
	return []converter.Target{
		NewArduino(),
		NewJSON(),
	}
}

// Lookup returns the target with the given ID (case-insensitive).
// An empty ID selects the default target.
func Lookup(id string) (converter.Target, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = DefaultID
	}
	switch id {
	case "arduino", "c", "h":
		return NewArduino(), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
}

// IDs returns the IDs of all supported targets
func IDs() []string {
	all := All()
	ids := make([]string, 0, len(all))
	for _, t := range all {
		ids = append(ids, t.ID())
	}
	return ids
}
