package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It handles typical structs, maps, slices and scalars. Time values,
// complex numbers, funcs and channels may not round-trip.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
//
// NOTE: This only affects newly written snapshots. Existing snapshots store
// the codec name in their header and are decoded with that codec.
var Default Codec = GoJSON{}
