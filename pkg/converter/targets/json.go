package targets

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/james-see/midi2tone/pkg/converter"
)

// Document is the JSON representation of a converted melody
type Document struct {
	Source       string `json:"source"`
	Name         string `json:"name,omitempty"`
	Track        int    `json:"track"`
	Tempo        uint32 `json:"tempo"`
	Quantization int    `json:"quantization"`
	TicksPerBeat uint16 `json:"ticks_per_beat"`
	Size         int    `json:"size"`
	Melody       []int  `json:"melody"`
	Durations    []int  `json:"durations"`
}

// NewDocument builds the JSON document for a result
func NewDocument(res *converter.Result) Document {
	return Document{
		Source:       res.Source,
		Name:         res.Name,
		Track:        res.Track,
		Tempo:        res.Tempo,
		Quantization: res.Quantization,
		TicksPerBeat: res.TicksPerBeat,
		Size:         res.Count(),
		Melody:       nonNil(res.Melody.Frequencies),
		Durations:    nonNil(res.Melody.Durations),
	}
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// JSON renders a melody as a JSON document
type JSON struct{}

// NewJSON creates a new JSON target
func NewJSON() *JSON {
	return &JSON{}
}

// ID returns the target ID
func (j *JSON) ID() string {
	return "json"
}

// Name returns the target name
func (j *JSON) Name() string {
	return "JSON document"
}

// Extension returns the output file extension
func (j *JSON) Extension() string {
	return ".json"
}

// ContentType returns the MIME type of rendered output
func (j *JSON) ContentType() string {
	return "application/json"
}

// Render writes the result as indented JSON
func (j *JSON) Render(w io.Writer, res *converter.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}
