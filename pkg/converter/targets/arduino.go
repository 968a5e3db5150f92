package targets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/james-see/midi2tone/pkg/converter"
)

// ValuesPerLine is how many array values are written before wrapping
const ValuesPerLine = 8

// ErrInvalidName is returned when an array prefix is not a C identifier
var ErrInvalidName = errors.New("invalid array name")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Arduino renders a melody as C array literals for tone()
type Arduino struct{}

// NewArduino creates a new Arduino target
func NewArduino() *Arduino {
	return &Arduino{}
}

// ID returns the target ID
func (a *Arduino) ID() string {
	return "arduino"
}

// Name returns the target name
func (a *Arduino) Name() string {
	return "Arduino tone() arrays"
}

// Extension returns the output file extension
func (a *Arduino) Extension() string {
	return ".h"
}

// ContentType returns the MIME type of rendered output
func (a *Arduino) ContentType() string {
	return "text/x-c; charset=utf-8"
}

// ArrayNames returns the melody, duration and size identifiers for a
// prefix. An empty prefix gives melody, duration and sizeofMelody.
func (a *Arduino) ArrayNames(prefix string) (melody, duration, size string, err error) {
	if prefix == "" {
		return "melody", "duration", "sizeofMelody", nil
	}
	if !identifier.MatchString(prefix) {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidName, prefix)
	}
	title := cases.Title(language.Und, cases.NoLower)
	return prefix + "Melody", prefix + "Duration", "sizeof" + title.String(prefix), nil
}

// Render writes the header comments, both arrays and the size constant
func (a *Arduino) Render(w io.Writer, res *converter.Result) error {
	melodyName, durationName, sizeName, err := a.ArrayNames(res.Name)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "// Generated from: %s\n", res.Source)
	fmt.Fprintf(bw, "// Track number: %d\n", res.Track)
	fmt.Fprintf(bw, "// Tempo: %d microseconds per quarter note\n", res.Tempo)
	fmt.Fprintf(bw, "// Quantization: %d ms\n", res.Quantization)
	fmt.Fprintf(bw, "// Number of notes: %d\n", res.Count())
	bw.WriteString("\n")
	bw.WriteString(FormatArray("const int "+melodyName+"[]", res.Melody.Frequencies))
	bw.WriteString("\n\n")
	bw.WriteString(FormatArray("const unsigned int "+durationName+"[]", res.Melody.Durations))
	bw.WriteString("\n\n")
	fmt.Fprintf(bw, "const int %s = sizeof(%s) / sizeof(%s[0]);\n", sizeName, melodyName, melodyName)
	return bw.Flush()
}

// FormatArray renders a C array initializer, ValuesPerLine values per line
func FormatArray(decl string, values []int) string {
	lines := make([]string, 0, len(values)/ValuesPerLine+1)
	for i := 0; i < len(values); i += ValuesPerLine {
		end := min(i+ValuesPerLine, len(values))
		row := make([]string, 0, end-i)
		for _, v := range values[i:end] {
			row = append(row, strconv.Itoa(v))
		}
		lines = append(lines, strings.Join(row, ", "))
	}
	return decl + " = {\n  " + strings.Join(lines, ",\n  ") + "\n};"
}
