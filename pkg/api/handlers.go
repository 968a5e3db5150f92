package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/james-see/midi2tone/pkg/converter"
	"github.com/james-see/midi2tone/pkg/converter/targets"
	"github.com/james-see/midi2tone/pkg/logger"
	"github.com/james-see/midi2tone/pkg/melody"
)

// maxTempo is the largest value a Set Tempo event can carry (24 bits)
const maxTempo = 0xFFFFFF

type handlers struct {
	maxUploadBytes int64
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2tone",
	})
}

// listTargets godoc
// @Summary List output targets
// @Description Returns the output formats a melody can be rendered to
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]string
// @Router /api/v1/targets [get]
func listTargets(c *gin.Context) {
	list := make([]gin.H, 0, 2)
	for _, t := range targets.All() {
		list = append(list, gin.H{
			"id":        t.ID(),
			"name":      t.Name(),
			"extension": t.Extension(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"targets": list})
}

// noteFrequency godoc
// @Summary Frequency of a MIDI note
// @Description Returns the tone frequency for a MIDI note number (0 if out of range)
// @Tags info
// @Produce json
// @Param note path int true "MIDI note number (0-127)"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /api/v1/frequency/{note} [get]
func noteFrequency(c *gin.Context) {
	note, err := strconv.Atoi(c.Param("note"))
	if err != nil || note < 0 || note > 127 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note must be an integer between 0 and 127"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"note":      note,
		"frequency": melody.Frequency(uint8(note)),
	})
}

// convert godoc
// @Summary Convert a MIDI track to a tone melody
// @Description Upload a MIDI file and receive frequency/duration arrays
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Produce application/json
// @Param file formData file true "MIDI file to convert"
// @Param track query int false "Track index (default: 0)"
// @Param tempo query int false "Microseconds per quarter note (default: 500000)"
// @Param quantization query int false "Quantization step in ms (default: 50)"
// @Param max_notes query int false "Maximum number of entries (default: 200)"
// @Param name query string false "Array name prefix"
// @Param target query string false "Output target: arduino or json (default: arduino)"
// @Param detect_tempo query bool false "Use the file's first tempo event"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert [post]
func (h *handlers) convert(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := targets.Lookup(c.Query("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	if converter.DetectFormatFromContent(data) != converter.FormatMIDI {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a MIDI file"})
		return
	}

	fields := logger.WithContext(c)
	fields["file"] = header.Filename
	fields["track"] = req.Track

	conv := converter.New(target)
	res, err := conv.Convert(header.Filename, data, req)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, melody.ErrInvalidOptions) {
			status = http.StatusBadRequest
		}
		fields["error"] = err.Error()
		logger.Warn("Conversion failed", fields)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := conv.Render(&buf, res); err != nil {
		if errors.Is(err, targets.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Render failed", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	if outputName == "" || outputName == "." {
		outputName = "melody"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s%s", outputName, target.Extension()))
	c.Header("X-Note-Count", strconv.Itoa(res.Count()))
	c.Data(http.StatusOK, target.ContentType(), buf.Bytes())
}

// parseRequest reads conversion parameters from the query string
func parseRequest(c *gin.Context) (converter.Request, error) {
	req := converter.DefaultRequest()
	req.Name = c.Query("name")

	var err error
	if req.Track, err = queryInt(c, "track", req.Track); err != nil {
		return req, err
	}
	tempo, err := queryInt(c, "tempo", int(req.Options.Tempo))
	if err != nil {
		return req, err
	}
	if tempo <= 0 || tempo > maxTempo {
		return req, fmt.Errorf("tempo must be between 1 and %d", maxTempo)
	}
	req.Options.Tempo = uint32(tempo)
	if req.Options.Quantization, err = queryInt(c, "quantization", req.Options.Quantization); err != nil {
		return req, err
	}
	if req.Options.MaxNotes, err = queryInt(c, "max_notes", req.Options.MaxNotes); err != nil {
		return req, err
	}
	if v := c.Query("detect_tempo"); v != "" {
		if req.DetectTempo, err = strconv.ParseBool(v); err != nil {
			return req, fmt.Errorf("invalid detect_tempo: %q", v)
		}
	}
	return req, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
