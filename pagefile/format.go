package pagefile

import (
	"path/filepath"
	"strings"
)

// Format represents a supported page document encoding.
type Format int

const (
	// Unknown indicates an unrecognized encoding.
	Unknown Format = iota
	// JSON indicates a JSON document.
	JSON
	// YAML indicates a YAML document.
	YAML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case YAML:
		return "YAML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	default:
		return ""
	}
}

// Detect determines the format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return Unknown
	}
}

// DetectFromContent guesses the format from the first significant byte.
// Anything that does not open a JSON object or array is treated as YAML.
func DetectFromContent(data []byte) Format {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return Unknown
	}
	switch data[start] {
	case '{', '[':
		return JSON
	default:
		return YAML
	}
}
