package pagefile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/takeoff/model"
)

var (
	// ErrNoPages is returned for a document without any page.
	ErrNoPages = errors.New("document has no pages")
	// ErrUnknownFormat is returned when the encoding cannot be determined.
	ErrUnknownFormat = errors.New("unknown page document format")
)

// document is the multi-page form.
type document struct {
	Pages []*model.Page `json:"pages" yaml:"pages"`
}

// probe distinguishes the multi-page form from a bare page.
type probe struct {
	Pages  []any   `json:"pages" yaml:"pages"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Ops    []any   `json:"ops" yaml:"ops"`
}

// Open reads a page document from a file. The format comes from the
// extension, falling back to the content.
func Open(path string) ([]*model.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	f := Detect(path)
	if f == Unknown {
		f = DetectFromContent(data)
	}
	pages, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pages, nil
}

// Read decodes a page document from r.
func Read(r io.Reader, f Format) ([]*model.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page document: %w", err)
	}
	return Parse(data, f)
}

// Parse decodes a page document. Unknown sniffs the content. Pages without
// a number are numbered by position.
func Parse(data []byte, f Format) ([]*model.Page, error) {
	if f == Unknown {
		f = DetectFromContent(data)
	}
	if f == Unknown {
		return nil, ErrNoPages
	}

	var p probe
	if err := unmarshal(data, f, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s page document: %w", f, err)
	}

	var pages []*model.Page
	if p.Pages != nil || (p.Width == 0 && p.Height == 0 && p.Ops == nil) {
		var doc document
		if err := unmarshal(data, f, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s page document: %w", f, err)
		}
		pages = doc.Pages
	} else {
		page := new(model.Page)
		if err := unmarshal(data, f, page); err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", f, err)
		}
		pages = []*model.Page{page}
	}

	out := pages[:0]
	for _, page := range pages {
		if page != nil {
			out = append(out, page)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPages
	}
	for i, page := range out {
		if page.Number == 0 {
			page.Number = i + 1
		}
	}
	return out, nil
}

func unmarshal(data []byte, f Format, v any) error {
	switch f {
	case JSON:
		return json.Unmarshal(data, v)
	case YAML:
		return yaml.Unmarshal(data, v)
	default:
		return ErrUnknownFormat
	}
}

// Write encodes pages as a multi-page document.
func Write(w io.Writer, pages []*model.Page, f Format) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	doc := document{Pages: pages}
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode pages: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode pages: %w", err)
		}
		return enc.Close()
	default:
		return ErrUnknownFormat
	}
	return nil
}

// Fingerprint identifies a page by its content: the hex SHA-256 of its
// canonical JSON encoding. The page number is not part of it.
func Fingerprint(page *model.Page) string {
	if page == nil {
		return ""
	}
	c := *page
	c.Number = 0
	var buf bytes.Buffer
	// encoding a Page cannot fail: it holds only numbers, strings and slices
	_ = json.NewEncoder(&buf).Encode(c)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
