package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/safety-api/catalog/entities"
	"github.com/giygas/safety-api/interfaces"
	"github.com/giygas/safety-api/logging"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v2"
)

// Compile-time check to ensure FileSource implements CatalogSource
var _ interfaces.CatalogSource = (*FileSource)(nil)

// FileSource loads a catalog document from a local path or an http(s) URL.
type FileSource struct {
	Location string
	Client   *http.Client
}

// NewFileSource creates a file source with the default download timeout
func NewFileSource(location string) *FileSource {
	return &FileSource{
		Location: location,
		Client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

func (s *FileSource) Name() string {
	return "file:" + s.Location
}

// Load reads, decodes, and indexes the catalog document
func (s *FileSource) Load(ctx context.Context) (*entities.Snapshot, error) {
	raw, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(raw, s.extension())
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", s.Location, err)
	}

	return Build(doc)
}

func (s *FileSource) isRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

func (s *FileSource) extension() string {
	p := s.Location
	if s.isRemote() {
		if u, err := url.Parse(s.Location); err == nil {
			p = u.Path
		}
	}
	return strings.ToLower(filepath.Ext(p))
}

func (s *FileSource) read(ctx context.Context) ([]byte, error) {
	if !s.isRemote() {
		data, err := os.ReadFile(filepath.Clean(s.Location))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", s.Location, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.Location, err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", s.Location, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %d", s.Location, response.StatusCode)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// Decode parses a catalog document. Input that is not valid UTF-8 is treated
// as ISO-8859-1. ext selects YAML for ".yaml"/".yml", JSON otherwise.
// Both formats reject fields the document does not define.
func Decode(raw []byte, ext string) (*Document, error) {
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ISO-8859-1 content: %w", err)
		}
		raw = decoded
	}

	var doc Document
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(raw, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}
