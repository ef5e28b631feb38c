// Package source opens TDF game logs from disk or from the archive and
// transcodes them to UTF-8 for the parser.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zmaniacz/lfstats-chomper/internal/api"
	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnavailable is returned when a TDF cannot be read from its source.
var ErrUnavailable = errors.New("tdf source unavailable")

const (
	EncodingUTF16LE = "utf-16le"
	EncodingUTF8    = "utf-8"
)

// Source opens the raw bytes of one TDF by its key.
type Source interface {
	Open(ctx context.Context, tdfID string) (io.ReadCloser, error)
}

// New builds the source selected by cfg.Type.
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case "file", "":
		return NewFileSource(cfg.Dir), nil
	case "archive":
		return NewArchiveSource(api.New(cfg.ServerURL, cfg.APIKey)), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}

// FileSource reads TDFs from a directory. Absolute keys bypass the directory.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Open(ctx context.Context, tdfID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := tdfID
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	if filepath.Ext(path) == "" {
		path += ".tdf"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return f, nil
}

// ArchiveSource fetches TDFs over HTTP from the archive service.
type ArchiveSource struct {
	client *api.Client
}

func NewArchiveSource(client *api.Client) *ArchiveSource {
	return &ArchiveSource{client: client}
}

func (s *ArchiveSource) Open(ctx context.Context, tdfID string) (io.ReadCloser, error) {
	body, err := s.client.Fetch(ctx, tdfID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

type decodedReader struct {
	io.Reader
	io.Closer
}

// Decode wraps rc so reads yield UTF-8. UTF-16 input honours a byte-order mark
// and otherwise assumes little-endian.
func Decode(rc io.ReadCloser, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(encoding) {
	case EncodingUTF16LE, "utf16le", "utf-16":
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return decodedReader{Reader: transform.NewReader(rc, dec), Closer: rc}, nil
	case EncodingUTF8, "utf8", "":
		return rc, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

// OpenDecoded opens tdfID from src and decodes it.
func OpenDecoded(ctx context.Context, src Source, tdfID, encoding string) (io.ReadCloser, error) {
	rc, err := src.Open(ctx, tdfID)
	if err != nil {
		return nil, err
	}
	dec, err := Decode(rc, encoding)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return dec, nil
}
