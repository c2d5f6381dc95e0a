// Package helpers loads widget datasets: it fetches bytes by URI, decodes
// JSON, CSV and XLSX through a schema, fingerprints payloads and guards
// against out-of-order responses.
package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"

	"github.com/spektr-org/vizkit"
	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/schema"
)

// ============================================================================
// READ — Fetch datasets by URI and decode them through a schema
// ============================================================================
// URIs go through afs, so file paths, file://, mem:// and http(s):// all
// work. The format comes from the URI extension unless given explicitly.
// ============================================================================

// ErrFormat is returned for data in a format the helpers cannot decode.
var ErrFormat = errors.New("helpers: unsupported format")

// Format names a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf guesses the format from a URI extension, JSON when unknown.
func FormatOf(uri string) Format {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	switch strings.ToLower(path.Ext(uri)) {
	case ".csv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	return FormatJSON
}

// Dataset is a decoded dataset with the schema that produced it.
type Dataset struct {
	URI         string
	Schema      *schema.Config
	Records     []engine.Record
	Fingerprint uint64
}

// View wraps the records as an engine.RecordView.
func (d *Dataset) View() engine.RecordView {
	return engine.NewSliceView(d.Records)
}

// Reader fetches and decodes datasets.
type Reader struct {
	fs afs.Service
}

// NewReader returns a Reader backed by the default afs service.
func NewReader() *Reader {
	return &Reader{fs: afs.New()}
}

var defaultReader = NewReader()

// ReadData downloads the raw bytes at uri.
func ReadData(ctx context.Context, uri string) ([]byte, error) {
	return defaultReader.ReadData(ctx, uri)
}

// ReadData downloads the raw bytes at uri.
func (r *Reader) ReadData(ctx context.Context, uri string) ([]byte, error) {
	data, err := r.fs.DownloadWithURL(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("helpers: read %s: %w", uri, err)
	}
	vizkit.Logger().Debug("helpers: read", "uri", uri, "bytes", len(data))
	return data, nil
}

// ReadJSON downloads uri and decodes it into a T, for datasets that are
// not flat records (scatter years, map regions, census points).
func ReadJSON[T any](ctx context.Context, r *Reader, uri string) (T, error) {
	var out T
	data, err := r.ReadData(ctx, uri)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("helpers: decode %s: %w", uri, err)
	}
	return out, nil
}

// Load reads uri and decodes it with sch. A nil sch is inferred from the
// data.
func (r *Reader) Load(ctx context.Context, uri string, sch *schema.Config) (*Dataset, error) {
	data, err := r.ReadData(ctx, uri)
	if err != nil {
		return nil, err
	}
	ds, err := Decode(FormatOf(uri), data, sch)
	if err != nil {
		return nil, fmt.Errorf("helpers: load %s: %w", uri, err)
	}
	ds.URI = uri
	return ds, nil
}

// Load reads uri with the default Reader.
func Load(ctx context.Context, uri string, sch *schema.Config) (*Dataset, error) {
	return defaultReader.Load(ctx, uri, sch)
}

// Decode turns raw bytes into a Dataset.
func Decode(format Format, data []byte, sch *schema.Config) (*Dataset, error) {
	fp, err := Fingerprint(data)
	if err != nil {
		return nil, err
	}

	var (
		header []string
		rows   [][]string
		raw    []map[string]any
	)
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("helpers: decode json: %w", err)
		}
	case FormatCSV:
		header, rows, err = decodeCSV(data)
	case FormatXLSX:
		header, rows, err = decodeXLSX(data, "")
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if sch == nil {
		if raw != nil {
			sch, err = schema.DiscoverFromRecords(raw)
		} else {
			sch, err = schema.Discover(header, rows)
		}
		if err != nil {
			return nil, err
		}
	} else if err := sch.Validate(); err != nil {
		return nil, err
	}

	var records []engine.Record
	if raw != nil {
		records, err = sch.Records(raw)
	} else {
		records, err = sch.Table(header, rows)
	}
	if err != nil {
		return nil, err
	}
	return &Dataset{Schema: sch, Records: records, Fingerprint: fp}, nil
}
