package tmpl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// DecodeJSON reads a single JSON object from r and converts it into a root
// scope. Integral numbers decode as integers, all other numbers as floats.
func DecodeJSON(r io.Reader) (map[string]Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any

	err := dec.Decode(&doc)
	if err != nil {
		return nil, ErrDataFormat.Wrap(err).With(slog.String("format", "json"))
	}

	if dec.More() {
		return nil, ErrDataFormat.With(
			slog.String("format", "json"),
			slog.String("reason", "trailing data after document"),
		)
	}

	return rootFromNative(doc, "json")
}

// DecodeYAML reads a YAML document from r and converts it into a root scope.
// An empty document yields an empty scope.
func DecodeYAML(ctx context.Context, r io.Reader) (map[string]Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrResourceAccess.Wrap(err).With(slog.String("format", "yaml"))
	}

	var doc any

	err = yaml.UnmarshalContext(ctx, data, &doc)
	if err != nil {
		return nil, ErrDataFormat.Wrap(err).With(slog.String("format", "yaml"))
	}

	if doc == nil {
		return map[string]Value{}, nil
	}

	return rootFromNative(doc, "yaml")
}

// DecodeTOML reads a TOML document from r and converts it into a root scope.
// Date and time values become RFC 3339 strings.
func DecodeTOML(r io.Reader) (map[string]Value, error) {
	var doc map[string]any

	_, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, ErrDataFormat.Wrap(err).With(slog.String("format", "toml"))
	}

	return rootFromNative(doc, "toml")
}

// DataFormats lists the file extensions understood by [LoadData].
var DataFormats = []string{".json", ".yaml", ".yml", ".toml"}

// LoadData reads the data file at path and converts it into a root scope.
// The format is chosen by file extension; see [DataFormats].
func LoadData(ctx context.Context, path string) (map[string]Value, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json", ".yaml", ".yml", ".toml":
	default:
		return nil, ErrDataFormat.With(
			slog.String("path", path),
			slog.String("reason", "unrecognized file extension"),
		)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrResourceAccess.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return DecodeData(ctx, file, ext)
}

// DecodeData decodes r in the format named by ext, which is one of
// [DataFormats].
func DecodeData(
	ctx context.Context,
	r io.Reader,
	ext string,
) (map[string]Value, error) {
	// Wrap reader with async read-ahead so decoding overlaps file I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	var (
		root map[string]Value
		err  error
	)

	switch strings.ToLower(ext) {
	case ".json":
		root, err = DecodeJSON(ra)
	case ".yaml", ".yml":
		root, err = DecodeYAML(ctx, ra)
	case ".toml":
		root, err = DecodeTOML(ra)
	default:
		err = ErrDataFormat.With(slog.String("ext", ext))
	}

	return root, err
}

func rootFromNative(doc any, format string) (map[string]Value, error) {
	v, err := FromNative(doc)
	if err != nil {
		return nil, WrapError(err).With(slog.String("format", format))
	}

	if v.kind != KindMap {
		return nil, ErrDataFormat.With(
			slog.String("format", format),
			slog.String("reason", "document root must be a mapping"),
			slog.String("kind", v.kind.String()),
		)
	}

	return v.m, nil
}
