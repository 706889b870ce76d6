package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] that reads flag values from a
// YAML document, as written by the init command.
//
// The document is a flat mapping from flag name to value:
//
//	log-level: debug
//	log-format: json
//	partials:
//	  - ./partials
//	max-depth: 20
//
// Keys may use underscores in place of hyphens ("log_level"). Sequences set
// repeated flags. A document that cannot be decoded, or whose root is not a
// mapping, is ignored.
//
// Command-line flags override configuration file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return config{}, nil //nolint:nilerr
	}

	cfg := make(config, len(doc))
	for k, v := range doc {
		cfg[k] = flagValue(v)
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value into a form kong can parse.
// Kong requires numbers as strings.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
