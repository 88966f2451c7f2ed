package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// Format is an input document encoding.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Envelope keys.
const (
	keyTasks         = "tasks"
	keyStrategy      = "strategy"
	keyCustomWeights = "custom_weights"
	keyCount         = "count"
)

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "input format %q", name)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "cannot infer format of %s", path)
	}
	return ParseFormat(ext)
}

// Batch is one decoded task document. The optional envelope fields are zero
// when the document was a bare list.
type Batch struct {
	Source        string
	Tasks         []task.Raw
	Strategy      string
	CustomWeights map[string]any
	// Count is nil unless the envelope carried one.
	Count *int
}

// Decode reads a whole document from r and checks its shape.
func Decode(r io.Reader, format Format, source string) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, errors.NewInputError("reading document", err).WithSource(source)
	}

	doc, err := unmarshal(data, format)
	if err != nil {
		if errors.Is(err, errors.ErrUnsupportedFormat) {
			return Batch{}, err
		}
		return Batch{}, errors.NewInputError(fmt.Sprintf("malformed %s document", format),
			errors.Join(errors.ErrInvalidInput, err)).WithSource(source)
	}

	return Parse(doc, source)
}

func unmarshal(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, fmt.Errorf("unexpected data after top-level value")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "input format %q", format)
	}
	return normalize(doc), nil
}

// Parse checks the shape of a decoded document. It accepts either a list of
// task mappings or an envelope mapping whose "tasks" key holds that list.
// Anything else is a fatal input error. Field values are left untouched for
// the validator.
func Parse(doc any, source string) (Batch, error) {
	batch := Batch{Source: source}

	var list any
	switch d := doc.(type) {
	case []any:
		list = d
	case map[string]any:
		tasks, ok := d[keyTasks]
		if !ok {
			return Batch{}, shapeError(source, "envelope has no tasks list")
		}
		list = tasks
		if err := parseEnvelope(d, &batch); err != nil {
			return Batch{}, err
		}
	case nil:
		// An empty document is an empty batch.
		batch.Tasks = []task.Raw{}
		return batch, nil
	default:
		return Batch{}, shapeError(source, fmt.Sprintf("document is a %s, not a list of tasks", kind(doc)))
	}

	items, ok := list.([]any)
	if !ok && list != nil {
		return Batch{}, shapeError(source, fmt.Sprintf("tasks is a %s, not a list", kind(list)))
	}

	batch.Tasks = make([]task.Raw, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return Batch{}, shapeError(source, fmt.Sprintf("task is a %s, not a mapping", kind(item))).WithIndex(i)
		}
		batch.Tasks = append(batch.Tasks, task.Raw(m))
	}
	return batch, nil
}

func parseEnvelope(d map[string]any, batch *Batch) error {
	if v, ok := d[keyStrategy]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return shapeError(batch.Source, "strategy must be a string")
		}
		batch.Strategy = s
	}

	if v, ok := d[keyCustomWeights]; ok && v != nil {
		m, ok := v.(map[string]any)
		if !ok {
			return shapeError(batch.Source, "custom_weights must be a mapping")
		}
		batch.CustomWeights = m
	}

	if v, ok := d[keyCount]; ok && v != nil {
		switch c := v.(type) {
		case string:
			v = strings.TrimSpace(c)
		case json.Number:
			v = c.String()
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return shapeError(batch.Source, "count must be an integer")
		}
		batch.Count = &n
	}
	return nil
}

func shapeError(source, msg string) *errors.InputError {
	return errors.NewInputError(msg, errors.ErrInvalidInput).WithSource(source)
}

// normalize rewrites decoder-specific value types into the plain forms the
// validator understands: string-keyed maps, []any lists and time.Time dates.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, inner := range v {
			v[k] = normalize(inner)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, inner := range v {
			m[fmt.Sprint(k)] = normalize(inner)
		}
		return m
	case []any:
		for i, inner := range v {
			v[i] = normalize(inner)
		}
		return v
	case toml.LocalDate:
		return v.AsTime(time.UTC)
	case toml.LocalDateTime:
		return v.AsTime(time.UTC)
	default:
		return v
	}
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	case json.Number, int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
