package ingest

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/task"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestLoad_JSONBareList(t *testing.T) {
	fs := memFs(t, map[string]string{
		"tasks.json": `[{"id": 1, "title": "Fix bug", "estimated_hours": 2.5, "dependencies": [2]}]`,
	})

	batch, err := NewLoader(fs).Load("tasks.json")
	require.NoError(t, err)

	assert.Equal(t, "tasks.json", batch.Source)
	require.Len(t, batch.Tasks, 1)
	assert.Equal(t, json.Number("1"), batch.Tasks[0]["id"])
	assert.Equal(t, json.Number("2.5"), batch.Tasks[0]["estimated_hours"])
	assert.Empty(t, batch.Strategy)
	assert.Nil(t, batch.Count)

	validated, warnings := task.Validate(batch.Tasks[0])
	assert.Empty(t, warnings)
	assert.Equal(t, "1", validated.ID)
	assert.Equal(t, []string{"2"}, validated.Dependencies)
}

func TestLoad_JSONEnvelope(t *testing.T) {
	fs := memFs(t, map[string]string{
		"batch.json": `{
			"tasks": [{"title": "a"}, {"title": "b"}],
			"strategy": "high_impact",
			"custom_weights": {"urgency": 0.5},
			"count": "5"
		}`,
	})

	batch, err := NewLoader(fs).Load("batch.json")
	require.NoError(t, err)

	assert.Len(t, batch.Tasks, 2)
	assert.Equal(t, "high_impact", batch.Strategy)
	assert.Equal(t, map[string]any{"urgency": json.Number("0.5")}, batch.CustomWeights)
	require.NotNil(t, batch.Count)
	assert.Equal(t, 5, *batch.Count)
}

func TestLoad_YAML(t *testing.T) {
	fs := memFs(t, map[string]string{
		"tasks.yml": `
- id: a
  title: Write docs
  due_date: 2025-01-15
  importance: 7
- id: b
  title: Review
  dependencies: [a]
`,
	})

	batch, err := NewLoader(fs).Load("tasks.yml")
	require.NoError(t, err)
	require.Len(t, batch.Tasks, 2)

	validated, warnings := task.Validate(batch.Tasks[0])
	assert.Empty(t, warnings)
	assert.Equal(t, "2025-01-15", validated.DueDateString())
	assert.Equal(t, 7, validated.Importance)
}

func TestLoad_TOMLEnvelope(t *testing.T) {
	fs := memFs(t, map[string]string{
		"tasks.toml": `
strategy = "deadline_driven"
count = 2

[[tasks]]
id = "a"
title = "Renew certificate"
due_date = 2025-01-12
estimated_hours = 0.5

[[tasks]]
id = "b"
title = "Rotate keys"
dependencies = ["a"]
`,
	})

	batch, err := NewLoader(fs).Load("tasks.toml")
	require.NoError(t, err)

	assert.Equal(t, "deadline_driven", batch.Strategy)
	require.NotNil(t, batch.Count)
	assert.Equal(t, 2, *batch.Count)
	require.Len(t, batch.Tasks, 2)

	due, ok := batch.Tasks[0]["due_date"].(time.Time)
	require.True(t, ok, "TOML local dates should decode to time.Time, got %T", batch.Tasks[0]["due_date"])
	assert.Equal(t, 12, due.Day())

	validated, warnings := task.Validate(batch.Tasks[1])
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"a"}, validated.Dependencies)
}

func TestLoad_Stdin(t *testing.T) {
	l := NewLoader(afero.NewMemMapFs(), WithStdin(strings.NewReader(`[{"title": "piped"}]`)))

	batch, err := l.Load(StdinPath)
	require.NoError(t, err)
	assert.Equal(t, "stdin", batch.Source)
	assert.Len(t, batch.Tasks, 1)
}

func TestLoad_ForcedFormat(t *testing.T) {
	fs := memFs(t, map[string]string{"tasks.txt": "- title: forced\n"})

	_, err := NewLoader(fs).Load("tasks.txt")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	batch, err := NewLoader(fs, WithFormat(FormatYAML)).Load("tasks.txt")
	require.NoError(t, err)
	assert.Len(t, batch.Tasks, 1)
}

func TestLoad_ShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIndex int
	}{
		{"scalar document", `"just a string"`, -1},
		{"envelope without tasks", `{"strategy": "smart_balance"}`, -1},
		{"tasks not a list", `{"tasks": {"title": "x"}}`, -1},
		{"element not a mapping", `[{"title": "ok"}, "oops"]`, 1},
		{"nested list element", `[[{"title": "x"}]]`, 0},
		{"custom weights not a mapping", `{"tasks": [], "custom_weights": [1, 2]}`, -1},
		{"strategy not a string", `{"tasks": [], "strategy": 3}`, -1},
		{"count not an integer", `{"tasks": [], "count": "many"}`, -1},
		{"malformed json", `[{"title": }]`, -1},
		{"trailing data", `[] []`, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFs(t, map[string]string{"bad.json": tt.content})

			_, err := NewLoader(fs).Load("bad.json")
			require.Error(t, err)
			assert.True(t, errors.IsInputError(err), "error %v should be an input error", err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))

			var inputErr *errors.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, "bad.json", inputErr.Source)
			assert.Equal(t, tt.wantIndex, inputErr.Index)
		})
	}
}

func TestLoad_EmptyDocuments(t *testing.T) {
	fs := memFs(t, map[string]string{
		"empty.json": `[]`,
		"null.json":  `{"tasks": null}`,
		"empty.yaml": ``,
		"empty.toml": `tasks = []`,
	})

	l := NewLoader(fs)
	for _, name := range []string{"empty.json", "null.json", "empty.yaml", "empty.toml"} {
		batch, err := l.Load(name)
		require.NoError(t, err, name)
		assert.NotNil(t, batch.Tasks, name)
		assert.Empty(t, batch.Tasks, name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("nope.json")
	require.Error(t, err)

	var inputErr *errors.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "nope.json", inputErr.Source)
}

func TestLoadAll(t *testing.T) {
	fs := memFs(t, map[string]string{
		"a.json": `[{"title": "a1"}]`,
		"b.yaml": "- title: b1\n- title: b2\n",
		"c.json": `{"tasks": [{"title": "c1"}, {"title": "c2"}, {"title": "c3"}]}`,
		"x.json": `42`,
	})
	l := NewLoader(fs, WithMaxParallel(2))

	batches, err := l.LoadAll([]string{"c.json", "a.json", "b.yaml"})
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "c.json", batches[0].Source)
	assert.Len(t, batches[0].Tasks, 3)
	assert.Equal(t, "a.json", batches[1].Source)
	assert.Len(t, batches[2].Tasks, 2)

	batches, err = l.LoadAll([]string{"a.json", "x.json"})
	assert.Nil(t, batches)
	assert.True(t, errors.IsInputError(err))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "toml": FormatTOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	_, err = FormatForPath("README")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
}
