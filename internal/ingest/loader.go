// Package ingest reads task batches from files or standard input.
//
// A batch document is either a bare list of task mappings or an envelope
// mapping with a "tasks" list and optional "strategy", "custom_weights" and
// "count" keys. JSON, YAML and TOML are supported; TOML documents must use
// the envelope form since their root is always a table.
//
// Only the document's shape is checked here. Individual task fields are left
// exactly as decoded so the validator can repair and report them.
package ingest

import (
	"io"
	"os"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/logging"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// Loader reads batch documents through an afero filesystem.
type Loader struct {
	fs          afero.Fs
	stdin       io.Reader
	format      Format
	maxParallel int
	logger      *logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithStdin replaces the reader used for "-".
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithFormat forces a format instead of inferring it from file extensions.
func WithFormat(f Format) Option {
	return func(l *Loader) {
		l.format = f
	}
}

// WithMaxParallel bounds how many documents LoadAll decodes at once. Zero
// means one per CPU.
func WithMaxParallel(n int) Option {
	return func(l *Loader) {
		l.maxParallel = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader over fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs, opts ...Option) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := &Loader{
		fs:     fs,
		stdin:  os.Stdin,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes one document. An empty path or "-" reads standard
// input, which is JSON unless a format was forced.
func (l *Loader) Load(path string) (Batch, error) {
	if path == "" || path == StdinPath {
		format := l.format
		if format == "" {
			format = FormatJSON
		}
		batch, err := Decode(l.stdin, format, "stdin")
		l.logLoaded(batch, err)
		return batch, err
	}

	format := l.format
	if format == "" {
		f, err := FormatForPath(path)
		if err != nil {
			return Batch{}, err
		}
		format = f
	}

	file, err := l.fs.Open(path)
	if err != nil {
		return Batch{}, errors.NewInputError("opening document", err).WithSource(path)
	}
	defer file.Close()

	batch, err := Decode(file, format, path)
	l.logLoaded(batch, err)
	return batch, err
}

// LoadAll decodes several documents concurrently. Results keep the order of
// paths. If any document fails, the errors are joined and no batches are
// returned.
func (l *Loader) LoadAll(paths []string) ([]Batch, error) {
	mapper := iter.Mapper[string, Batch]{MaxGoroutines: l.maxParallel}
	batches, err := mapper.MapErr(paths, func(path *string) (Batch, error) {
		return l.Load(*path)
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}

func (l *Loader) logLoaded(batch Batch, err error) {
	if err != nil {
		l.logger.Debug("document rejected", "error", err.Error())
		return
	}
	l.logger.WithBatch(batch.Source).Debug("document loaded",
		"tasks", len(batch.Tasks),
		"envelope_strategy", batch.Strategy,
	)
}
