package logging

import (
	"io"

	"go.uber.org/multierr"
)

// teeWriter writes to every writer even when some of them fail,
// so a broken log file never silences stdout.
type teeWriter struct {
	writers []io.Writer
}

func newTeeWriter(writers ...io.Writer) *teeWriter {
	return &teeWriter{writers: writers}
}

func (t *teeWriter) Write(p []byte) (int, error) {
	var errs error
	written := 0
	for _, w := range t.writers {
		n, err := w.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if n > written {
			written = n
		}
	}
	if written == 0 && errs != nil {
		return 0, errs
	}
	// one healthy sink is enough for the log entry to count as written
	return len(p), errs
}
