package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownFormat = errors.New("unknown log format")

// Format represents the output format for logs
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "text"
}

// ParseFormat parses a format name, case insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "console", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Config holds configuration for the logger
type Config struct {
	// Output is where logs are written. Nil means os.Stderr.
	Output io.Writer
	Level  Level
	Format Format
}

// OpenFile opens path for appending, creating it and its directory when missing.
// Successive runs of the pipeline accumulate in the same file.
func OpenFile(path string) (*os.File, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create log directory for %s", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open log file %s", path)
	}

	return file, nil
}
