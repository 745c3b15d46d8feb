package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// MaxFileSize is the size at which a log file is rotated to <file>.1 on open.
const MaxFileSize = 1 << 20

// New returns a logger at the given level. When file is set, JSON is
// appended to it; otherwise human-readable output goes to stderr so that
// command output on stdout stays clean.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if file != "" {
		f, err := openAppend(file)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	return zerolog.New(writer).With().Timestamp().Logger().Level(lvl), closer, nil
}

// openAppend opens file for appending, first moving it to file.1 when it has
// grown past MaxFileSize. Only one old generation is kept.
func openAppend(file string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	if info, err := os.Stat(file); err == nil && info.Size() >= MaxFileSize {
		if err := os.Rename(file, file+".1"); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	return os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
