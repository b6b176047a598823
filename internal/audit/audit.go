package audit

import (
	"io"
	"log"
	"os"
	"path/filepath"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes the engine's audit trail: one line per decision that
// touched or spared something. The file rotates at 10 MB with three
// compressed backups kept for 30 days. Debug mode mirrors every line
// to stderr and enables Debugf output.
type Logger struct {
	l      *log.Logger
	debug  bool
	prefix string
	closer io.Closer
}

// New opens the audit log at path, creating parent directories.
func New(path string, debug bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	var w io.Writer = rotator
	if debug {
		w = io.MultiWriter(rotator, os.Stderr)
	}
	return &Logger{
		l:      log.New(w, "", log.LstdFlags),
		debug:  debug,
		closer: rotator,
	}, nil
}

// Nop returns a logger that discards everything. Tests use it.
func Nop() *Logger {
	return &Logger{l: log.New(io.Discard, "", 0)}
}

// WithRun returns a logger whose lines carry the run id.
func (a *Logger) WithRun(id string) *Logger {
	clone := *a
	clone.prefix = "run=" + id + " "
	return &clone
}

// Debugf logs only in debug mode.
func (a *Logger) Debugf(format string, args ...any) {
	if a.debug {
		a.l.Printf("DEBUG "+a.prefix+format, args...)
	}
}

func (a *Logger) Infof(format string, args ...any) {
	a.l.Printf("INFO "+a.prefix+format, args...)
}

func (a *Logger) Warnf(format string, args ...any) {
	a.l.Printf("WARN "+a.prefix+format, args...)
}

func (a *Logger) Errorf(format string, args ...any) {
	a.l.Printf("ERROR "+a.prefix+format, args...)
}

// Close closes the underlying log file.
func (a *Logger) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
