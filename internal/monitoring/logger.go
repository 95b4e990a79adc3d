package monitoring

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetupFileLog redirects the standard logger and Logf to a rotating file in
// dir. It is used when the terminal owns stdout/stderr. The returned closer
// flushes and closes the file.
func SetupFileLog(dir, name string) (io.Closer, error) {
	if dir == "" {
		var err error
		dir, err = os.UserCacheDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, "trackview")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    16, // MB
		MaxBackups: 2,
	}
	log.SetOutput(w)
	Logf = log.Printf
	return w, nil
}
