package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared application logger. It writes JSON-formatted entries
// to stderr until Init is called with a rotating file target.
var Logger = logrus.New()

var once sync.Once

func init() {
	Logger.SetFormatter(&logrus.JSONFormatter{})
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
}

// Init points the logger at a rotating log file in addition to stderr.
// Safe to call more than once; only the first call takes effect.
func Init(logFile string) {
	once.Do(func() {
		if logFile == "" {
			return
		}
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				Logger.WithError(err).Warn("failed to create log directory, keeping stderr only")
				return
			}
		}
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger.SetOutput(io.MultiWriter(os.Stderr, rotated))
		Logger.WithField("file", logFile).Info("logger initialized")
	})
}
