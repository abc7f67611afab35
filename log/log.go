// Package log writes diagnostics through logrus to one file per day under the logs directory.
// Nothing is written unless logs.write is set.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// logger is the standard logger once Setup enabled logging, discard before that.
var logger = discard

// Setup opens today's log file and applies formatter and level from config.
func Setup() error {
	logger = discard
	if !viper.GetBool(key.LogsWrite) {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.StandardLogger()
	l.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		l.SetFormatter(&logrus.TextFormatter{})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	logger = l
	return nil
}

// Enabled reports whether log output is being written.
func Enabled() bool {
	return logger != discard
}

// WithField returns an entry carrying a single structured field.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
