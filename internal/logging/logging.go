// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where logs go. An empty Dir disables the log file;
// with neither a file nor Console, logs go to stderr.
type Options struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	Console    bool
}

// Setup configures logrus for appName and returns the rotating file
// writer, if any, so the caller can close it on shutdown.
func Setup(opts Options, appName string) (io.Closer, error) {
	if appName == "" {
		return nil, fmt.Errorf("appName cannot be empty")
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	var (
		writers []io.Writer
		file    *lumberjack.Logger
	)
	switch {
	case opts.Console:
		writers = append(writers, os.Stdout)
	case opts.Dir == "":
		writers = append(writers, os.Stderr)
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory %q: %w", opts.Dir, err)
		}
		file = &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, appName+".log"),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		if file.MaxSize <= 0 {
			file.MaxSize = 10
		}
		if file.MaxBackups <= 0 {
			file.MaxBackups = 5
		}
		writers = append(writers, file)
	}
	logrus.SetOutput(io.MultiWriter(writers...))

	if err != nil {
		logrus.Warnf("invalid log level %q, using info", opts.Level)
	}
	logrus.WithFields(logrus.Fields{
		"level":   logrus.GetLevel().String(),
		"dir":     opts.Dir,
		"console": opts.Console,
	}).Infof("started %s", appName)

	if file == nil {
		return nopCloser{}, nil
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
