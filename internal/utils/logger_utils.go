package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"

	"chatgate/internal/types"

	"github.com/sirupsen/logrus"
)

// syncWriter wraps an io.Writer with synchronization to ensure thread-safe writes.
// This prevents log entries from being interleaved when multiple goroutines write concurrently.
type syncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.writer.Write(p)
}

// flushWriter wraps a buffered writer and flushes after each write.
// NOTE: flushWriter is not thread-safe by itself and must be wrapped by syncWriter.
type flushWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newFlushWriter(file *os.File) *flushWriter {
	return &flushWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}
}

func (fw *flushWriter) Write(p []byte) (n int, err error) {
	n, err = fw.writer.Write(p)
	if err != nil {
		return n, err
	}
	return n, fw.writer.Flush()
}

// logFile holds the open log file so CloseLogger can release it on shutdown.
var logFile *os.File

// SetupLogger configures the logging system based on the provided configuration.
func SetupLogger(configManager types.ConfigManager) {
	logConfig := configManager.GetLogConfig()

	level, err := logrus.ParseLevel(logConfig.Level)
	if err != nil {
		logrus.Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if logConfig.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if logConfig.EnableFile {
		logDir := filepath.Dir(logConfig.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			logrus.Warnf("Failed to create log directory: %v", err)
		} else {
			file, err := os.OpenFile(logConfig.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				logrus.Warnf("Failed to open log file: %v", err)
			} else {
				logFile = file
				var fileWriter io.Writer
				// Flush per write only in debug mode; direct writes otherwise.
				if level == logrus.DebugLevel || level == logrus.TraceLevel {
					fileWriter = newFlushWriter(file)
				} else {
					fileWriter = file
				}
				multiWriter := &syncWriter{
					writer: io.MultiWriter(os.Stdout, fileWriter),
				}
				logrus.SetOutput(multiWriter)
			}
		}
	}
}

// CloseLogger releases the log file, if one was opened.
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
