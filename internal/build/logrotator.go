package build

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

const (
	// defaultMaxLogFiles is how many rotated log files to keep on disk
	// before the oldest is dropped.
	defaultMaxLogFiles = 10

	// defaultMaxLogFileSize is the size in MB at which the active log
	// file is rotated.
	defaultMaxLogFileSize = 20

	// defaultLogFilename is the name of the daemon's active log file.
	defaultLogFilename = "vidlensd.log"
)

// rotatingLogWriter exposes a jrick/logrotate rotator as an io.Writer.
// Rotated files are gzip compressed.
type rotatingLogWriter struct {
	// pipe is the write end of the pipe feeding the rotator goroutine.
	pipe *io.PipeWriter

	// rot rotates the underlying file once it crosses the size limit.
	rot *rotator.Rotator
}

// newRotatingLogWriter starts a rotator writing under logDir. The directory
// is created if it does not exist yet.
func newRotatingLogWriter(logDir string) (*rotatingLogWriter, error) {
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	// The rotator takes its threshold in KB.
	rot, err := rotator.New(
		filepath.Join(logDir, defaultLogFilename),
		int64(defaultMaxLogFileSize*1024),
		false,
		defaultMaxLogFiles,
	)
	if err != nil {
		return nil, fmt.Errorf("creating file rotator: %w", err)
	}
	rot.SetCompressor(gzip.NewWriter(nil), ".gz")

	// The rotator is itself the log destination, so its own failures can
	// only go to stderr.
	pr, pw := io.Pipe()
	go func() {
		if err := rot.Run(pr); err != nil {
			fmt.Fprintf(
				os.Stderr, "log rotator stopped: %v\n", err,
			)
		}
	}()

	return &rotatingLogWriter{pipe: pw, rot: rot}, nil
}

// Write feeds the byte slice to the rotator goroutine.
func (r *rotatingLogWriter) Write(b []byte) (int, error) {
	return r.pipe.Write(b)
}

// Close flushes the rotator and stops its goroutine.
func (r *rotatingLogWriter) Close() error {
	return r.pipe.Close()
}
