// File: pkg/bundle/writer.go
package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Writer appends bundle records to a single output stream. WriteRecord is
// safe for concurrent use: each record is appended whole while holding the
// writer's lock, so records never interleave.
type Writer struct {
	mu      sync.Mutex
	out     *bufio.Writer
	err     error // First append or flush error; sticky.
	flushed bool

	separator   string
	maxFileSize int64
	records     atomic.Int64
	logger      *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithMaxFileSize skips files larger than maxBytes. Zero disables the limit.
func WithMaxFileSize(maxBytes int64) WriterOption {
	return func(w *Writer) {
		w.maxFileSize = maxBytes
	}
}

// NewWriter returns a Writer that buffers records into out. The separator is
// used verbatim; see UnescapeSeparator.
func NewWriter(out io.Writer, separator string, logger *zap.Logger, opts ...WriterOption) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		out:       bufio.NewWriter(out),
		separator: separator,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UnescapeSeparator replaces each two-character `\n` sequence with a newline.
func UnescapeSeparator(sep string) string {
	return strings.ReplaceAll(sep, `\n`, "\n")
}

// WriteRecord reads file and appends its record. A file that cannot be read
// yields a *FileError and nothing is written. A file that is not valid UTF-8
// is written with an empty body. Any error from the output stream is
// returned here and from every later call.
func (w *Writer) WriteRecord(file SelectedFile) error {
	if err := w.stickyErr(); err != nil {
		return err
	}

	record, err := w.buildRecord(file)
	if err != nil {
		return err
	}
	data := record.Bytes()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.flushed {
		w.err = fmt.Errorf("write %s: bundle already flushed", file.RelativePath)
		return w.err
	}
	if _, err := w.out.Write(data); err != nil {
		w.err = fmt.Errorf("failed to append %s to bundle: %w", file.RelativePath, err)
		return w.err
	}
	w.records.Add(1)
	return nil
}

func (w *Writer) buildRecord(file SelectedFile) (Record, error) {
	if w.maxFileSize > 0 {
		info, err := os.Stat(file.AbsolutePath)
		if err != nil {
			return Record{}, &FileError{Path: file.RelativePath, Op: "stat", Err: err}
		}
		if info.Size() > w.maxFileSize {
			return Record{}, &FileError{
				Path: file.RelativePath,
				Op:   "read",
				Err:  fmt.Errorf("file size %d exceeds limit %d bytes", info.Size(), w.maxFileSize),
			}
		}
	}

	content, err := os.ReadFile(file.AbsolutePath)
	if err != nil {
		return Record{}, &FileError{Path: file.RelativePath, Op: "read", Err: err}
	}

	body := string(content)
	if !utf8.Valid(content) {
		w.logger.Warn("File is not valid UTF-8, writing empty content",
			zap.String("file", file.RelativePath),
			zap.Int("sizeBytes", len(content)))
		body = ""
	}

	return Record{
		Separator:    w.separator,
		RelativePath: file.RelativePath,
		Content:      body,
	}, nil
}

func (w *Writer) stickyErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Flush writes buffered records to the underlying stream. Only the first
// call flushes; later calls return the same result.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.flushed || w.err != nil {
		return w.err
	}
	w.flushed = true
	if err := w.out.Flush(); err != nil {
		w.err = fmt.Errorf("failed to flush bundle: %w", err)
	}
	return w.err
}

// Records returns the number of records appended so far.
func (w *Writer) Records() int64 {
	return w.records.Load()
}
