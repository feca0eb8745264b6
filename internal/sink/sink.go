// Package sink provides the append-only destinations an assembled document
// is written to: a file on disk, or a buffer flushed once to a writer.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sink receives units of markdown in order.
type Sink interface {
	// Size returns the number of bytes already present before this
	// invocation appended anything.
	Size() (int64, error)
	Append(unit string) error
	// Flush completes any deferred write. Safe to call more than once.
	Flush() error
}

// fileSink appends to a file, opening and closing it for every write.
type fileSink struct {
	path string
}

// NewFile returns a Sink appending to path, creating it on first write.
func NewFile(path string) Sink {
	return &fileSink{path: path}
}

// Size returns the file's current length, or 0 if it does not exist.
func (f *fileSink) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("output path %s is a directory", f.path)
	}
	return info.Size(), nil
}

// Append opens the file in append mode, writes unit, and closes it again.
func (f *fileSink) Append(unit string) (err error) {
	fh, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	if _, err = io.WriteString(fh, unit); err != nil {
		return fmt.Errorf("failed to append to output file: %w", err)
	}
	return nil
}

func (f *fileSink) Flush() error { return nil }

// bufferSink accumulates everything and writes it to w in one call.
type bufferSink struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewBuffered returns a Sink that holds all units until Flush.
func NewBuffered(w io.Writer) Sink {
	return &bufferSink{w: w}
}

func (b *bufferSink) Size() (int64, error) { return 0, nil }

func (b *bufferSink) Append(unit string) error {
	b.buf.WriteString(unit)
	return nil
}

func (b *bufferSink) Flush() error {
	if b.buf.Len() == 0 {
		return nil
	}
	_, err := b.w.Write(b.buf.Bytes())
	b.buf.Reset()
	return err
}
