package kvengine

import (
	"bufio"
	"io"
	"os"
)

// PositionedReader wraps a buffered reader over an *os.File and tracks
// the current byte offset so callers can compute record lengths without
// a second syscall. Sequential reads (Read) go through the buffered
// layer; ReadAt reads the file directly at an offset and bypasses it.
type PositionedReader struct {
	file *os.File
	br   *bufio.Reader
	pos  int64
}

// NewPositionedReader opens path for reading and positions pos at the
// file's current offset (0, for a freshly opened file).
func NewPositionedReader(path string) (*PositionedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &PositionedReader{file: f, br: bufio.NewReader(f)}, nil
}

// Pos returns the current logical read offset.
func (r *PositionedReader) Pos() int64 { return r.pos }

// Read implements io.Reader, advancing pos by the number of bytes
// successfully transferred.
func (r *PositionedReader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.pos += int64(n)
	return n, err
}

// SeekTo repositions the reader at offset from the start of the file,
// discarding any buffered data, and sets pos to the seek result.
func (r *PositionedReader) SeekTo(offset int64) error {
	newPos, err := r.file.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	r.pos = newPos
	r.br.Reset(r.file)
	return nil
}

// ReadAt reads exactly len(p) bytes starting at offset without
// disturbing the reader's current position, for random-access lookups
// served from the key index.
func (r *PositionedReader) ReadAt(p []byte, offset int64) (int, error) {
	return io.ReadFull(io.NewSectionReader(r.file, offset, int64(len(p))), p)
}

// Close closes the underlying file.
func (r *PositionedReader) Close() error {
	return r.file.Close()
}

// PositionedWriter wraps a buffered writer over an *os.File opened for
// append, tracking the current byte offset so the engine can record
// where a just-written command started and ended.
type PositionedWriter struct {
	file *os.File
	bw   *bufio.Writer
	pos  int64
}

// NewPositionedWriter opens path for appending, creating it if absent,
// and initializes pos from the file's current size.
func NewPositionedWriter(path string) (*PositionedWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &PositionedWriter{file: f, bw: bufio.NewWriter(f), pos: info.Size()}, nil
}

// Pos returns the current logical write offset (including buffered,
// not-yet-flushed bytes).
func (w *PositionedWriter) Pos() int64 { return w.pos }

// Write implements io.Writer, advancing pos by the number of bytes
// accepted into the buffer.
func (w *PositionedWriter) Write(p []byte) (int, error) {
	n, err := w.bw.Write(p)
	w.pos += int64(n)
	return n, err
}

// Flush pushes buffered bytes to the underlying file.
func (w *PositionedWriter) Flush() error {
	return w.bw.Flush()
}

// Close flushes and closes the underlying file.
func (w *PositionedWriter) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
