package bufio

import (
	"io"

	"github.com/jtang613/goply/internal/plyerr"
)

// Writer is the push-side buffered window over a sink: it accumulates bytes
// and flushes to the underlying writer once full, mirroring the read side's
// fill-on-demand window.
type Writer struct {
	dst io.Writer
	buf []byte
	n   int
}

// NewWriter wraps dst in a buffered window.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst, buf: make([]byte, windowSize)}
}

// PutBytes appends b to the buffer, flushing as needed.
func (w *Writer) PutBytes(b []byte) error {
	for len(b) > 0 {
		c := copy(w.buf[w.n:], b)
		w.n += c
		b = b[c:]
		if w.n == len(w.buf) {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// PutWord writes s verbatim (the caller is responsible for any separating
// whitespace).
func (w *Writer) PutWord(s string) error {
	return w.PutBytes([]byte(s))
}

// PutEOL writes the line terminator. Per spec §4.2, the writer always emits
// a bare LF regardless of what was read.
func (w *Writer) PutEOL() error {
	return w.PutBytes([]byte{'\n'})
}

// Flush writes any buffered bytes to the sink.
func (w *Writer) Flush() error {
	if w.n == 0 {
		return nil
	}
	_, err := w.dst.Write(w.buf[:w.n])
	w.n = 0
	if err != nil {
		return plyerr.Wrap(plyerr.IOError, err, "write failed")
	}
	return nil
}
