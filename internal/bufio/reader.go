// Package bufio implements the buffered byte I/O layer of spec §4.2: a
// pull-interface window for reading and a push-interface window for
// writing, shared by text and binary storage modes alike.
//
// The shape follows pkg/pdb/msf/stream.go's StreamReader: a fixed-size
// window refilled from an underlying source on demand, with explicit
// position bookkeeping instead of relying on the stdlib bufio.Reader's
// opaque cursor (we need byte-level peek/skip/word semantics the stdlib
// type doesn't expose directly).
package bufio

import (
	"io"

	"github.com/jtang613/goply/internal/plyerr"
)

// windowSize is the size of the read-ahead buffer. Implementation choice,
// per spec §4.2 ("4-64 KiB").
const windowSize = 32 * 1024

// Reader is the pull-side buffered window over a source.
type Reader struct {
	src      io.Reader
	buf      []byte
	pos, end int
}

// NewReader wraps src in a buffered window.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, buf: make([]byte, windowSize)}
}

func (r *Reader) fill() error {
	if r.pos < r.end {
		return nil
	}
	r.pos, r.end = 0, 0
	n, err := r.src.Read(r.buf)
	r.end = n
	if n > 0 {
		return nil
	}
	if err == io.EOF {
		return plyerr.New(plyerr.EOF, "unexpected end of file")
	}
	if err != nil {
		return plyerr.Wrap(plyerr.IOError, err, "read failed")
	}
	return plyerr.New(plyerr.EOF, "unexpected end of file")
}

// PeekByte returns the next byte without consuming it.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	return r.buf[r.pos], nil
}

// GetByte returns and consumes the next byte.
func (r *Reader) GetByte() (byte, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// GetBytes returns exactly n consumed bytes, spanning refills as needed.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	got := 0
	for got < n {
		if err := r.fill(); err != nil {
			return nil, err
		}
		c := copy(out[got:], r.buf[r.pos:r.end])
		r.pos += c
		got += c
	}
	return out, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// SkipWhitespace consumes a (possibly empty) run of spaces, tabs, and line
// terminators.
func (r *Reader) SkipWhitespace() error {
	for {
		b, err := r.PeekByte()
		if err != nil {
			if plyerr.Is(err, plyerr.EOF) {
				return nil
			}
			return err
		}
		if !isSpace(b) {
			return nil
		}
		if _, err := r.GetByte(); err != nil {
			return err
		}
	}
}

// ReadWord returns the next maximal run of non-whitespace bytes, skipping
// any leading whitespace first.
func (r *Reader) ReadWord() (string, error) {
	if err := r.SkipWhitespace(); err != nil {
		return "", err
	}
	var out []byte
	for {
		b, err := r.PeekByte()
		if err != nil {
			if plyerr.Is(err, plyerr.EOF) {
				break
			}
			return "", err
		}
		if isSpace(b) {
			break
		}
		out = append(out, b)
		if _, err := r.GetByte(); err != nil {
			return "", err
		}
	}
	if len(out) == 0 {
		return "", plyerr.New(plyerr.EOF, "expected a word, found end of file")
	}
	return string(out), nil
}

// ReadLine returns the remainder of the current line, excluding the
// terminator, and reports whether the terminator was CRLF.
func (r *Reader) ReadLine() (line string, crlf bool, err error) {
	var out []byte
	for {
		b, e := r.GetByte()
		if e != nil {
			if plyerr.Is(e, plyerr.EOF) && len(out) > 0 {
				return string(out), false, nil
			}
			return "", false, e
		}
		if b == '\n' {
			if n := len(out); n > 0 && out[n-1] == '\r' {
				return string(out[:n-1]), true, nil
			}
			return string(out), false, nil
		}
		out = append(out, b)
	}
}
