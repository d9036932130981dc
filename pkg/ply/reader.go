package ply

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/codec"
	"github.com/jtang613/goply/internal/header"
	"github.com/jtang613/goply/internal/plyerr"
	"github.com/jtang613/goply/internal/schema"
)

type readerState int

const (
	readerOpened readerState = iota
	readerHeaderParsed
	readerDriven
	readerClosed
	readerPoisoned
)

// Reader is a PLY read handle: bind a source, parse the header, register
// per-property callbacks, then drive the read pass exactly once (spec §4.9).
//
// Grounded on pkg/pdb/pdb.go's PDB: a single façade owning the lower-level
// parser state and exposing Open/Close plus flat accessors.
type Reader struct {
	buf       *bufio.Reader
	closer    io.Closer
	schema    *schema.Schema
	callbacks map[callbackKey]callbackEntry
	state     readerState
	errHook   ErrorHook
}

func defaultErrorHook(msg string) {
	// Matches the teacher's own stderr-reporting texture
	// (cmd/pdbdump/main.go's fmt.Fprintf(os.Stderr, ...)).
	os.Stderr.WriteString(msg + "\n")
}

func newReader(src io.Reader, closer io.Closer, hook ErrorHook) *Reader {
	if hook == nil {
		hook = defaultErrorHook
	}
	return &Reader{
		buf:       bufio.NewReader(src),
		closer:    closer,
		callbacks: make(map[callbackKey]callbackEntry),
		errHook:   hook,
	}
}

// Open binds a Reader to the named file path.
func Open(path string, hook ErrorHook) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		e := plyerr.Wrap(plyerr.IOError, err, "opening %q for reading", path)
		reportError(hook, e)
		return nil, e
	}
	return newReader(f, f, hook), nil
}

// OpenReader binds a Reader to an arbitrary stream. If src implements
// io.Closer, Reader.Close closes it.
func OpenReader(src io.Reader, hook ErrorHook) *Reader {
	var closer io.Closer
	if c, ok := src.(io.Closer); ok {
		closer = c
	}
	return newReader(src, closer, hook)
}

// OpenMemory binds a Reader to an in-memory buffer borrowed for the
// handle's lifetime.
func OpenMemory(buf []byte, hook ErrorHook) *Reader {
	return newReader(bytes.NewReader(buf), nil, hook)
}

func reportError(hook ErrorHook, err error) {
	if hook == nil {
		hook = defaultErrorHook
	}
	hook(err.Error())
}

func (r *Reader) fail(err error) error {
	r.state = readerPoisoned
	reportError(r.errHook, err)
	return err
}

// ParseHeader reads and validates the header grammar, populating the
// schema, and transitions the handle into the "awaiting callbacks" state.
func (r *Reader) ParseHeader() error {
	if r.state != readerOpened {
		return r.fail(plyerr.New(plyerr.InvalidState, "ParseHeader called out of order"))
	}
	sc, err := header.Parse(r.buf)
	if err != nil {
		return r.fail(err)
	}
	r.schema = sc
	r.state = readerHeaderParsed
	return nil
}

// Schema returns the parsed schema. Valid once ParseHeader has succeeded.
func (r *Reader) Schema() *schema.Schema { return r.schema }

// Elements returns the ordered element declarations.
func (r *Reader) Elements() []Element {
	if r.schema == nil {
		return nil
	}
	return r.schema.Elements
}

// Properties returns the ordered properties of the named element, or nil if
// no such element exists.
func (r *Reader) Properties(elementName string) []Property {
	if r.schema == nil {
		return nil
	}
	idx := r.schema.ElementIndex(elementName)
	if idx < 0 {
		return nil
	}
	return r.schema.Elements[idx].Properties
}

// Comments returns the header's comment lines in declaration order.
func (r *Reader) Comments() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.Comments
}

// ObjInfo returns the header's obj_info lines in declaration order.
func (r *Reader) ObjInfo() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.ObjInfo
}

// SetReadCallback registers cb for every value of the named (element,
// property) pair. It returns the element's declared instance count, or 0 if
// the pair does not exist in the schema (spec §4.9, §8). Re-registering the
// same pair replaces the previous registration (spec §9).
func (r *Reader) SetReadCallback(elementName, propertyName string, cb ReadCallback, userData interface{}, userInt int) (int64, error) {
	if r.state != readerHeaderParsed {
		return 0, r.fail(plyerr.New(plyerr.InvalidState, "SetReadCallback called before header parsed or after read"))
	}
	ei := r.schema.ElementIndex(elementName)
	if ei < 0 {
		return 0, nil
	}
	el := &r.schema.Elements[ei]
	pi := el.PropertyIndex(propertyName)
	if pi < 0 {
		return 0, nil
	}
	r.callbacks[callbackKey{ei, pi}] = callbackEntry{fn: cb, userData: userData, userInt: userInt}
	return el.Count, nil
}

// Read drives the read pass exactly once: every element instance, every
// property, in declared order, dispatching decoded values to registered
// callbacks (spec §4.7).
func (r *Reader) Read() error {
	if r.state != readerHeaderParsed {
		return r.fail(plyerr.New(plyerr.InvalidState, "Read called before header parsed or more than once"))
	}
	for ei := range r.schema.Elements {
		el := &r.schema.Elements[ei]
		for inst := int64(0); inst < el.Count; inst++ {
			for pi := range el.Properties {
				prop := &el.Properties[pi]
				aborted, err := r.readProperty(ei, el, inst, pi, prop)
				if err != nil {
					return r.fail(err)
				}
				if aborted {
					r.state = readerDriven
					return r.fail(plyerr.New(plyerr.Aborted, "read callback requested abort"))
				}
			}
		}
	}
	r.state = readerDriven
	return nil
}

func (r *Reader) readProperty(ei int, el *schema.Element, inst int64, pi int, prop *schema.Property) (aborted bool, err error) {
	entry, hasCB := r.callbacks[callbackKey{ei, pi}]

	dispatch := func(length, valueIndex int64, value float64) bool {
		if !hasCB {
			return false
		}
		arg := Argument{
			ElementName:   el.Name,
			ElementIndex:  ei,
			InstanceIndex: inst,
			PropertyName:  prop.Name,
			PropertyIndex: pi,
			Length:        length,
			ValueIndex:    valueIndex,
			Value:         value,
			UserData:      entry.userData,
			UserInt:       entry.userInt,
		}
		return entry.fn(&arg) == Abort
	}

	if prop.Flavor == schema.Scalar {
		v, err := codec.Decode(r.buf, r.schema.Mode, prop.ValueKind)
		if err != nil {
			return false, err
		}
		return dispatch(1, 0, v), nil
	}

	lengthVal, err := codec.Decode(r.buf, r.schema.Mode, prop.LengthKind)
	if err != nil {
		return false, err
	}
	if lengthVal < 0 {
		return false, plyerr.New(plyerr.BadInteger, "negative list length %v for property %q", lengthVal, prop.Name)
	}
	L := int64(math.Round(lengthVal))
	if dispatch(L, -1, lengthVal) {
		return true, nil
	}
	for i := int64(0); i < L; i++ {
		v, err := codec.Decode(r.buf, r.schema.Mode, prop.ListValue)
		if err != nil {
			return false, err
		}
		if dispatch(L, i, v) {
			return true, nil
		}
	}
	return false, nil
}

// Close releases the handle's resources. Safe to call once; an attempt to
// use the handle afterward fails with InvalidState.
func (r *Reader) Close() error {
	if r.state == readerClosed {
		return r.fail(plyerr.New(plyerr.InvalidState, "Close called on an already-closed handle"))
	}
	r.state = readerClosed
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			e := plyerr.Wrap(plyerr.IOError, err, "closing source")
			reportError(r.errHook, e)
			return e
		}
	}
	return nil
}
