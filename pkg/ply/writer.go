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
	"github.com/jtang613/goply/internal/scalar"
	"github.com/jtang613/goply/internal/schema"
)

type writerState int

const (
	writerBuilding writerState = iota
	writerHeaderEmitted
	writerClosed
	writerPoisoned
)

type writeCursor struct {
	elementIndex     int
	instanceIndex    int64
	propertyIndex    int
	inEntries        bool
	entriesRemaining int64
}

// Writer is a PLY write handle: build the schema, emit the header, then
// feed values in declaration order (spec §4.9).
//
// Grounded on pkg/pdb/pdb.go's composition style, generalized to a cursor
// that walks the schema the way the read driver does, in reverse role.
type Writer struct {
	buf       *bufio.Writer
	closer    io.Closer
	schema    *schema.Schema
	state     writerState
	cursor    writeCursor
	needSpace bool
	errHook   ErrorHook
	memBuf    *bytes.Buffer // set only for CreateMemory
	finalSize int
}

func newWriter(dst io.Writer, closer io.Closer, mode StorageMode, hook ErrorHook) *Writer {
	if hook == nil {
		hook = defaultErrorHook
	}
	return &Writer{
		buf:     bufio.NewWriter(dst),
		closer:  closer,
		schema:  &schema.Schema{Mode: mode},
		errHook: hook,
	}
}

// Create binds a Writer to the named file path, truncating any existing
// contents. mode selects the storage mode; pass Default() to resolve the
// host's native endianness (spec §6).
func Create(path string, mode StorageMode, hook ErrorHook) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		e := plyerr.Wrap(plyerr.IOError, err, "creating %q for writing", path)
		reportError(hook, e)
		return nil, e
	}
	return newWriter(f, f, mode, hook), nil
}

// CreateWriter binds a Writer to an arbitrary sink. If dst implements
// io.Closer, Writer.Close closes it.
func CreateWriter(dst io.Writer, mode StorageMode, hook ErrorHook) *Writer {
	var closer io.Closer
	if c, ok := dst.(io.Closer); ok {
		closer = c
	}
	return newWriter(dst, closer, mode, hook)
}

// CreateMemory binds a Writer to an in-memory sink with the given initial
// capacity. The final written size is available from Writer.Size after
// Close (spec §5's size-out parameter).
func CreateMemory(capacity int, mode StorageMode, hook ErrorHook) *Writer {
	b := bytes.NewBuffer(make([]byte, 0, capacity))
	w := newWriter(b, nil, mode, hook)
	w.memBuf = b
	return w
}

// Bytes returns the bytes written so far to an in-memory sink. Valid only
// for handles created with CreateMemory.
func (w *Writer) Bytes() []byte {
	if w.memBuf == nil {
		return nil
	}
	return w.memBuf.Bytes()
}

// Size returns the final written size. Valid once Close has returned for a
// handle created with CreateMemory.
func (w *Writer) Size() int { return w.finalSize }

func (w *Writer) fail(err error) error {
	w.state = writerPoisoned
	reportError(w.errHook, err)
	return err
}

// AddElement declares an element with the given name and instance count.
func (w *Writer) AddElement(name string, count int64) error {
	if w.state != writerBuilding {
		return w.fail(plyerr.New(plyerr.SchemaLocked, "AddElement called after header was emitted"))
	}
	if name == "" {
		return w.fail(plyerr.New(plyerr.SchemaError, "element name must not be empty"))
	}
	if count < 0 {
		return w.fail(plyerr.New(plyerr.SchemaError, "element instance count must not be negative"))
	}
	if w.schema.ElementIndex(name) >= 0 {
		return w.fail(plyerr.New(plyerr.SchemaError, "duplicate element name %q", name))
	}
	w.schema.Elements = append(w.schema.Elements, schema.Element{Name: name, Count: count})
	return nil
}

// AddProperty adds a property to the most recently added element. kind is a
// scalar type spelling, or "list" for a list property, in which case
// lengthKind and valueKind name the count-prefix and entry kinds; both are
// ignored for a scalar property (spec §6's addProperty(handle, name, type,
// lengthType, valueType)).
func (w *Writer) AddProperty(name, kind, lengthKind, valueKind string) error {
	if w.state != writerBuilding {
		return w.fail(plyerr.New(plyerr.SchemaLocked, "AddProperty called after header was emitted"))
	}
	if len(w.schema.Elements) == 0 {
		return w.fail(plyerr.New(plyerr.SchemaError, "AddProperty called before any AddElement"))
	}
	if name == "" {
		return w.fail(plyerr.New(plyerr.SchemaError, "property name must not be empty"))
	}
	el := &w.schema.Elements[len(w.schema.Elements)-1]
	if el.PropertyIndex(name) >= 0 {
		return w.fail(plyerr.New(plyerr.SchemaError, "duplicate property %q in element %q", name, el.Name))
	}

	var prop schema.Property
	if kind == "list" {
		lk, err := scalar.Resolve(lengthKind)
		if err != nil {
			return w.fail(err)
		}
		vk, err := scalar.Resolve(valueKind)
		if err != nil {
			return w.fail(err)
		}
		prop = schema.Property{Name: name, Flavor: schema.List, LengthKind: lk, ListValue: vk}
	} else {
		vk, err := scalar.Resolve(kind)
		if err != nil {
			return w.fail(err)
		}
		prop = schema.Property{Name: name, Flavor: schema.Scalar, ValueKind: vk}
	}
	el.Properties = append(el.Properties, prop)
	return nil
}

// AddComment appends a free-form comment line.
func (w *Writer) AddComment(text string) error {
	if w.state != writerBuilding {
		return w.fail(plyerr.New(plyerr.SchemaLocked, "AddComment called after header was emitted"))
	}
	w.schema.Comments = append(w.schema.Comments, text)
	return nil
}

// AddObjInfo appends a free-form object-info line.
func (w *Writer) AddObjInfo(text string) error {
	if w.state != writerBuilding {
		return w.fail(plyerr.New(plyerr.SchemaLocked, "AddObjInfo called after header was emitted"))
	}
	w.schema.ObjInfo = append(w.schema.ObjInfo, text)
	return nil
}

// WriteHeader serializes the schema and transitions the handle from schema
// building to accepting values (spec §4.6).
func (w *Writer) WriteHeader() error {
	if w.state != writerBuilding {
		return w.fail(plyerr.New(plyerr.SchemaLocked, "WriteHeader called more than once"))
	}
	for _, el := range w.schema.Elements {
		if len(el.Properties) == 0 {
			return w.fail(plyerr.New(plyerr.SchemaError, "element %q declares no properties", el.Name))
		}
	}
	if err := header.Emit(w.buf, w.schema); err != nil {
		return w.fail(err)
	}
	w.state = writerHeaderEmitted
	w.skipEmptyElements()
	return nil
}

func (w *Writer) currentElement() *schema.Element {
	return &w.schema.Elements[w.cursor.elementIndex]
}

// skipEmptyElements advances the cursor past any element declaring zero
// instances, so Write never dispatches a value to an element the header
// says has no instances to hold it.
func (w *Writer) skipEmptyElements() {
	for w.cursor.elementIndex < len(w.schema.Elements) && w.schema.Elements[w.cursor.elementIndex].Count == 0 {
		w.cursor.elementIndex++
	}
}

func (w *Writer) atEnd() bool {
	return w.cursor.elementIndex >= len(w.schema.Elements)
}

func (w *Writer) emitSeparator() error {
	if w.schema.Mode != schema.ASCII || !w.needSpace {
		return nil
	}
	return w.buf.PutWord(" ")
}

// Write encodes the next value in declaration order, using the cursor to
// determine which property (and, for lists, the length slot or which entry)
// it represents (spec §4.8).
func (w *Writer) Write(value float64) error {
	if w.state != writerHeaderEmitted {
		return w.fail(plyerr.New(plyerr.InvalidState, "Write called before header was emitted"))
	}
	if w.atEnd() {
		return w.fail(plyerr.New(plyerr.TooManyValues, "more values written than the schema declares"))
	}
	el := w.currentElement()
	prop := &el.Properties[w.cursor.propertyIndex]

	if prop.Flavor == schema.Scalar {
		if err := w.emitSeparator(); err != nil {
			return w.fail(err)
		}
		if err := codec.Encode(w.buf, w.schema.Mode, prop.ValueKind, value); err != nil {
			return w.fail(err)
		}
		w.needSpace = true
		w.advanceProperty(el)
		return nil
	}

	if !w.cursor.inEntries {
		L := roundNonNegative(prop.LengthKind, value)
		if err := w.emitSeparator(); err != nil {
			return w.fail(err)
		}
		if err := codec.Encode(w.buf, w.schema.Mode, prop.LengthKind, float64(L)); err != nil {
			return w.fail(err)
		}
		w.needSpace = true
		if L == 0 {
			w.advanceProperty(el)
			return nil
		}
		w.cursor.inEntries = true
		w.cursor.entriesRemaining = L
		return nil
	}

	if err := w.emitSeparator(); err != nil {
		return w.fail(err)
	}
	if err := codec.Encode(w.buf, w.schema.Mode, prop.ListValue, value); err != nil {
		return w.fail(err)
	}
	w.needSpace = true
	w.cursor.entriesRemaining--
	if w.cursor.entriesRemaining == 0 {
		w.cursor.inEntries = false
		w.advanceProperty(el)
	}
	return nil
}

func roundNonNegative(k scalar.Kind, v float64) int64 {
	r := math.Round(v)
	if r < 0 {
		r = 0
	}
	return scalar.ClampToInt(k, r)
}

func (w *Writer) advanceProperty(el *schema.Element) {
	w.cursor.propertyIndex++
	if w.cursor.propertyIndex < len(el.Properties) {
		return
	}
	w.cursor.propertyIndex = 0
	if w.schema.Mode == schema.ASCII {
		w.buf.PutEOL()
	}
	w.needSpace = false
	w.cursor.instanceIndex++
	if w.cursor.instanceIndex >= el.Count {
		w.cursor.instanceIndex = 0
		w.cursor.elementIndex++
		w.skipEmptyElements()
	}
}

// Close flushes buffered output and releases resources. Closing with fewer
// values written than the schema declares fails with Underrun; the sink is
// still flushed and released either way (spec §5, §4.8).
func (w *Writer) Close() error {
	if w.state == writerClosed {
		return w.fail(plyerr.New(plyerr.InvalidState, "Close called on an already-closed handle"))
	}
	var underrun error
	if w.state == writerHeaderEmitted && !w.atEnd() {
		underrun = plyerr.New(plyerr.Underrun, "Close called with fewer values written than the schema declares")
	}
	w.state = writerClosed

	flushErr := w.buf.Flush()
	if w.memBuf != nil {
		w.finalSize = w.memBuf.Len()
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && flushErr == nil {
			flushErr = plyerr.Wrap(plyerr.IOError, err, "closing sink")
		}
	}

	if flushErr != nil {
		reportError(w.errHook, flushErr)
		return flushErr
	}
	if underrun != nil {
		reportError(w.errHook, underrun)
		return underrun
	}
	return nil
}
