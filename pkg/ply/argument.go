package ply

// Signal is a read callback's return convention: Continue proceeds with the
// read pass, Abort halts it immediately (spec §4.7, §5).
type Signal int

const (
	Continue Signal = iota
	Abort
)

// Argument is the transient value presented to a registered read callback.
// Its lifetime is the single callback invocation the driver hands it for;
// the driver may reuse the backing value for the next call, so a callback
// must not retain a pointer to it (spec §5).
type Argument struct {
	ElementName   string
	ElementIndex  int
	InstanceIndex int64

	PropertyName  string
	PropertyIndex int

	// Length is 1 for a scalar property, or the list's entry count for a
	// list property (valid from the length-prefix callback onward).
	Length int64

	// ValueIndex is -1 for a list's length-prefix callback, 0 for a scalar,
	// and 0..Length-1 for each list entry.
	ValueIndex int64

	// Value is the decoded value widened to float64.
	Value float64

	UserData interface{}
	UserInt  int
}

// ReadCallback is invoked once per decoded value (spec §4.7).
type ReadCallback func(arg *Argument) Signal

type callbackKey struct {
	elementIndex  int
	propertyIndex int
}

type callbackEntry struct {
	fn       ReadCallback
	userData interface{}
	userInt  int
}
