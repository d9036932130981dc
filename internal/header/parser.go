// Package header implements the PLY header grammar of spec §4.5 (parser)
// and §4.6 (emitter): the line-oriented, whitespace-tolerant-within-a-line
// text preamble that every PLY file, in any storage mode, begins with.
//
// Grounded on pkg/pdb/msf/msf.go's Open (a read-validate-build pipeline,
// each step wrapped with fmt.Errorf("...: %w", err)) and
// pkg/pdb/streams/pdbinfo.go's ReadPDBInfo (sequential field-at-a-time
// parsing that tolerates an optional trailing section).
package header

import (
	"strconv"
	"strings"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/plyerr"
	"github.com/jtang613/goply/internal/scalar"
	"github.com/jtang613/goply/internal/schema"
)

// splitKeyword splits a header line into its first whitespace-delimited
// keyword and the (left-trimmed, otherwise verbatim) remainder, so that
// comment/obj_info text-to-eol lines keep their internal spacing while
// element/property/format lines can still be tokenized with strings.Fields.
func splitKeyword(line string) (keyword, rest string) {
	idx := strings.IndexAny(line, " \t")
	if idx == -1 {
		return line, ""
	}
	return line[:idx], strings.TrimLeft(line[idx:], " \t")
}

// Parse reads and validates the header grammar from r, returning the
// populated schema. The header's line-terminator convention (LF or CRLF)
// is fixed by the first line ("ply") and every subsequent header line must
// match it, or parsing fails with BadLineTerminator (spec §8 scenario 7).
func Parse(r *bufio.Reader) (*schema.Schema, error) {
	magic, crlf, err := r.ReadLine()
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, plyerr.New(plyerr.UnknownKeyword, "expected magic line %q, got %q", "ply", magic)
	}
	wantCRLF := crlf

	readLine := func() (string, error) {
		l, c, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		if c != wantCRLF {
			return "", plyerr.New(plyerr.BadLineTerminator, "line terminator changed mid-header")
		}
		return l, nil
	}

	formatLine, err := readLine()
	if err != nil {
		return nil, err
	}
	kw, rest := splitKeyword(formatLine)
	if kw != "format" {
		return nil, plyerr.New(plyerr.UnknownKeyword, "expected 'format' line, got keyword %q", kw)
	}
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return nil, plyerr.New(plyerr.UnknownKeyword, "malformed format line %q", formatLine)
	}
	mode, err := resolveMode(fields[0])
	if err != nil {
		return nil, err
	}
	if fields[1] != "1.0" {
		return nil, plyerr.New(plyerr.UnsupportedVersion, "unsupported format version %q", fields[1])
	}

	sc := &schema.Schema{Mode: mode}
	var current *schema.Element

	for {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		kw, rest := splitKeyword(line)
		switch kw {
		case "comment":
			sc.Comments = append(sc.Comments, rest)
		case "obj_info":
			sc.ObjInfo = append(sc.ObjInfo, rest)
		case "element":
			el, err := parseElement(rest)
			if err != nil {
				return nil, err
			}
			sc.Elements = append(sc.Elements, el)
			current = &sc.Elements[len(sc.Elements)-1]
		case "property":
			if current == nil {
				return nil, plyerr.New(plyerr.OrphanProperty, "property line before any element: %q", line)
			}
			prop, err := parseProperty(rest)
			if err != nil {
				return nil, err
			}
			if current.PropertyIndex(prop.Name) >= 0 {
				return nil, plyerr.New(plyerr.SchemaError, "duplicate property %q in element %q", prop.Name, current.Name)
			}
			current.Properties = append(current.Properties, prop)
		case "end_header":
			if rest != "" {
				return nil, plyerr.New(plyerr.UnknownKeyword, "unexpected trailer after end_header: %q", rest)
			}
			if err := validate(sc); err != nil {
				return nil, err
			}
			return sc, nil
		default:
			return nil, plyerr.New(plyerr.UnknownKeyword, "unknown header keyword %q", kw)
		}
	}
}

func resolveMode(token string) (schema.StorageMode, error) {
	switch token {
	case "ascii":
		return schema.ASCII, nil
	case "binary_little_endian":
		return schema.BinaryLittleEndian, nil
	case "binary_big_endian":
		return schema.BinaryBigEndian, nil
	case "binary":
		return schema.NativeMode(), nil
	default:
		return 0, plyerr.New(plyerr.UnknownKeyword, "unknown storage mode token %q", token)
	}
}

func parseElement(rest string) (schema.Element, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return schema.Element{}, plyerr.New(plyerr.UnknownKeyword, "malformed element line %q", rest)
	}
	name := fields[0]
	if name == "" {
		return schema.Element{}, plyerr.New(plyerr.SchemaError, "element name must not be empty")
	}
	n, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || n < 0 {
		return schema.Element{}, plyerr.Wrap(plyerr.BadInteger, err, "invalid element instance count %q", fields[1])
	}
	return schema.Element{Name: name, Count: n}, nil
}

func parseProperty(rest string) (schema.Property, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return schema.Property{}, plyerr.New(plyerr.UnknownKeyword, "malformed property line")
	}
	if fields[0] == "list" {
		if len(fields) != 4 {
			return schema.Property{}, plyerr.New(plyerr.UnknownKeyword, "malformed list property line %q", rest)
		}
		lengthKind, err := scalar.Resolve(fields[1])
		if err != nil {
			return schema.Property{}, err
		}
		valueKind, err := scalar.Resolve(fields[2])
		if err != nil {
			return schema.Property{}, err
		}
		name := fields[3]
		if name == "" {
			return schema.Property{}, plyerr.New(plyerr.SchemaError, "property name must not be empty")
		}
		return schema.Property{Name: name, Flavor: schema.List, LengthKind: lengthKind, ListValue: valueKind}, nil
	}
	if len(fields) != 2 {
		return schema.Property{}, plyerr.New(plyerr.UnknownKeyword, "malformed property line %q", rest)
	}
	valueKind, err := scalar.Resolve(fields[0])
	if err != nil {
		return schema.Property{}, err
	}
	name := fields[1]
	if name == "" {
		return schema.Property{}, plyerr.New(plyerr.SchemaError, "property name must not be empty")
	}
	return schema.Property{Name: name, Flavor: schema.Scalar, ValueKind: valueKind}, nil
}

func validate(sc *schema.Schema) error {
	seen := make(map[string]bool, len(sc.Elements))
	for _, e := range sc.Elements {
		if seen[e.Name] {
			return plyerr.New(plyerr.SchemaError, "duplicate element name %q", e.Name)
		}
		seen[e.Name] = true
		if len(e.Properties) == 0 {
			return plyerr.New(plyerr.SchemaError, "element %q declares no properties", e.Name)
		}
	}
	return nil
}
