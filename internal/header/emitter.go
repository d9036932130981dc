package header

import (
	"strconv"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/schema"
)

// Emit serializes sc's header to w: the ply/format lines, every comment,
// every object-info line, each element block, then end_header (spec §4.6).
func Emit(w *bufio.Writer, sc *schema.Schema) error {
	lines := []string{"ply", "format " + sc.Mode.String() + " 1.0"}
	for _, c := range sc.Comments {
		lines = append(lines, "comment "+c)
	}
	for _, o := range sc.ObjInfo {
		lines = append(lines, "obj_info "+o)
	}
	for _, e := range sc.Elements {
		lines = append(lines, "element "+e.Name+" "+strconv.FormatInt(e.Count, 10))
		for _, p := range e.Properties {
			lines = append(lines, propertyLine(p))
		}
	}
	lines = append(lines, "end_header")

	for _, l := range lines {
		if err := w.PutWord(l); err != nil {
			return err
		}
		if err := w.PutEOL(); err != nil {
			return err
		}
	}
	return nil
}

func propertyLine(p schema.Property) string {
	if p.Flavor == schema.List {
		return "property list " + p.LengthKind.String() + " " + p.ListValue.String() + " " + p.Name
	}
	return "property " + p.ValueKind.String() + " " + p.Name
}
