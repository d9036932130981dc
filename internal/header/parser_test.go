package header

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/plyerr"
	"github.com/jtang613/goply/internal/schema"
)

const triangleHeader = "ply\n" +
	"format ascii 1.0\n" +
	"comment made by goply tests\n" +
	"element vertex 3\n" +
	"property float x\n" +
	"property float y\n" +
	"property float z\n" +
	"element face 1\n" +
	"property list uchar int vertex_indices\n" +
	"end_header\n"

func TestParseMinimalTriangle(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(triangleHeader))
	sc, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sc.Mode != schema.ASCII {
		t.Fatalf("mode = %v, want ascii", sc.Mode)
	}
	if len(sc.Comments) != 1 || sc.Comments[0] != "made by goply tests" {
		t.Fatalf("comments = %v", sc.Comments)
	}
	if len(sc.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(sc.Elements))
	}
	vertex := sc.Elements[0]
	if vertex.Name != "vertex" || vertex.Count != 3 || len(vertex.Properties) != 3 {
		t.Fatalf("vertex element = %+v", vertex)
	}
	face := sc.Elements[1]
	if face.Name != "face" || face.Count != 1 || len(face.Properties) != 1 {
		t.Fatalf("face element = %+v", face)
	}
	if face.Properties[0].Flavor != schema.List {
		t.Fatalf("face property flavor = %v, want List", face.Properties[0].Flavor)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	src := "ply\nformat ascii 2.0\nend_header\n"
	_, err := Parse(bufio.NewReader(strings.NewReader(src)))
	if !plyerr.Is(err, plyerr.UnsupportedVersion) {
		t.Fatalf("err = %v, want UnsupportedVersion", err)
	}
}

func TestParseRejectsOrphanProperty(t *testing.T) {
	src := "ply\nformat ascii 1.0\nproperty float x\nend_header\n"
	_, err := Parse(bufio.NewReader(strings.NewReader(src)))
	if !plyerr.Is(err, plyerr.OrphanProperty) {
		t.Fatalf("err = %v, want OrphanProperty", err)
	}
}

func TestParseRejectsUnknownKeyword(t *testing.T) {
	src := "ply\nformat ascii 1.0\nbogus 1\nend_header\n"
	_, err := Parse(bufio.NewReader(strings.NewReader(src)))
	if !plyerr.Is(err, plyerr.UnknownKeyword) {
		t.Fatalf("err = %v, want UnknownKeyword", err)
	}
}

func TestParseCRLFPreserved(t *testing.T) {
	src := strings.ReplaceAll(triangleHeader, "\n", "\r\n")
	sc, err := Parse(bufio.NewReader(bytes.NewReader([]byte(src))))
	if err != nil {
		t.Fatalf("Parse of CRLF header failed: %v", err)
	}
	if len(sc.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(sc.Elements))
	}
}

func TestParseRejectsMixedLineTerminators(t *testing.T) {
	src := "ply\n" + "format ascii 1.0\r\n" + "end_header\n"
	_, err := Parse(bufio.NewReader(strings.NewReader(src)))
	if !plyerr.Is(err, plyerr.UnknownKeyword) {
		t.Fatalf("err = %v, want BadLineTerminator (sub-kind of UnknownKeyword)", err)
	}
	if !plyerr.Is(err, plyerr.BadLineTerminator) {
		t.Fatalf("err = %v, want BadLineTerminator specifically", err)
	}
}

func TestParseEmptyElement(t *testing.T) {
	src := "ply\nformat ascii 1.0\nelement vertex 0\nproperty float x\nend_header\n"
	sc, err := Parse(bufio.NewReader(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sc.Elements[0].Count != 0 {
		t.Fatalf("count = %d, want 0", sc.Elements[0].Count)
	}
}
