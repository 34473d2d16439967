package graphfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/ops"
	"github.com/gogpu/pixflow/process"
)

const example = `
nodes:
  - id: bg
    op: checkerboard
    props: {size: 4}
  - id: blur
    op: gaussian-blur
    props: {std-dev: 2}
    inputs: {input: bg}
    cache: true
  - id: tint
    op: color
    props: {value: "#ff000080"}
  - id: mix
    op: over
    props: {mode: multiply}
    inputs: {input: blur, aux: tint}
  - id: out
    op: save
    props: {path: out.png}
    inputs: {input: mix}
`

func registry(t *testing.T) *op.Registry {
	t.Helper()
	r := op.NewRegistry()
	if err := ops.RegisterAll(r); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return r
}

func build(t *testing.T, doc, dir string) *Loaded {
	t.Helper()
	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f.Dir = dir
	l, err := f.Build(registry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}

func TestParseProps(t *testing.T) {
	f, err := Parse([]byte(`
nodes:
  - id: bg
    op: checkerboard
    props:
      size: 4
      x-offset: 2
  - id: plain
    op: invert
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.Nodes[0].Props.Kind; got != yaml.MappingNode {
		t.Errorf("props kind = %v, want mapping", got)
	}
	if got := f.Nodes[1].Props.Kind; got != 0 {
		t.Errorf("node without props has props kind %v", got)
	}

	l, err := f.Build(registry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, ok := l.Node("bg")
	if !ok {
		t.Fatal("node bg missing")
	}
	cb, ok := n.Operation().(*ops.Checkerboard)
	if !ok {
		t.Fatalf("bg is %T, want *ops.Checkerboard", n.Operation())
	}
	if cb.Size != 4 || cb.XOffset != 2 {
		t.Errorf("checkerboard size, x-offset = %d, %d, want 4, 2", cb.Size, cb.XOffset)
	}
}

func TestBuild(t *testing.T) {
	l := build(t, example, "/data")

	bg, ok := l.Node("bg")
	if !ok {
		t.Fatal("node bg not found")
	}
	cb := bg.Operation().(*ops.Checkerboard)
	if cb.Size != 4 {
		t.Errorf("checkerboard size = %d, want 4", cb.Size)
	}
	if want := ops.NewCheckerboard().Color1; cb.Color1 != want {
		t.Errorf("checkerboard color1 = %v, want default %v", cb.Color1, want)
	}

	blur, _ := l.Node("blur")
	if got := blur.Operation().(*ops.GaussianBlur).StdDev; got != 2 {
		t.Errorf("std-dev = %v, want 2", got)
	}
	if blur.Cache() == nil {
		t.Error("blur is not cached")
	}
	if bg.Cache() != nil {
		t.Error("bg is cached")
	}

	tint, _ := l.Node("tint")
	if got, want := tint.Operation().(*ops.Color).Value, (ops.RGBA{1, 0, 0, 128.0 / 255}); got != want {
		t.Errorf("tint = %v, want %v", got, want)
	}

	mix, _ := l.Node("mix")
	if got := mix.Producer(op.PadInput); got != blur {
		t.Errorf("mix input = %v, want blur", got)
	}
	if got := mix.Producer(op.PadAux); got != tint {
		t.Errorf("mix aux = %v, want tint", got)
	}

	out, _ := l.Node("out")
	if got, want := out.Operation().(*ops.Save).Path, filepath.Join("/data", "out.png"); got != want {
		t.Errorf("save path = %q, want %q", got, want)
	}
	if got := l.Outputs(); len(got) != 1 || got[0] != out {
		t.Errorf("Outputs = %v, want [out]", got)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "missing id",
			doc:  "nodes: [{op: nop}]",
			want: ErrNoID,
		},
		{
			name: "duplicate id",
			doc:  "nodes: [{id: a, op: nop}, {id: a, op: nop}]",
			want: ErrDuplicateID,
		},
		{
			name: "unknown class",
			doc:  "nodes: [{id: a, op: sharpen}]",
			want: op.ErrUnknownClass,
		},
		{
			name: "unknown input",
			doc:  "nodes: [{id: a, op: nop, inputs: {input: b}}]",
			want: ErrUnknownNode,
		},
		{
			name: "unknown pad",
			doc:  "nodes: [{id: a, op: color}, {id: b, op: nop, inputs: {aux: a}}]",
			want: graph.ErrNoSuchPad,
		},
		{
			name: "cycle",
			doc:  "nodes: [{id: a, op: nop, inputs: {input: b}}, {id: b, op: nop, inputs: {input: a}}]",
			want: graph.ErrCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = f.Build(registry(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("nodes: []\nedges: []\n")); err == nil {
		t.Error("Parse accepted an unknown top-level key")
	}

	f, err := Parse([]byte("nodes: [{id: a, op: gaussian-blur, props: {radius: 3}}]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := f.Build(registry(t)); err == nil {
		t.Error("Build accepted an unknown property")
	}
}

func TestEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	l, err := f.Build(registry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := len(l.Graph.Nodes()); n != 0 {
		t.Errorf("%d nodes, want 0", n)
	}
}

func TestRoundTrip(t *testing.T) {
	l := build(t, example, "")
	var first bytes.Buffer
	if err := Encode(&first, l.Graph); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	again := build(t, first.String(), "")
	var second bytes.Buffer
	if err := Encode(&second, again.Graph); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("second encoding differs (-first +second):\n%s", diff)
	}

	mix, ok := again.Node("mix")
	if !ok {
		t.Fatal("node mix lost")
	}
	if got := mix.Operation().(*ops.Over).Mode; got != "multiply" {
		t.Errorf("mode = %q, want multiply", got)
	}
	if blur, _ := again.Node("blur"); blur.Cache() == nil {
		t.Error("cache flag lost")
	}
	if tint, _ := again.Node("tint"); tint.Producer(op.PadInput) != nil {
		t.Error("source gained an input")
	}
}

func TestFromGraphNames(t *testing.T) {
	g := graph.New()
	a, _ := g.Add(ops.NewColor())
	b, _ := g.Add(&ops.Invert{})
	c, _ := g.Add(&ops.Invert{})
	a.SetName("src")
	c.SetName("src")
	if err := g.Link(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.Link(b, c); err != nil {
		t.Fatal(err)
	}

	f, err := FromGraph(g)
	if err != nil {
		t.Fatalf("FromGraph: %v", err)
	}
	var ids []string
	for _, n := range f.Nodes {
		ids = append(ids, n.ID)
	}
	want := []string{"src", "n2", "n3"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if got := f.Nodes[2].Inputs[op.PadInput]; got != "n2" {
		t.Errorf("input of n3 = %q, want n2", got)
	}
	if f.Nodes[1].Props.Kind != 0 {
		t.Errorf("invert has props of kind %v, want none", f.Nodes[1].Props.Kind)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	doc := `
nodes:
  - id: img
    op: load
    props: {path: in/photo.png}
  - id: crop
    op: crop
    props: {x: 0, y: 0, width: 8, height: 8}
    inputs: {input: img}
`
	path := filepath.Join(dir, "graph.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Dir != dir {
		t.Errorf("Dir = %q, want %q", f.Dir, dir)
	}
	l, err := f.Build(registry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img, _ := l.Node("img")
	if got, want := img.Operation().(*ops.Load).Path, filepath.Join(dir, "in", "photo.png"); got != want {
		t.Errorf("load path = %q, want %q", got, want)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestBuiltGraphRenders(t *testing.T) {
	doc := `
nodes:
  - id: fill
    op: color
    props: {value: [0.25, 0.5, 0.75]}
  - id: inv
    op: invert
    inputs: {input: fill}
`
	l := build(t, doc, "")
	inv, _ := l.Node("inv")
	buf, err := process.Process(inv, geom.R(0, 0, 2, 2))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	defer buf.Close()
	want := []float32{0.75, 0.5, 0.25, 1}
	if diff := cmp.Diff(want, buf.Tile().Pixel(1, 1, nil)); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}
