package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graf/pkg/feature"
	"github.com/matzehuels/graf/pkg/graph"
)

const canonical = `<?xml version="1.0" encoding="UTF-8"?>
<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <tagsDecl>
            <tagUsage gi="dep" occurs="1"/>
            <tagUsage gi="tok" occurs="1"/>
        </tagsDecl>
        <annotationSpaces>
            <annotationSpace as.id="xces" as.type="penn"/>
        </annotationSpaces>
        <roots>
            <root>n1</root>
        </roots>
    </header>
    <region xml:id="r1" anchors="0 3"/>
    <node xml:id="n1"/>
    <node xml:id="n2">
        <link targets="r1"/>
    </node>
    <a label="tok" ref="n2" xml:id="a1" as="xces">
        <fs type="tok">
            <f name="msd" value="NN"/>
            <f name="morph">
                <fs>
                    <f name="number" value="sg"/>
                </fs>
            </f>
        </fs>
    </a>
    <edge xml:id="e1" from="n1" to="n2"/>
    <a label="dep" ref="e1" xml:id="a2"/>
</graph>
`

func buildCanonical(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	n1, n2 := graph.NewNode("n1"), graph.NewNode("n2")
	g.AddNode(n2)
	g.AddNode(n1)

	r, err := graph.NewRegion("r1", graph.Offset(0), graph.Offset(3))
	if err != nil {
		t.Fatal(err)
	}
	g.AddRegion(r)
	n2.AddRegion(r)

	e, err := g.CreateEdge("n1", "n2", "e1")
	if err != nil {
		t.Fatal(err)
	}
	space, err := g.CreateSpace("xces", "penn")
	if err != nil {
		t.Fatal(err)
	}

	fs := feature.New("tok")
	fs.Put("msd", feature.Atom("NN"))
	if err := fs.Set("morph/number", feature.Atom("sg")); err != nil {
		t.Fatal(err)
	}
	tok := graph.NewAnnotation("a1", "tok", fs)
	n2.AddAnnotation(tok)
	space.Add(tok)
	e.AddAnnotation(graph.NewAnnotation("a2", "dep", nil))

	if err := g.SetRoot(n1); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWriteXMLCanonical(t *testing.T) {
	got, err := MarshalXML(buildCanonical(t))
	if err != nil {
		t.Fatalf("MarshalXML: %v", err)
	}
	if string(got) != canonical {
		t.Errorf("MarshalXML() mismatch\ngot:\n%s\nwant:\n%s", got, canonical)
	}
}

func TestWriteXMLRoundTrip(t *testing.T) {
	g, err := ReadXML(strings.NewReader(canonical))
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	got, err := MarshalXML(g)
	if err != nil {
		t.Fatalf("MarshalXML: %v", err)
	}
	if string(got) != canonical {
		t.Errorf("re-rendered document differs\ngot:\n%s\nwant:\n%s", got, canonical)
	}

	again, err := MarshalXML(g)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, again) {
		t.Error("rendering the same graph twice produced different bytes")
	}
}

func TestWriteXMLOrdering(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"n3", "n1", "n2"} {
		g.AddNode(graph.NewNode(id))
	}
	for _, rg := range []struct {
		id         string
		start, end int
	}{
		{"r-late", 10, 20},
		{"r-early", 0, 5},
	} {
		r, err := graph.NewRegion(rg.id, graph.Offset(rg.start), graph.Offset(rg.end))
		if err != nil {
			t.Fatal(err)
		}
		g.AddRegion(r)
	}
	if _, err := g.CreateEdge("n3", "n1", "e-b"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateEdge("n2", "n1", "e-a"); err != nil {
		t.Fatal(err)
	}

	out, err := MarshalXML(g)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(out)

	order := []string{
		`xml:id="r-early"`, `xml:id="r-late"`,
		`xml:id="n1"`, `xml:id="n2"`, `xml:id="n3"`,
		`xml:id="e-b"`, `xml:id="e-a"`,
	}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		if i < 0 {
			t.Fatalf("output missing %s:\n%s", s, doc)
		}
		if i < last {
			t.Errorf("%s out of order:\n%s", s, doc)
		}
		last = i
	}
	if strings.Contains(doc, "<tagsDecl>") {
		t.Error("tagsDecl written for a graph without annotations")
	}
}

func TestWriteXMLEscaping(t *testing.T) {
	g := graph.New()
	n := graph.NewNode("n1")
	g.AddNode(n)
	fs := feature.New("")
	fs.Put("word", feature.Atom(`"AT&T" <corp>`))
	n.AddAnnotation(graph.NewAnnotation("a1", "tok", fs))

	out, err := MarshalXML(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `value="&#34;AT&amp;T&#34; &lt;corp&gt;"`) {
		t.Errorf("feature value not escaped:\n%s", out)
	}

	back, err := ReadXML(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	n1, _ := back.Node("n1")
	a, _ := n1.Annotation("tok")
	if v, _ := a.Features.Get("word"); v != feature.Atom(`"AT&T" <corp>`) {
		t.Errorf("word = %q after round trip", v)
	}
}

func TestWriteXMLGraphFeaturesAndIndent(t *testing.T) {
	g := graph.New()
	g.Features.Put("lang", feature.Atom("en"))
	g.AddNode(graph.NewNode("n1"))

	out, err := MarshalXML(g, WithIndent(""))
	if err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
<header>
</header>
<fs>
<f name="lang" value="en"/>
</fs>
<node xml:id="n1"/>
</graph>
`
	if string(out) != want {
		t.Errorf("MarshalXML() =\n%s\nwant:\n%s", out, want)
	}
}

func TestWriteXMLTypedEmptyGraphFeatures(t *testing.T) {
	g := graph.New()
	g.Features.Type = "masc"

	out, err := MarshalXML(g, WithIndent(""))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `<fs type="masc"/>`) {
		t.Errorf("MarshalXML() =\n%s\nwant a typed empty <fs>", out)
	}

	back, err := ReadXML(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	if back.Features.Type != "masc" {
		t.Errorf("Features.Type = %q, want masc", back.Features.Type)
	}
}

func TestWriteXMLUnregisteredLinkRegion(t *testing.T) {
	g := graph.New()
	r, err := graph.NewRegion("r1", graph.Offset(0), graph.Offset(4))
	if err != nil {
		t.Fatal(err)
	}
	g.EnsureNode("n1").AddRegion(r)

	out, err := MarshalXML(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `<region xml:id="r1" anchors="0 4"/>`) {
		t.Errorf("MarshalXML() =\n%s\nwant region r1 written", out)
	}

	back, err := ReadXML(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	n, _ := back.Node("n1")
	if regions := n.Regions(); len(regions) != 1 || regions[0].ID() != "r1" {
		t.Errorf("n1 regions after round trip = %v, want [r1]", regions)
	}
}

func TestExportImportXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc-penn.xml")
	if err := ExportXML(buildCanonical(t), path); err != nil {
		t.Fatalf("ExportXML: %v", err)
	}
	g, err := ImportXML(path)
	if err != nil {
		t.Fatalf("ImportXML: %v", err)
	}
	if got, want := g.Summary(), "2 nodes, 1 edges, 1 regions, 2 annotations"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
