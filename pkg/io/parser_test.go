package io

import (
	stdio "io"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/feature"
	"github.com/matzehuels/graf/pkg/graph"
)

const endToEnd = `<?xml version="1.0" encoding="UTF-8"?>
<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <roots><root>n1</root></roots>
    </header>
    <node xml:id="n1"/>
    <node xml:id="n2"/>
    <edge xml:id="e1" from="n1" to="n2"/>
    <a label="pos" ref="n2">
        <fs><f name="msd" value="NN"/></fs>
    </a>
</graph>`

func parse(t *testing.T, doc string, opts ...Option) *graph.Graph {
	t.Helper()
	g, err := ReadXML(strings.NewReader(doc), opts...)
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	return g
}

func featureValue(t *testing.T, a *graph.Annotation, path string) string {
	t.Helper()
	v, err := a.Features.Get(path)
	if err != nil {
		t.Fatalf("Features.Get(%q): %v", path, err)
	}
	return v.String()
}

func TestReadXMLEndToEnd(t *testing.T) {
	g := parse(t, endToEnd)

	root, ok := g.Root()
	if !ok || root.ID() != "n1" {
		t.Errorf("Root() = %v, %v, want n1", root, ok)
	}
	e, ok := g.FindEdge("n1", "n2")
	if !ok || e.ID() != "e1" {
		t.Errorf("FindEdge(n1, n2) = %v, %v, want e1", e, ok)
	}
	el, err := g.Element("n2")
	if err != nil {
		t.Fatal(err)
	}
	anns := el.Annotations()
	if len(anns) != 1 {
		t.Fatalf("len(n2 annotations) = %d, want 1", len(anns))
	}
	if anns[0].Label != "pos" {
		t.Errorf("Label = %q, want pos", anns[0].Label)
	}
	if got := featureValue(t, anns[0], "msd"); got != "NN" {
		t.Errorf("msd = %q, want NN", got)
	}
	if anns[0].ID == "" {
		t.Error("annotation ID was not assigned")
	}
}

func TestReadXMLDeferredResolution(t *testing.T) {
	doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <annotationSets><annotationSet name="syn" type="ptb"/></annotationSets>
    </header>
    <edge xml:id="e1" from="n2" to="n1"/>
    <a label="dep" ref="e1" as="syn"><fs><f name="rel" value="nsubj"/></fs></a>
    <a label="late" ref="n1"/>
    <node xml:id="n1"><link targets="r1"/></node>
    <node xml:id="n2"/>
    <region xml:id="r1" anchors="0 4"/>
</graph>`
	g := parse(t, doc)

	e, ok := g.Edge("e1")
	if !ok {
		t.Fatal("edge e1 missing")
	}
	if e.From() != "n2" || e.To() != "n1" {
		t.Errorf("e1 = %s->%s, want n2->n1", e.From(), e.To())
	}
	n2, _ := g.Node("n2")
	n1, _ := g.Node("n1")
	if !n2.HasOutEdge("e1") || !n1.HasInEdge("e1") {
		t.Error("e1 not threaded into endpoint edge lists")
	}

	dep, ok := e.Annotation("dep")
	if !ok {
		t.Fatal("edge annotation missing")
	}
	if ref, _ := dep.Element(); ref != (graph.ElementRef{Kind: graph.KindEdge, ID: "e1"}) {
		t.Errorf("dep owner = %v, want edge e1", ref)
	}
	if dep.Space() != "syn" {
		t.Errorf("dep space = %q, want syn", dep.Space())
	}
	if _, ok := n1.Annotation("late"); !ok {
		t.Error("annotation on a later-declared node was not attached")
	}
	r1, _ := g.Region("r1")
	if !slices.Equal(r1.Nodes(), []string{"n1"}) {
		t.Errorf("r1.Nodes() = %v, want [n1]", r1.Nodes())
	}
}

func TestReadXMLFeatureForms(t *testing.T) {
	doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <fs type="doc"><f name="lang" value="en"/></fs>
    <node xml:id="n1"/>
    <a label="tok" ref="n1">
        <fs type="tok">
            <f name="base">  dog  </f>
            <f name="msd" value="NN">ignored</f>
            <f name="morph">
                <fs type="agr">
                    <f name="number" value="sg"/>
                    <f name="deep"><fs><f name="x" value="1"/></fs></f>
                </fs>
            </f>
        </fs>
    </a>
</graph>`
	g := parse(t, doc)

	if v, _ := g.Features.Get("lang"); v != feature.Atom("en") {
		t.Errorf("graph feature lang = %v, want en", v)
	}
	if g.Features.Type != "doc" {
		t.Errorf("graph features type = %q, want doc", g.Features.Type)
	}

	n1, _ := g.Node("n1")
	a, _ := n1.Annotation("tok")
	if a.Features.Type != "tok" {
		t.Errorf("Type = %q, want tok", a.Features.Type)
	}

	tests := []struct {
		path string
		want string
	}{
		{"base", "dog"},
		{"msd", "NN"},
		{"morph/number", "sg"},
		{"morph/deep/x", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := featureValue(t, a, tt.path); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
	morph, _ := a.Features.Get("morph")
	if s, ok := feature.AsStructure(morph); !ok || s.Type != "agr" {
		t.Errorf("morph = %v, want structure of type agr", morph)
	}
}

func TestReadXMLNestedEdgeAnnotationAndGroups(t *testing.T) {
	doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <annotationSpaces><annotationSpace as.id="fn" as.type="framenet"/></annotationSpaces>
    </header>
    <node xml:id="n1" root="true"/>
    <node xml:id="n2"/>
    <edge xml:id="e1" from="n1" to="n2">
        <a label="role" ref="e1"/>
    </edge>
    <as type="fn">
        <a label="frame" ref="n1"/>
    </as>
</graph>`
	g := parse(t, doc)

	e, _ := g.Edge("e1")
	if _, ok := e.Annotation("role"); !ok {
		t.Error("nested edge annotation missing")
	}
	space, _ := g.Space("fn")
	if space.Type != "framenet" {
		t.Errorf("space type = %q, want framenet", space.Type)
	}
	if a, err := space.First(graph.Query{Label: "frame"}); err != nil || a.Space() != "fn" {
		t.Errorf("grouped annotation = %v, %v, want member of fn", a, err)
	}
	if root, ok := g.Root(); !ok || root.ID() != "n1" {
		t.Errorf("Root() from root attribute = %v, %v, want n1", root, ok)
	}
}

func TestReadXMLIdempotentDeclarations(t *testing.T) {
	doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <annotationSets>
            <annotationSet name="xces" type="penn"/>
            <annotationSet name="xces" type="penn"/>
        </annotationSets>
    </header>
    <node xml:id="n1"/>
    <a label="tok" ref="n1" xml:id="a1" as="xces"/>
    <a label="tok" ref="n1" xml:id="a1" as="xces"/>
</graph>`
	g := parse(t, doc)
	if len(g.Spaces()) != 1 {
		t.Errorf("len(Spaces()) = %d, want 1", len(g.Spaces()))
	}
	n1, _ := g.Node("n1")
	if len(n1.Annotations()) != 1 {
		t.Errorf("len(annotations) = %d, want 1", len(n1.Annotations()))
	}
	space, _ := g.Space("xces")
	if space.Len() != 1 {
		t.Errorf("space.Len() = %d, want 1", space.Len())
	}
}

func TestReadXMLGeneratedIDsAvoidExplicit(t *testing.T) {
	doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header><annotationSpaces><annotationSpace as.id="s"/></annotationSpaces></header>
    <node xml:id="n1"/>
    <a label="x" ref="n1" as="s"/>
    <a label="y" ref="n1" as="s" xml:id="a1"/>
</graph>`
	g := parse(t, doc)
	space, _ := g.Space("s")
	if space.Len() != 2 {
		t.Fatalf("space.Len() = %d, want 2", space.Len())
	}
	anns := space.Annotations()
	if anns[0].ID == "a1" || anns[0].ID == "" {
		t.Errorf("generated ID = %q, want a fresh ID", anns[0].ID)
	}
}

func TestReadXMLErrors(t *testing.T) {
	wrap := func(body string) string {
		return `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">` + body + `</graph>`
	}

	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"one anchor", wrap(`<region xml:id="r1" anchors="5"/>`), errors.ErrCodeInvalidRegion},
		{"bad anchor", wrap(`<region xml:id="r1" anchors="5 x"/>`), errors.ErrCodeInvalidRegion},
		{"missing label", wrap(`<node xml:id="n1"/><a ref="n1"/>`), errors.ErrCodeMissingLabel},
		{"missing ref", wrap(`<node xml:id="n1"/><a label="tok"/>`), errors.ErrCodeMissingRef},
		{"node without id", wrap(`<node/>`), errors.ErrCodeMissingAttribute},
		{"edge without from", wrap(`<edge xml:id="e1" to="n1"/>`), errors.ErrCodeMissingAttribute},
		{"edge without id", wrap(`<node xml:id="n1"/><node xml:id="n2"/><node xml:id="n3"/>
            <edge from="n1" to="n2"/><edge xml:id="e1" from="n2" to="n3"/>`), errors.ErrCodeMissingAttribute},
		{"feature without name", wrap(`<node xml:id="n1"/><a label="t" ref="n1"><fs><f value="1"/></fs></a>`), errors.ErrCodeMissingAttribute},
		{"unknown space", wrap(`<node xml:id="n1"/><a label="tok" ref="n1" as="nope"/>`), errors.ErrCodeUnknownSpace},
		{"unknown group", wrap(`<as type="nope"/>`), errors.ErrCodeUnknownSpace},
		{"space type mismatch", wrap(`<header><annotationSets>
            <annotationSet name="xces" type="penn"/>
            <annotationSet name="xces" type="fn"/>
        </annotationSets></header>`), errors.ErrCodeSpaceTypeMismatch},
		{"root not found", wrap(`<header><roots><root>n9</root></roots></header><node xml:id="n1"/>`), errors.ErrCodeRootNotFound},
		{"dangling annotation", wrap(`<node xml:id="n1"/><a label="tok" ref="e9"/>`), errors.ErrCodeDanglingAnnotationRef},
		{"unresolved edge endpoint", wrap(`<node xml:id="n1"/><edge xml:id="e1" from="n1" to="n9"/>`), errors.ErrCodeInvalidEdge},
		{"orphan feature", wrap(`<node xml:id="n1"/><a label="tok" ref="n1"><f name="msd" value="NN"/></a>`), errors.ErrCodeOrphanFeature},
		{"missing dependency", wrap(`<header><dependencies><dependsOn f.id="seg"/></dependencies></header>`), errors.ErrCodeDependencyNotFound},
		{"malformed xml", `<graph><node xml:id="n1"></graph>`, errors.ErrCodeMalformedXML},
		{"no graph", `<other/>`, errors.ErrCodeMalformedXML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadXML(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatalf("ReadXML() succeeded, want %v", tt.code)
			}
			if g != nil {
				t.Error("ReadXML() returned a partial graph")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadXML() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestReadXMLCustomAnchorParser(t *testing.T) {
	calls := 0
	ap := func(tok string) (graph.Anchor, error) {
		calls++
		return graph.ParseOffset(strings.TrimPrefix(tok, "#"))
	}
	g := parse(t, `<graph><region xml:id="r1" anchors="#3 #8"/></graph>`, WithAnchorParser(ap))
	if calls != 2 {
		t.Errorf("anchor parser calls = %d, want 2", calls)
	}
	r, _ := g.Region("r1")
	if r.AnchorString() != "3 8" {
		t.Errorf("AnchorString() = %q, want %q", r.AnchorString(), "3 8")
	}
}

// =============================================================================
// Dependencies
// =============================================================================

const segDoc = `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <annotationSpaces><annotationSpace as.id="seg"/></annotationSpaces>
    </header>
    <region xml:id="seg-r0" anchors="0 3"/>
    <region xml:id="seg-r1" anchors="4 9"/>
</graph>`

const pennDoc = `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header>
        <dependencies><dependsOn f.id="seg"/></dependencies>
        <annotationSpaces><annotationSpace as.id="xces"/></annotationSpaces>
    </header>
    <node xml:id="penn-n0"><link targets="seg-r0"/></node>
    <a label="tok" ref="penn-n0" as="xces"><fs><f name="msd" value="DT"/></fs></a>
    <node xml:id="penn-n1"><link targets="seg-r1"/></node>
    <a label="tok" ref="penn-n1" as="xces"><fs><f name="msd" value="NN"/></fs></a>
    <node xml:id="penn-n2"/>
    <a label="NP" ref="penn-n2" as="xces"/>
    <edge xml:id="penn-e0" from="penn-n2" to="penn-n0"/>
    <edge xml:id="penn-e1" from="penn-n2" to="penn-n1"/>
    <a label="head" ref="penn-e1" as="xces"/>
</graph>`

type countingResolver struct {
	docs  MapResolver
	calls map[string]int
}

func (r *countingResolver) Resolve(typeName string) (stdio.ReadCloser, error) {
	r.calls[typeName]++
	return r.docs.Resolve(typeName)
}

func TestReadXMLDependencyMergedOnce(t *testing.T) {
	tests := []struct {
		name string
		deps string
	}{
		{"seg first", `<dependsOn type="seg"/><dependsOn f.id="penn"/>`},
		{"penn first", `<dependsOn f.id="penn"/><dependsOn type="seg"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
    <header><dependencies>` + tt.deps + `</dependencies>
        <annotationSpaces><annotationSpace as.id="xces"/></annotationSpaces>
    </header>
    <node xml:id="nc-n0"><link targets="seg-r0 seg-r1"/></node>
    <a label="nchunk" ref="nc-n0" as="xces"/>
    <edge xml:id="nc-e0" from="nc-n0" to="penn-n2"/>
</graph>`
			res := &countingResolver{
				docs:  MapResolver{"seg": segDoc, "penn": pennDoc},
				calls: make(map[string]int),
			}
			g := parse(t, doc, WithResolver(res))

			if res.calls["seg"] != 1 || res.calls["penn"] != 1 {
				t.Errorf("resolver calls = %v, want seg:1 penn:1", res.calls)
			}
			if g.NodeCount() != 4 {
				t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
			}
			if g.EdgeCount() != 3 {
				t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
			}
			if g.RegionCount() != 2 {
				t.Errorf("RegionCount() = %d, want 2", g.RegionCount())
			}

			r0, _ := g.Region("seg-r0")
			got := r0.Nodes()
			slices.Sort(got)
			if !slices.Equal(got, []string{"nc-n0", "penn-n0"}) {
				t.Errorf("seg-r0.Nodes() = %v, want [nc-n0 penn-n0]", got)
			}

			xces, _ := g.Space("xces")
			if xces.Len() != 5 {
				t.Errorf("xces.Len() = %d, want 5", xces.Len())
			}
			seen := make(map[string]bool)
			for _, a := range xces.Annotations() {
				if a.ID == "" || seen[a.ID] {
					t.Errorf("annotation ID %q empty or repeated", a.ID)
				}
				seen[a.ID] = true
				if _, ok := a.Element(); !ok {
					t.Errorf("annotation %s has no owning element", a.ID)
				}
			}

			e1, _ := g.Edge("penn-e1")
			if _, ok := e1.Annotation("head"); !ok {
				t.Error("edge annotation lost in merge")
			}
			if _, ok := g.Space("seg"); !ok {
				t.Error("dependency space not merged")
			}
			if deps := g.Header().DependsOn(); len(deps) != 2 {
				t.Errorf("DependsOn() = %v, want 2 entries", deps)
			}
		})
	}
}

func TestReadXMLDependencyCycle(t *testing.T) {
	res := &countingResolver{
		docs: MapResolver{
			"a": `<graph><header><dependencies><dependsOn f.id="b"/></dependencies></header><node xml:id="a1"/></graph>`,
			"b": `<graph><header><dependencies><dependsOn f.id="a"/></dependencies></header><node xml:id="b1"/></graph>`,
		},
		calls: make(map[string]int),
	}
	doc := `<graph><header><dependencies><dependsOn f.id="a"/></dependencies></header></graph>`
	g := parse(t, doc, WithResolver(res))
	if res.calls["a"] != 1 || res.calls["b"] != 1 {
		t.Errorf("resolver calls = %v, want a:1 b:1", res.calls)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
}

func TestReadXMLDependencySharedEdge(t *testing.T) {
	layer := func(from, to, label string) string {
		return `<graph>
    <node xml:id="n1"/>
    <node xml:id="n2"/>
    <edge xml:id="e1" from="` + from + `" to="` + to + `"/>
    <a label="` + label + `" ref="e1"/>
</graph>`
	}
	doc := `<graph><header><dependencies>
    <dependsOn f.id="a"/>
    <dependsOn f.id="b"/>
</dependencies></header></graph>`

	t.Run("same endpoints", func(t *testing.T) {
		res := MapResolver{"a": layer("n1", "n2", "dep"), "b": layer("n1", "n2", "arc")}
		g := parse(t, doc, WithResolver(res))
		if g.EdgeCount() != 1 {
			t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
		}
		e, _ := g.Edge("e1")
		var labels []string
		for _, a := range e.Annotations() {
			labels = append(labels, a.Label)
		}
		if strings.Join(labels, " ") != "dep arc" {
			t.Errorf("edge labels = %v, want [dep arc]", labels)
		}
	})

	t.Run("conflicting endpoints", func(t *testing.T) {
		res := MapResolver{"a": layer("n1", "n2", "dep"), "b": layer("n2", "n1", "arc")}
		_, err := ReadXML(strings.NewReader(doc), WithResolver(res))
		if !errors.Is(err, errors.ErrCodeDuplicateID) {
			t.Errorf("error = %v, want DUPLICATE_ID", err)
		}
	})
}

func TestReadXMLDependencyError(t *testing.T) {
	res := MapResolver{"bad": `<graph><a label="x"/></graph>`}
	doc := `<graph><header><dependencies><dependsOn f.id="bad"/></dependencies></header></graph>`
	_, err := ReadXML(strings.NewReader(doc), WithResolver(res))
	if !errors.Is(err, errors.ErrCodeMissingRef) {
		t.Errorf("error = %v, want MISSING_REF from the dependency", err)
	}
}
