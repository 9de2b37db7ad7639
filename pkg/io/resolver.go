package io

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/graph"
)

// Resolver locates the document holding an annotation type named in a
// dependsOn declaration. A type that cannot be located is reported with
// DEPENDENCY_NOT_FOUND.
type Resolver interface {
	Resolve(typeName string) (io.ReadCloser, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(typeName string) (io.ReadCloser, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(typeName string) (io.ReadCloser, error) { return f(typeName) }

// MapResolver serves documents from memory, keyed by type name.
type MapResolver map[string]string

// Resolve returns the document registered for typeName.
func (m MapResolver) Resolve(typeName string) (io.ReadCloser, error) {
	doc, ok := m[typeName]
	if !ok {
		return nil, errors.New(errors.ErrCodeDependencyNotFound, "no document for annotation type %q", typeName)
	}
	return io.NopCloser(strings.NewReader(doc)), nil
}

// =============================================================================
// File naming convention
// =============================================================================

// FileResolver resolves type names to sibling files named
// <base>-<type>.xml, the layout used by ANC corpora.
type FileResolver struct {
	Dir  string
	Base string
}

// NewFileResolver returns a resolver for the document set that path belongs
// to. path may be the primary text (.txt), the document header (.hdr or
// .anc) or any of the annotation files (<base>-<type>.xml).
func NewFileResolver(path string) *FileResolver {
	return &FileResolver{Dir: filepath.Dir(path), Base: BaseName(path)}
}

// Path returns the file a type name maps to.
func (r *FileResolver) Path(typeName string) (string, error) {
	if err := errors.ValidateTypeName(typeName); err != nil {
		return "", err
	}
	return filepath.Join(r.Dir, r.Base+"-"+typeName+".xml"), nil
}

// Resolve opens the file for typeName.
func (r *FileResolver) Resolve(typeName string) (io.ReadCloser, error) {
	path, err := r.Path(typeName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDependencyNotFound, err, "annotation type %q", typeName)
	}
	return openDependency(path, typeName)
}

// BaseName returns the document base name shared by all files of one
// document: "doc" for "doc.txt", "doc.hdr", "doc.anc" and "doc-penn.xml".
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == ".xml" {
		if i := strings.LastIndex(stem, "-"); i > 0 {
			return stem[:i]
		}
	}
	return stem
}

// TypeName returns the annotation type encoded in a <base>-<type>.xml file
// name, or "" when the name does not follow that convention.
func TypeName(path string) string {
	name := filepath.Base(path)
	if filepath.Ext(name) != ".xml" {
		return ""
	}
	stem := strings.TrimSuffix(name, ".xml")
	i := strings.LastIndex(stem, "-")
	if i <= 0 {
		return ""
	}
	return stem[i+1:]
}

func openDependency(path, typeName string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDependencyNotFound, err, "annotation type %q", typeName)
	}
	return f, nil
}

// =============================================================================
// Document header
// =============================================================================

var (
	annotationLocExpr = xpath.MustCompile(`//*[local-name()='annotation'][@loc]`)
	primaryDataExpr   = xpath.MustCompile(`//*[local-name()='primaryData'][@loc]`)
)

// HeaderResolver resolves type names through the <annotation loc=... f.id=...>
// entries of a .hdr document header. Locations are relative to the header's
// directory.
type HeaderResolver struct {
	dir     string
	locs    map[string]string
	primary string
}

// LoadHeader reads the document header at path.
func LoadHeader(path string) (*HeaderResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadHeader(f, filepath.Dir(path))
}

// ReadHeader parses a document header from r. dir anchors relative
// locations.
func ReadHeader(r io.Reader, dir string) (*HeaderResolver, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "parse document header")
	}

	h := &HeaderResolver{dir: dir, locs: make(map[string]string)}
	for _, n := range xmlquery.QuerySelectorAll(doc, annotationLocExpr) {
		typ := n.SelectAttr(atFID)
		if typ == "" {
			typ = n.SelectAttr(atType)
		}
		if typ == "" {
			return nil, errors.New(errors.ErrCodeMissingAttribute, "<annotation loc=%q> has no f.id", n.SelectAttr("loc"))
		}
		h.locs[typ] = n.SelectAttr("loc")
	}
	if n := xmlquery.QuerySelector(doc, primaryDataExpr); n != nil {
		h.primary = n.SelectAttr("loc")
	}
	return h, nil
}

// Types returns the annotation types listed in the header, sorted.
func (h *HeaderResolver) Types() []string {
	return slices.Sorted(maps.Keys(h.locs))
}

// Location returns the path of the file holding typeName.
func (h *HeaderResolver) Location(typeName string) (string, bool) {
	loc, ok := h.locs[typeName]
	if !ok {
		return "", false
	}
	return h.join(loc), true
}

// PrimaryData returns the path of the primary text, when the header names one.
func (h *HeaderResolver) PrimaryData() (string, bool) {
	if h.primary == "" {
		return "", false
	}
	return h.join(h.primary), true
}

// LoadPrimaryData reads the primary text named by the header into
// g.Content. It returns false when the header names no primary data.
func (h *HeaderResolver) LoadPrimaryData(g *graph.Graph) (bool, error) {
	path, ok := h.PrimaryData()
	if !ok {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read primary data: %w", err)
	}
	g.Content = string(data)
	return true, nil
}

// Resolve opens the file the header lists for typeName.
func (h *HeaderResolver) Resolve(typeName string) (io.ReadCloser, error) {
	path, ok := h.Location(typeName)
	if !ok {
		return nil, errors.New(errors.ErrCodeDependencyNotFound, "document header lists no annotation %q", typeName)
	}
	return openDependency(path, typeName)
}

func (h *HeaderResolver) join(loc string) string {
	if filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(h.dir, filepath.FromSlash(loc))
}
