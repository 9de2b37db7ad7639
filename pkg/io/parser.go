package io

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/graph"
	"github.com/matzehuels/graf/pkg/observability"
)

// Parser reads GrAF XML documents into graphs.
//
// A Parser is immutable after construction and may be reused; each call to
// Parse or ParseFile starts a new resolution session.
type Parser struct {
	resolver  Resolver
	anchors   graph.AnchorParser
	logger    *log.Logger
	graphOpts []graph.Option
}

// Option configures a Parser.
type Option func(*Parser)

// WithResolver sets the resolver used for dependsOn declarations.
func WithResolver(r Resolver) Option {
	return func(p *Parser) { p.resolver = r }
}

// WithAnchorParser replaces the default integer-offset anchor parser.
func WithAnchorParser(ap graph.AnchorParser) Option {
	return func(p *Parser) {
		if ap != nil {
			p.anchors = ap
		}
	}
}

// WithLogger sets the logger for dependency resolution and warnings.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithGraphOptions passes options to every graph the parser creates.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(p *Parser) { p.graphOpts = append(p.graphOpts, opts...) }
}

// NewParser returns a parser. Without WithResolver, documents that declare
// dependencies fail with DEPENDENCY_NOT_FOUND, except through ParseFile,
// which falls back to a [FileResolver] for the file's directory.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		anchors: graph.ParseOffset,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// session is shared by a document and all of its dependencies.
type session struct {
	parsed map[string]bool
}

func newSession() *session {
	return &session{parsed: make(map[string]bool)}
}

// Parse reads one document from r.
func (p *Parser) Parse(r io.Reader) (*graph.Graph, error) {
	return p.parse(r, "", newSession(), nil)
}

// ParseFile reads the document at path. The file's own annotation type, when
// it follows the <base>-<type>.xml convention, is marked as parsed so that a
// dependency cycle back to it is not followed.
func (p *Parser) ParseFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	q := *p
	if q.resolver == nil {
		q.resolver = NewFileResolver(path)
	}
	sess := newSession()
	if typ := TypeName(path); typ != "" {
		sess.parsed[typ] = true
	}
	return q.parse(f, filepath.Base(path), sess, nil)
}

func (p *Parser) parse(r io.Reader, source string, sess *session, parents []*graph.Graph) (g *graph.Graph, err error) {
	start := time.Now()
	observability.Parse().OnParseStart(source)
	defer func() {
		nodes, edges := 0, 0
		if g != nil {
			nodes, edges = g.NodeCount(), g.EdgeCount()
		}
		observability.Parse().OnParseComplete(source, nodes, edges, time.Since(start), err)
	}()

	st := &parseState{p: p, sess: sess, parents: parents, source: source}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedXML, err, "read %s", describe(source))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			err = st.start(t)
		case xml.EndElement:
			err = st.end(t)
		case xml.CharData:
			st.chars(t)
		}
		if err != nil {
			line, _ := dec.InputPos()
			return nil, fmt.Errorf("%s:%d: %w", describe(source), line, err)
		}
	}

	if st.g == nil || !st.done {
		return nil, errors.New(errors.ErrCodeMalformedXML, "%s: no complete <graph> element", describe(source))
	}
	return st.g, nil
}

func describe(source string) string {
	if source == "" {
		return "<input>"
	}
	return source
}
