// Package parse turns Python source files into syntax trees and extracts
// the quizzable definitions from them.
package parse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codequiz/internal/lang"
	"github.com/phobologic/codequiz/internal/model"
)

var (
	// ErrSyntax is reported for files whose tree contains syntax errors.
	ErrSyntax = errors.New("invalid syntax")
	// ErrEncoding is reported for files that are not valid UTF-8.
	ErrEncoding = errors.New("not valid UTF-8")
)

// ParseError describes a file that could not be turned into a syntax tree.
type ParseError struct {
	Path   string
	Line   int // 1-based; 0 when unknown
	Column int // 1-based; 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// File is a parsed source file. The tree stays alive as long as entities
// extracted from it are in use; Close releases it.
type File struct {
	Path   string
	Source []byte
	Tree   *sitter.Tree
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// Entities extracts the definitions of the file.
func (f *File) Entities() []model.Entity {
	return ExtractEntities(f.Tree.RootNode(), f.Source)
}

// ParseFile reads and parses the file at path.
func ParseFile(parser *sitter.Parser, path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return ParseSource(parser, path, source)
}

// ParseSource parses source, which was read from path. Sources with syntax
// errors are rejected.
func ParseSource(parser *sitter.Parser, path string, source []byte) (*File, error) {
	if !utf8.Valid(source) {
		return nil, &ParseError{Path: path, Err: ErrEncoding}
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := &ParseError{Path: path, Err: ErrSyntax}
		if bad := firstError(root); bad != nil {
			perr.Line = int(bad.StartPoint().Row) + 1
			perr.Column = int(bad.StartPoint().Column) + 1
		}
		tree.Close()
		return nil, perr
	}

	return &File{Path: path, Source: source, Tree: tree}, nil
}

// firstError returns the first ERROR or missing node in document order.
func firstError(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// ExtractEntities walks the top-level statements of a module and returns its
// functions and classes in source order. Each class is followed by its
// methods, named "Class.method". Nothing deeper than a method is visited.
func ExtractEntities(root *sitter.Node, source []byte) []model.Entity {
	var entities []model.Entity

	for _, stmt := range lang.PythonStatements(root) {
		def, _ := lang.PythonUnwrap(stmt)
		if def == nil {
			continue
		}

		switch def.Type() {
		case lang.PyFunction:
			if lang.PythonIsAsync(def) {
				continue
			}
			entities = append(entities, model.Entity{
				Kind:   model.Function,
				Name:   lang.PythonDefName(def, source),
				Node:   stmt,
				Source: source,
			})

		case lang.PyClass:
			className := lang.PythonDefName(def, source)
			entities = append(entities, model.Entity{
				Kind:   model.Class,
				Name:   className,
				Node:   stmt,
				Source: source,
			})
			entities = append(entities, extractMethods(className, def, source)...)
		}
	}

	return entities
}

func extractMethods(className string, class *sitter.Node, source []byte) []model.Entity {
	var methods []model.Entity
	for _, stmt := range lang.PythonStatements(class.ChildByFieldName("body")) {
		def, _ := lang.PythonUnwrap(stmt)
		if def == nil || def.Type() != lang.PyFunction || lang.PythonIsAsync(def) {
			continue
		}
		methods = append(methods, model.Entity{
			Kind:   model.Function,
			Name:   className + "." + lang.PythonDefName(def, source),
			Node:   stmt,
			Source: source,
		})
	}
	return methods
}
