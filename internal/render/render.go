// Package render produces the progressively revealing views of an entity.
//
// An entity is decomposed once into a header and an ordered list of blocks,
// each tagged with the tier at which it is first disclosed. A tier's view is
// the header followed by every block whose tier does not exceed it, so a
// higher tier can only add lines to a lower one. Full is the exception: it
// is the original definition, verbatim.
package render

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codequiz/internal/lang"
	"github.com/phobologic/codequiz/internal/model"
)

const (
	indent = "    "
	// Elision marks an omitted body.
	Elision = indent + "..."
)

// block is a run of lines first shown at tier.
type block struct {
	tier model.Tier
	text string
}

// layout is the decomposed form of an entity.
type layout struct {
	name      string // header at Name tier
	signature string // header from Signature tier on, decorators included
	blocks    []block
}

// layoutFunc builds the layout of one entity kind from its definition node.
type layoutFunc func(name string, def *sitter.Node, decorators []*sitter.Node, source []byte) layout

var layouts = map[model.Kind]layoutFunc{
	model.Function: functionLayout,
	model.Class:    classLayout,
}

// Render returns the view of e at tier. It is deterministic for a given node.
func Render(e model.Entity, tier model.Tier) string {
	if e.Node == nil {
		return ""
	}
	if tier >= model.Full {
		return strings.TrimRight(lang.Dedent(e.Node, e.Source), " \t\r\n")
	}

	l := decompose(e)
	if tier <= model.Name {
		return l.name
	}

	parts := []string{l.signature}
	for _, b := range l.blocks {
		if b.tier <= tier {
			parts = append(parts, b.text)
		}
	}
	return strings.Join(parts, "\n")
}

// All renders e at every tier, in tier order.
func All(e model.Entity) map[model.Tier]string {
	views := make(map[model.Tier]string, len(model.Tiers()))
	for _, tier := range model.Tiers() {
		views[tier] = Render(e, tier)
	}
	return views
}

func decompose(e model.Entity) layout {
	def, decorators := lang.PythonUnwrap(e.Node)
	if def == nil {
		def = e.Node
	}
	build, ok := layouts[e.Kind]
	if !ok {
		build = functionLayout
	}
	return build(e.Name, def, decorators, e.Source)
}

func functionLayout(name string, def *sitter.Node, decorators []*sitter.Node, source []byte) layout {
	params := innerList(def.ChildByFieldName("parameters"), source)

	sig := "def " + name + "(" + params + ")"
	if ret := def.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + lang.OneLine(ret, source)
	}
	sig += ":"

	body := def.ChildByFieldName("body")
	var blocks []block
	if doc, ok := lang.PythonDocstring(body, source); ok {
		blocks = append(blocks, docstringBlock(doc))
	}
	if ret := lang.PythonLastReturn(body); ret != nil {
		blocks = append(blocks, block{
			tier: model.Returns,
			text: Elision + "\n" + lang.Indent(ret, source, indent),
		})
	}

	return layout{
		name:      redacted("def", name, params),
		signature: withDecorators(decorators, source, sig),
		blocks:    blocks,
	}
}

func classLayout(name string, def *sitter.Node, decorators []*sitter.Node, source []byte) layout {
	bases := innerList(def.ChildByFieldName("superclasses"), source)
	sig := "class " + name + "(" + bases + "):"

	body := def.ChildByFieldName("body")
	var blocks []block
	if doc, ok := lang.PythonDocstring(body, source); ok {
		blocks = append(blocks, docstringBlock(doc))
	}
	for _, field := range lang.PythonFields(body) {
		blocks = append(blocks, block{
			tier: model.Returns,
			text: lang.Indent(field, source, indent),
		})
	}

	return layout{
		name:      redacted("class", name, bases),
		signature: withDecorators(decorators, source, sig),
		blocks:    blocks,
	}
}

func docstringBlock(doc string) block {
	return block{tier: model.Docstring, text: indent + `"""` + doc + `"""`}
}

// redacted returns the Name tier header, which only tells whether the
// definition takes parameters or bases.
func redacted(keyword, name, list string) string {
	if list != "" {
		return keyword + " " + name + "(...):"
	}
	return keyword + " " + name + "():"
}

func withDecorators(decorators []*sitter.Node, source []byte, sig string) string {
	if len(decorators) == 0 {
		return sig
	}
	lines := make([]string, 0, len(decorators)+1)
	for _, d := range decorators {
		toks := lang.Tokens(d)
		if len(toks) > 0 && toks[0].Type() == "@" {
			toks = toks[1:]
		}
		lines = append(lines, "@"+lang.JoinTokens(toks, source))
	}
	return strings.Join(append(lines, sig), "\n")
}

// innerList returns the contents of a parenthesized parameter or argument
// list on one line, without the parentheses, comments or a trailing comma.
// String literals are kept as written.
func innerList(list *sitter.Node, source []byte) string {
	toks := lang.Tokens(list)
	if len(toks) > 0 && toks[0].Type() == "(" {
		toks = toks[1:]
	}
	if n := len(toks); n > 0 && toks[n-1].Type() == ")" {
		toks = toks[:n-1]
	}
	if n := len(toks); n > 0 && toks[n-1].Type() == "," {
		toks = toks[:n-1]
	}
	return lang.JoinTokens(toks, source)
}
