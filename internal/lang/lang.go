// Package lang provides a language registry mapping file extensions to
// tree-sitter grammars, plus small helpers for reading node text.
package lang

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// A parser is not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// Tokens returns the leaf tokens under node in source order. Comments are
// dropped and string literals are returned whole.
func Tokens(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	var toks []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.Type() == PyComment:
		case n.Type() == PyString || n.ChildCount() == 0:
			if n.EndByte() > n.StartByte() {
				toks = append(toks, n)
			}
		default:
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
		}
	}
	walk(node)
	return toks
}

// JoinTokens concatenates the text of toks on one line. Adjacent tokens stay
// adjacent; any gap between two tokens, comments and newlines included,
// becomes a single space.
func JoinTokens(toks []*sitter.Node, source []byte) string {
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 && tok.StartByte() > toks[i-1].EndByte() {
			sb.WriteByte(' ')
		}
		sb.WriteString(NodeText(tok, source))
	}
	return sb.String()
}

// OneLine returns the text of node on a single line. See JoinTokens.
func OneLine(node *sitter.Node, source []byte) string {
	return JoinTokens(Tokens(node), source)
}

// Dedent returns the text of node with its continuation lines shifted left by
// the node's starting column, so a nested definition reads as if it started
// at column zero.
func Dedent(node *sitter.Node, source []byte) string {
	text := NodeText(node, source)
	col := int(node.StartPoint().Column)
	if col == 0 || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = trimIndent(lines[i], col)
	}
	return strings.Join(lines, "\n")
}

// Indent dedents node and prefixes every line with prefix.
func Indent(node *sitter.Node, source []byte, prefix string) string {
	lines := strings.Split(Dedent(node, source), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// trimIndent removes up to n leading spaces or tabs from line.
func trimIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}
