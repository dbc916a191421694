package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Python node types used by the extractor and renderer.
const (
	PyFunction          = "function_definition"
	PyClass             = "class_definition"
	PyDecorated         = "decorated_definition"
	PyDecorator         = "decorator"
	PyExpression        = "expression_statement"
	PyAssignment        = "assignment"
	PyReturn            = "return_statement"
	PyString            = "string"
	PyConcatenatedStr   = "concatenated_string"
	PyComment           = "comment"
	pyAsyncKeyword      = "async"
	pyStringPrefixChars = "rRbBuUfF"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		lang:       python.GetLanguage(),
	}
}

// PythonStatements returns the statements of a module or block node in
// source order. Comments are not statements and are skipped.
func PythonStatements(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	count := int(node.NamedChildCount())
	stmts := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == PyComment {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

// PythonUnwrap returns the function or class definition inside a statement,
// along with its decorators. A bare definition is returned as is. For any
// other statement def is nil.
func PythonUnwrap(stmt *sitter.Node) (def *sitter.Node, decorators []*sitter.Node) {
	if stmt == nil {
		return nil, nil
	}
	switch stmt.Type() {
	case PyFunction, PyClass:
		return stmt, nil
	case PyDecorated:
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			if child.Type() == PyDecorator {
				decorators = append(decorators, child)
			}
		}
		def = stmt.ChildByFieldName("definition")
		if def == nil {
			return nil, nil
		}
		return def, decorators
	}
	return nil, nil
}

// PythonIsAsync reports whether a function_definition is an "async def".
func PythonIsAsync(def *sitter.Node) bool {
	if def == nil || def.ChildCount() == 0 {
		return false
	}
	return def.Child(0).Type() == pyAsyncKeyword
}

// PythonDefName returns the identifier of a function or class definition.
func PythonDefName(def *sitter.Node, source []byte) string {
	if def == nil {
		return ""
	}
	if name := def.ChildByFieldName("name"); name != nil {
		return NodeText(name, source)
	}
	for i := 0; i < int(def.ChildCount()); i++ {
		child := def.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

// PythonDocstring returns the text of the docstring opening body, if the
// first statement is a bare string constant. f-strings and bytes literals
// are not string constants and never count.
func PythonDocstring(body *sitter.Node, source []byte) (string, bool) {
	stmts := PythonStatements(body)
	if len(stmts) == 0 || stmts[0].Type() != PyExpression {
		return "", false
	}
	exprs := PythonStatements(stmts[0])
	if len(exprs) != 1 {
		return "", false
	}
	return pythonStringValue(exprs[0], source)
}

func pythonStringValue(node *sitter.Node, source []byte) (string, bool) {
	switch node.Type() {
	case PyString:
		return pythonStringContent(NodeText(node, source))
	case PyConcatenatedStr:
		var sb strings.Builder
		for _, part := range PythonStatements(node) {
			s, ok := pythonStringValue(part, source)
			if !ok {
				return "", false
			}
			sb.WriteString(s)
		}
		return sb.String(), true
	}
	return "", false
}

// pythonStringContent strips the prefix and quotes from a string literal.
func pythonStringContent(lit string) (string, bool) {
	i := 0
	for i < len(lit) && strings.IndexByte(pyStringPrefixChars, lit[i]) >= 0 {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}
	body := lit[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			return body[len(q) : len(body)-len(q)], true
		}
	}
	return "", false
}

// PythonLastReturn returns the final statement of body if it is a return
// statement.
func PythonLastReturn(body *sitter.Node) *sitter.Node {
	stmts := PythonStatements(body)
	if len(stmts) == 0 {
		return nil
	}
	last := stmts[len(stmts)-1]
	if last.Type() != PyReturn {
		return nil
	}
	return last
}

// PythonFields returns the plain and annotated assignments found directly
// in a class body. Augmented assignments are not fields.
func PythonFields(body *sitter.Node) []*sitter.Node {
	var fields []*sitter.Node
	for _, stmt := range PythonStatements(body) {
		if stmt.Type() != PyExpression {
			continue
		}
		exprs := PythonStatements(stmt)
		if len(exprs) == 1 && exprs[0].Type() == PyAssignment {
			fields = append(fields, stmt)
		}
	}
	return fields
}
