// Package model defines core data structures for codequiz.
package model

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind indicates the syntactic kind of an entity.
type Kind string

const (
	Function Kind = "function"
	Class    Kind = "class"
)

// Entity is a definition recovered from a parsed source file.
type Entity struct {
	Kind Kind
	// Name is the bare name for top-level definitions and "Owner.method"
	// for methods. It is fixed at extraction time.
	Name string
	// Node is the definition node. For decorated definitions it is the
	// decorated_definition wrapper so decorators stay reachable.
	Node *sitter.Node
	// Source is the file content Node indexes into.
	Source []byte
}

// Tier is a detail level for rendering an entity. Tiers are ordered from the
// most redacted view to the full definition.
type Tier int

const (
	Name Tier = iota
	Signature
	Returns
	Filename
	Docstring
	Full
)

var tierNames = [...]string{
	Name:      "name",
	Signature: "signature",
	Returns:   "returns",
	Filename:  "filename",
	Docstring: "docstring",
	Full:      "full",
}

// Tiers returns every tier in ascending order.
func Tiers() []Tier {
	return []Tier{Name, Signature, Returns, Filename, Docstring, Full}
}

func (t Tier) String() string {
	if t < Name || t > Full {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Next returns the following tier and false if t is the last one.
func (t Tier) Next() (Tier, bool) {
	if t >= Full {
		return Full, false
	}
	return t + 1, true
}

// ParseTier returns the tier with the given name.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}
