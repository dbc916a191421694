package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/codequiz/internal/config"
	"github.com/phobologic/codequiz/internal/corpus"
	"github.com/phobologic/codequiz/internal/lang"
	"github.com/phobologic/codequiz/internal/model"
	"github.com/phobologic/codequiz/internal/render"
	"github.com/phobologic/codequiz/internal/toon"
)

// newListCmd implements `codequiz list`, which prints every quizzable
// entity of the corpus in TOON format without starting a session.
func newListCmd(load func(cmd *cobra.Command) (config.Config, error), stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entities of the corpus in TOON format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			idx, err := corpus.Build(cfg.Root, cfg.Discover(), stderr)
			if err != nil {
				return err
			}
			defer idx.Close()

			_, _ = fmt.Fprintln(stdout, toon.Encode(filepath.Base(cfg.Root), listing(cfg.Root, idx)))
			return nil
		},
	}
}

func listing(root string, idx *corpus.Index) []toon.Entry {
	entries := make([]toon.Entry, 0, idx.Len())
	for i := range idx.Len() {
		e, path := idx.At(i)
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, toon.Entry{
			File:      filepath.ToSlash(rel),
			Name:      e.Name,
			Kind:      string(e.Kind),
			Line:      line(e),
			Signature: signature(e),
		})
	}
	return entries
}

// line returns the 1-based line of the def or class keyword, past any
// decorators.
func line(e model.Entity) int {
	def, _ := lang.PythonUnwrap(e.Node)
	if def == nil {
		def = e.Node
	}
	return int(def.StartPoint().Row) + 1
}

// signature returns the signature line of e without decorators or the
// trailing colon.
func signature(e model.Entity) string {
	lines := strings.Split(render.Render(e, model.Signature), "\n")
	return strings.TrimSuffix(lines[len(lines)-1], ":")
}
