// Package corpus builds the index of every entity found under a root
// directory, paired with the file each one came from.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/phobologic/codequiz/internal/discover"
	"github.com/phobologic/codequiz/internal/lang"
	"github.com/phobologic/codequiz/internal/model"
	"github.com/phobologic/codequiz/internal/parse"
)

// ErrEmptyCorpus is returned when an entity is requested from an index
// that holds none.
var ErrEmptyCorpus = errors.New("no entities found in corpus")

// Index holds the entities of a corpus and, at the same position, the path
// of the file each was extracted from. It is not modified after Build.
type Index struct {
	Entities []model.Entity
	Paths    []string

	files []*parse.File
}

// Build walks root and indexes every entity of every parseable file. Files
// that fail to parse are reported to warn and contribute nothing. Only a
// failure of the walk itself is returned as an error.
func Build(root string, opts discover.Options, warn io.Writer) (*Index, error) {
	paths, err := discover.Files(root, opts)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	parser := lang.Languages["python"].NewParser()
	defer parser.Close()

	idx := &Index{}
	for _, path := range paths {
		f, err := parse.ParseFile(parser, path)
		if err != nil {
			_, _ = fmt.Fprintf(warn, "Warning: %v\n", err)
			continue
		}
		idx.add(f)
	}
	return idx, nil
}

func (idx *Index) add(f *parse.File) {
	entities := f.Entities()
	if len(entities) == 0 {
		f.Close()
		return
	}
	idx.files = append(idx.files, f)
	for _, e := range entities {
		idx.Entities = append(idx.Entities, e)
		idx.Paths = append(idx.Paths, f.Path)
	}
}

// Len returns the number of entities.
func (idx *Index) Len() int {
	return len(idx.Entities)
}

// At returns the i-th entity and its source path.
func (idx *Index) At(i int) (model.Entity, string) {
	return idx.Entities[i], idx.Paths[i]
}

// Pick returns a uniformly random index.
func (idx *Index) Pick(r *rand.Rand) (int, error) {
	if idx.Len() == 0 {
		return 0, ErrEmptyCorpus
	}
	return r.IntN(idx.Len()), nil
}

// Close releases the syntax trees the entities point into. The index must
// not be used afterwards.
func (idx *Index) Close() {
	for _, f := range idx.files {
		f.Close()
	}
	idx.files = nil
	idx.Entities = nil
	idx.Paths = nil
}
