// Package discover finds parseable source files under a corpus root.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/codequiz/internal/lang"
)

// Options controls which paths are walked.
type Options struct {
	// Exclude holds path fragments. Any directory or file whose path below
	// the root contains one of them as a substring is skipped.
	Exclude []string
	// Globs are glob patterns matched against the slash-separated path
	// relative to the root.
	Globs []string
	// Gitignore applies the root's .gitignore file when present.
	Gitignore bool
}

// Excluded reports whether path contains any of the fragments.
func Excluded(path string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(path, f) {
			return true
		}
	}
	return false
}

// Files walks root top-down in lexical order and returns the paths of source
// files, each joined onto root. Excluded directories are not descended into.
func Files(root string, opts Options) ([]string, error) {
	globs, err := compileGlobs(opts.Globs)
	if err != nil {
		return nil, err
	}

	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gi = loadGitignore(root)
	}

	var results []string

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if Excluded(string(filepath.Separator)+rel, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchAny(globs, rel) || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if lang.ForExtension(filepath.Ext(d.Name())) == "" {
			return nil
		}
		if matchAny(globs, rel) || (gi != nil && gi.MatchesPath(rel)) {
			return nil
		}

		results = append(results, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
