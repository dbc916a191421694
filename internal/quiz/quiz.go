// Package quiz runs the interactive rounds: pick an entity at random and
// reveal it one tier at a time, waiting for the user between tiers.
package quiz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phobologic/codequiz/internal/corpus"
	"github.com/phobologic/codequiz/internal/model"
	"github.com/phobologic/codequiz/internal/render"
)

// ConsoleTarget selects console output when given as the output argument.
const ConsoleTarget = "cmd"

// errInputClosed ends a session when there is no more input to wait on.
var errInputClosed = errors.New("input closed")

// Options configures a Session.
type Options struct {
	// OutFile receives each tier's view, truncated every time. Empty means
	// views are printed to Out.
	OutFile string
	In      io.Reader
	// Out receives prompts, and views in console mode.
	Out  io.Writer
	Rand *rand.Rand
	// Styled renders tier headers in bold.
	Styled bool
}

// Session plays quiz rounds over an index.
type Session struct {
	idx     *corpus.Index
	in      *bufio.Reader
	out     io.Writer
	outFile string
	rand    *rand.Rand
	header  lipgloss.Style
	styled  bool
}

// New creates a session over idx.
func New(idx *corpus.Index, opts Options) *Session {
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	return &Session{
		idx:     idx,
		in:      bufio.NewReader(in),
		out:     out,
		outFile: opts.OutFile,
		rand:    r,
		header:  lipgloss.NewRenderer(out).NewStyle().Bold(true),
		styled:  opts.Styled,
	}
}

// Run plays rounds until the user asks to stop, input runs out or ctx is
// done. An empty index fails immediately with corpus.ErrEmptyCorpus.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := s.Round()
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil || !more {
			return err
		}
	}
}

// Round plays one round and reports whether the user wants another.
func (s *Session) Round() (bool, error) {
	i, err := s.idx.Pick(s.rand)
	if err != nil {
		return false, err
	}
	entity, path := s.idx.At(i)

	for _, tier := range model.Tiers() {
		if err := s.show(entity, path, tier); err != nil {
			return false, err
		}
		if next, ok := tier.Next(); ok {
			if _, err := fmt.Fprintf(s.out, "Press Enter for %s information...", next); err != nil {
				return false, err
			}
			if _, err := s.readLine(); err != nil {
				return false, err
			}
		}
	}

	if _, err := fmt.Fprintf(s.out, "\nLearn more:\n%s\nPress any key to exit, or enter to continue\n", path); err != nil {
		return false, err
	}
	entry, err := s.readLine()
	_, _ = fmt.Fprintln(s.out)
	if err != nil {
		return false, err
	}
	return entry == "", nil
}

func (s *Session) show(e model.Entity, path string, tier model.Tier) error {
	view := render.Render(e, tier)
	disclosure := Disclosure(path, tier)

	if s.outFile != "" {
		var sb strings.Builder
		if disclosure != "" {
			fmt.Fprintf(&sb, "'%s'\n\n", disclosure)
		}
		sb.WriteString(view)
		sb.WriteString("\n")
		if err := os.WriteFile(s.outFile, []byte(sb.String()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", s.outFile, err)
		}
		return nil
	}

	var sb strings.Builder
	sb.WriteString(s.title(tier))
	sb.WriteString("\n")
	if disclosure != "" {
		sb.WriteString(disclosure)
		sb.WriteString("\n\n")
	}
	sb.WriteString(view)
	sb.WriteString("\n\n")
	_, err := io.WriteString(s.out, sb.String())
	return err
}

func (s *Session) title(tier model.Tier) string {
	title := "------" + tier.String() + "-----"
	if s.styled {
		return s.header.Render(title)
	}
	return title
}

// Disclosure returns the file information revealed next to the entity at
// tier: the base name at Filename and Docstring, the full path at Full.
func Disclosure(path string, tier model.Tier) string {
	switch tier {
	case model.Filename, model.Docstring:
		return filepath.Base(path)
	case model.Full:
		return path
	}
	return ""
}

func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
