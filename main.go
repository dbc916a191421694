// codequiz quizzes you on the functions and classes of a Python code base,
// revealing each one a tier at a time.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phobologic/codequiz/internal/config"
	"github.com/phobologic/codequiz/internal/corpus"
	"github.com/phobologic/codequiz/internal/quiz"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	load := func(cmd *cobra.Command) (config.Config, error) {
		v, err := config.New(cfgFile)
		if err != nil {
			return config.Config{}, err
		}
		for _, key := range []string{config.KeyRoot, config.KeyExclude, config.KeyGlob, config.KeyGitignore, config.KeySeed} {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
				return config.Config{}, err
			}
		}
		return config.FromViper(v)
	}

	cmd := &cobra.Command{
		Use:   "codequiz [output]",
		Short: "Quiz yourself on the functions and classes of a Python code base",
		Long: `codequiz picks a random function, class or method from the Python files
under the corpus root and reveals it one tier at a time: name, signature,
return statement, file name, docstring and finally the full definition.

With no output argument, or with "` + quiz.ConsoleTarget + `", tiers are printed to the console.
Any other argument is a file that is overwritten with each tier, for viewing
in an editor.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}

			outFile := ""
			if len(args) > 0 && args[0] != quiz.ConsoleTarget {
				outFile = args[0]
			}
			return play(cmd.Context(), cfg, outFile, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("codequiz {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .codequiz.yaml in the working or home directory)")
	flags.StringP(config.KeyRoot, "r", ".", "corpus root directory")
	flags.StringSliceP(config.KeyExclude, "x", config.DefaultExclude, "skip paths containing this fragment (repeatable)")
	flags.StringSlice(config.KeyGlob, nil, "skip paths matching this glob, relative to the root (repeatable)")
	flags.Bool(config.KeyGitignore, true, "honour the root's .gitignore")
	flags.Uint64(config.KeySeed, 0, "random seed for entity selection (0 = random)")
	cmd.Flags().BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(newListCmd(load, stdout, stderr))
	cmd.AddCommand(newShowCmd(load, stdout, stderr))

	return cmd
}

func play(ctx context.Context, cfg config.Config, outFile string, stdin io.Reader, stdout, stderr io.Writer) error {
	idx, err := corpus.Build(cfg.Root, cfg.Discover(), stderr)
	if err != nil {
		return err
	}
	defer idx.Close()

	if idx.Len() == 0 {
		return fmt.Errorf("%s: %w", cfg.Root, corpus.ErrEmptyCorpus)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := quiz.New(idx, quiz.Options{
		OutFile: outFile,
		In:      stdin,
		Out:     stdout,
		Rand:    rand.New(rand.NewPCG(seed, seed)),
		Styled:  isTerminal(stdout),
	})
	return s.Run(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
