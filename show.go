package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phobologic/codequiz/internal/config"
	"github.com/phobologic/codequiz/internal/corpus"
	"github.com/phobologic/codequiz/internal/model"
	"github.com/phobologic/codequiz/internal/render"
)

// newShowCmd implements `codequiz show NAME`, which prints the entities with
// a given qualified name at one tier, or at every tier.
func newShowCmd(load func(cmd *cobra.Command) (config.Config, error), stdout, stderr io.Writer) *cobra.Command {
	var tierName string

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print an entity at one tier, or at every tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := tierName == ""
			var tier model.Tier
			if !all {
				t, err := model.ParseTier(tierName)
				if err != nil {
					return err
				}
				tier = t
			}

			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			idx, err := corpus.Build(cfg.Root, cfg.Discover(), stderr)
			if err != nil {
				return err
			}
			defer idx.Close()

			found := 0
			for i := range idx.Len() {
				e, path := idx.At(i)
				if e.Name != args[0] {
					continue
				}
				if found > 0 {
					_, _ = fmt.Fprintln(stdout)
				}
				found++

				if !all {
					_, _ = fmt.Fprintln(stdout, render.Render(e, tier))
					continue
				}
				_, _ = fmt.Fprintf(stdout, "%s\n", path)
				views := render.All(e)
				for _, t := range model.Tiers() {
					_, _ = fmt.Fprintf(stdout, "------%s-----\n%s\n", t, views[t])
				}
			}
			if found == 0 {
				return fmt.Errorf("no entity named %q under %s", args[0], cfg.Root)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierName, "tier", "t", "", "tier to print: name, signature, returns, filename, docstring or full (default every tier)")
	return cmd
}
