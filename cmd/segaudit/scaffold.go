package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Commands whose internals live outside this module. They keep their place
// in the CLI so pipelines can be wired before the implementations land.
var scaffolded = []struct{ name, help string }{
	{"eval", "Run segmentation evaluation and produce report.json."},
	{"gate", "Evaluate gates against a report and return CI-safe exit code."},
	{"drift", "Compute prediction-only drift signals."},
	{"report", "Render static report artifacts."},
}

func scaffoldedCmds(stderr io.Writer) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(scaffolded))
	for _, s := range scaffolded {
		name := s.name
		cmds = append(cmds, &cobra.Command{
			Use:   name,
			Short: s.help,
			Long:  s.help,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, _ = fmt.Fprintf(stderr, "Command '%s' is scaffolded but not implemented yet.\n", name)
				return &exitErr{code: exitError}
			},
		})
	}
	return cmds
}
