package commands

import (
	"github.com/GrinlexGH/deps/internal/app"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	var opts globalOptions
	fs := newGlobalFlagSet("clean", &opts)
	all := fs.BoolP("all", "a", false, "Also remove the install directory")

	cmd := &cobra.Command{
		Use:                "clean",
		Short:              "Remove the cache and, with --all, the install tree",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseFlags(fs, args); err != nil {
				return err
			}
			if opts.help {
				return cmd.Help()
			}

			// Clean never loads jobs; a jobs file only contributes settings.
			req, err := buildRequest(fs, &opts, nil, c.lookupEnv)
			if err != nil {
				return err
			}
			req.RunID = uuid.NewString()
			c.configureLogger(&opts, req.RunID)

			return c.app.Clean(cmd.Context(), req, app.CleanOptions{All: *all})
		},
	}
	cmd.Flags().AddFlagSet(fs)
	return cmd
}
