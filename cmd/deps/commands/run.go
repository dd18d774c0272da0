package commands

import (
	"context"

	"github.com/GrinlexGH/deps/internal/app"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const jobGroupsHelp = `Job groups:
  --cmake-lib  SRC INSTALL BUILD_FOLDER "CMAKE ARGS"
  --header-lib SRC INSTALL PATTERN [PATTERN...]
  --manual-lib SRC INSTALL PATTERN DEST [EXCLUDE PATTERN]... [PATTERN DEST ...]

Without job groups and --jobs-file, ./deps.yaml is used when present.`

type runFunc func(ctx context.Context, req app.Request) (domain.RunReport, error)

// newJobCmd builds a command that accepts job groups and global flags in any order.
// Job groups carry positional values that may look like flags, so flag parsing is
// done by hand after the groups have been split out.
func (c *CLI) newJobCmd(use, short string, run runFunc) *cobra.Command {
	var opts globalOptions
	fs := newGlobalFlagSet(use, &opts)

	cmd := &cobra.Command{
		Use:                use + " [job groups] [flags]",
		Short:              short,
		Long:               short + "\n\n" + jobGroupsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, rest, err := splitJobArgs(args)
			if err != nil {
				return err
			}
			if err := parseFlags(fs, rest); err != nil {
				return err
			}
			if opts.help {
				return cmd.Help()
			}

			req, err := buildRequest(fs, &opts, jobs, c.lookupEnv)
			if err != nil {
				return err
			}
			req.RunID = uuid.NewString()
			c.configureLogger(&opts, req.RunID)

			_, err = run(cmd.Context(), req)
			return err
		},
	}
	cmd.Flags().AddFlagSet(fs)
	return cmd
}

func (c *CLI) newInstallCmd() *cobra.Command {
	return c.newJobCmd("install", "Build and install every declared job",
		func(ctx context.Context, req app.Request) (domain.RunReport, error) {
			return c.app.Install(ctx, req)
		})
}

func (c *CLI) newPlanCmd() *cobra.Command {
	return c.newJobCmd("plan", "Show what install would do without touching anything",
		func(ctx context.Context, req app.Request) (domain.RunReport, error) {
			return c.app.Plan(ctx, req)
		})
}

func (c *CLI) newVerifyCmd() *cobra.Command {
	return c.newJobCmd("verify", "Fail if the install tree is out of date",
		func(ctx context.Context, req app.Request) (domain.RunReport, error) {
			return c.app.Verify(ctx, req)
		})
}
