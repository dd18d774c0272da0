// Package commands implements the CLI commands for the deps installer.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GrinlexGH/deps/internal/app"
	"github.com/GrinlexGH/deps/internal/build"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for deps.
type CLI struct {
	app       Application
	logger    ports.Logger
	lookupEnv func(string) (string, bool)
	rootCmd   *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Install(ctx context.Context, req app.Request) (domain.RunReport, error)
	Plan(ctx context.Context, req app.Request) (domain.RunReport, error)
	Verify(ctx context.Context, req app.Request) (domain.RunReport, error)
	Clean(ctx context.Context, req app.Request, opts app.CleanOptions) error
}

// configurableLogger is implemented by the logger adapter.
type configurableLogger interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
	With(args ...any)
}

// New creates a new CLI instance with the given app. The logger may be nil.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "deps",
		Short:         "Build and install third-party dependencies from a local sources tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:       a,
		logger:    logger,
		lookupEnv: os.LookupEnv,
		rootCmd:   rootCmd,
	}

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetEnv replaces the environment lookup. Used for testing.
func (c *CLI) SetEnv(lookup func(string) (string, bool)) {
	c.lookupEnv = lookup
}

func (c *CLI) configureLogger(o *globalOptions, runID string) {
	l, ok := c.logger.(configurableLogger)
	if !ok {
		return
	}
	l.SetVerbose(o.verbose)
	l.SetJSON(o.logJSON)
	l.With("run_id", runID)
}
