package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/harrisonrobin/todoist-organizer/pkg/config"
	"github.com/spf13/cobra"
)

// errNoCommand makes a bare invocation exit non-zero after printing usage.
var errNoCommand = errors.New("no command given")

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func (o *rootOptions) configOptions() config.Options {
	return config.Options{ConfigPath: o.configPath, EnvFile: o.envFile}
}

// NewRootCmd builds the command tree. Commands run against deps, which
// production code leaves nil so real clients are built from the config.
func NewRootCmd(deps *Deps) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "todoist-organizer",
		Short: "Automate Todoist task management",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return err
			}
			return errNoCommand
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default ~/.config/todoist-organizer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dot-env file with API credentials (default ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(bumpCmd(opts, deps))
	rootCmd.AddCommand(labelCmd(opts, deps))

	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return run(NewRootCmd(nil), args, stdout, stderr)
}

func run(rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoCommand) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
