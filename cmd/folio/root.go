package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/folio/internal/app"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	apiURL     string
	logFile    string
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		EnvFile:    g.envFile,
		APIURL:     g.apiURL,
		LogFile:    g.logFile,
	}
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "config file (default ~/.config/folio/config.toml)")
	fs.StringVar(&g.envFile, "env-file", "", "dotenv file to load (default ./.env)")
	fs.StringVar(&g.apiURL, "api-url", "", "library service base URL")
	fs.StringVar(&g.logFile, "log-file", "", "log file path")
}

// withEnv bootstraps the application for a single command.
func (g *globalFlags) withEnv(fn func(env *app.Env) error) error {
	env, err := app.Bootstrap(g.options())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Terminal client for the library service",
		Long:          "folio browses the catalog, manages borrowings and, for librarians, edits books and copies.\nRun without a subcommand to start the interactive interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	flags.register(root.PersistentFlags())

	root.AddCommand(
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newBooksCmd(flags),
		newBorrowingsCmd(flags),
		newLogsCmd(flags),
	)
	return root
}
