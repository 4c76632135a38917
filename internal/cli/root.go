package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type serveFlags struct {
	config    string
	addr      string
	staticDir string
	debug     bool
}

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:          "healthmon",
		Short:        "healthmon serves the health monitor API and its frontend bundle",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	bindFlags(cmd, flags)

	cmd.AddCommand(serveCmd(flags), versionCmd())
	return cmd
}

func bindFlags(cmd *cobra.Command, flags *serveFlags) {
	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default ./config/config.yaml when present)")
	cmd.PersistentFlags().StringVar(&flags.addr, "addr", "", "listen address, overrides server.address.http")
	cmd.PersistentFlags().StringVar(&flags.staticDir, "static-dir", "", "frontend build directory, overrides modules.frontend.static_dir")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", true, "verbose logging and error details")
}
