package cli

import (
	"context"

	"github.com/shandysiswandi/healthmon/internal/app"
	"github.com/spf13/cobra"
)

func serveCmd(flags *serveFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the frontend bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	application, err := app.New(app.Options{
		ConfigPath: flags.config,
		Overrides:  overrides(cmd, flags),
	})
	if err != nil {
		return err
	}

	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully

	return nil
}

// overrides maps explicitly set flags onto config keys.
func overrides(cmd *cobra.Command, flags *serveFlags) map[string]any {
	out := map[string]any{}

	if cmd.Flags().Changed("addr") {
		out["server.address.http"] = flags.addr
	}
	if cmd.Flags().Changed("static-dir") {
		out["modules.frontend.static_dir"] = flags.staticDir
	}
	if cmd.Flags().Changed("debug") {
		out["server.debug"] = flags.debug
	}

	return out
}
