package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the revision API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.APIURL != "" {
			return errRemoteOnly
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		e, err := openLocal()
		if err != nil {
			return err
		}
		defer e.Close()

		srv := server.New(e.tracker, lg, server.Options{
			RateLimit:       cfg.Server.RateLimit,
			RateBurst:       cfg.Server.RateBurst,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
		if err := srv.Run(cmd.Context(), cfg.Server.Addr); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
