package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/config"
	"github.com/adhyaya/adhyaya/internal/logger"
)

var (
	vp  = config.NewViper()
	cfg *config.Config
	lg  = logger.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "adhyaya",
	Short: "Spaced revision for what you have learned",
	Long: `Adhyaya schedules revisions of each unit you learn at day 1, 3, 7 and 30,
and checks recall with short quizzes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(vp, file)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		lg = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		lg.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute runs the command tree with ctx, which is cancelled on SIGINT.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ADHYAYA_DB)")
	pf.String("learner", "default", "Learner whose revisions to use")
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-mode", "dev", "Log mode: dev, prod or quiet")
	pf.String("api-url", "", "Use a remote adhyaya server instead of the local database")

	_ = vp.BindPFlag("db", pf.Lookup("db"))
	_ = vp.BindPFlag("learner", pf.Lookup("learner"))
	_ = vp.BindPFlag("log_mode", pf.Lookup("log-mode"))
	_ = vp.BindPFlag("api_url", pf.Lookup("api-url"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
