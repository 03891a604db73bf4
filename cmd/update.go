package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/config"
	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Update adhyaya to the latest or a given release",
	Long: `Update replaces this binary with a release from update.owner/update.repo
(default adhyaya/adhyaya). Set update.channel to "prerelease" to follow release
candidates as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := updateChecker(cfg.Update, lg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Update.Timeout)
		defer cancel()

		if checkOnly, _ := cmd.Flags().GetBool("check"); checkOnly {
			return printUpdateCheck(ctx, cmd.OutOrStdout(), checker, version)
		}

		input := &selfupdate.UpdateInput{CurrentVersion: version}
		if len(args) == 1 {
			input.TargetVersion = args[0]
		}
		out := cmd.OutOrStdout()
		err = checker.Update(ctx, input, func(p selfupdate.UpdateProgress) {
			fmt.Fprintln(out, p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Fprintln(out, "Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Fprintln(out, "Already running the latest version.")
			return nil
		case errors.Is(err, fs.ErrPermission):
			return fmt.Errorf("%w\n\nTry running: sudo adhyaya update", err)
		}
		return err
	},
}

// updateChecker builds a release checker for the configured repository and
// channel.
func updateChecker(uc config.UpdateConfig, log *logger.Logger, opts ...selfupdate.Option) (*selfupdate.Checker, error) {
	ch, err := selfupdate.ParseChannel(uc.Channel)
	if err != nil {
		return nil, err
	}
	base := []selfupdate.Option{
		selfupdate.WithRepository(uc.Owner, uc.Repo),
		selfupdate.WithChannel(ch),
		selfupdate.WithTimeout(uc.Timeout),
		selfupdate.WithLogger(log.With("component", "selfupdate")),
	}
	return selfupdate.NewChecker(append(base, opts...)...), nil
}

func printUpdateCheck(ctx context.Context, w io.Writer, checker *selfupdate.Checker, current string) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: current})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, res.Summary())
	return err
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether an update is available")
	updateCmd.Flags().String("channel", "stable", "Release channel: stable or prerelease")
	_ = vp.BindPFlag("update.channel", updateCmd.Flags().Lookup("channel"))
}
