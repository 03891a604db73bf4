package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every revision of the learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.tracker == nil {
			return errRemoteOnly
		}

		if !yes {
			fmt.Printf("Delete all revisions of %q? [y/N] ", cfg.Learner)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(line), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		n, err := e.tracker.Reset(ctx, cfg.Learner)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Printf("Deleted %d revisions.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
