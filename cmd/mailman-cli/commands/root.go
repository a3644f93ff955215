package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	dumpDir    *string
)

var rootCmd = &cobra.Command{
	Use:   "mailman-cli",
	Short: "mailman-cli drives the Mailman 2.1 web admin interface of your lists.",
	// reported by ExecuteContext
	SilenceErrors: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "mailman.json5", "The config file holding the base url and list passwords.")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "A directory to write every http exchange to.")
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
