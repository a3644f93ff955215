package commands

import (
	"fmt"
	"log/slog"
	"mailman-admin/cmd/mailman-cli/utils"
	"mailman-admin/lib/scrapers/mailman/core"
	"mailman-admin/lib/serviceutil"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(optionCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(moderateCmd)
}

var optionCmd = &cobra.Command{
	Use:   "option <list> <email> <name> <value>",
	Short: "Sets a member option and prints the value Mailman reports back.",
	Long: fmt.Sprintf(
		"Sets a member option through the member's options page.\n\nOptions: %s",
		strings.Join(core.OptionNames(), ", "),
	),
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		value, err := client.SetOption(cmd.Context(), args[0], args[1], args[2], args[3])
		if err != nil {
			serviceutil.Fatal("failed to set option", err)
		}
		fmt.Println(value)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest <list> <email> on|off",
	Short: "Switches digest delivery of a member.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		on, err := utils.ParseSwitch(args[2])
		if err != nil {
			serviceutil.Fatal("invalid digest mode", err)
		}
		client := newClient()

		value, err := client.SetDigest(cmd.Context(), args[0], args[1], on)
		if err != nil {
			serviceutil.Fatal("failed to set digest mode", err)
		}
		fmt.Println(value)
	},
}

var moderateCmd = &cobra.Command{
	Use:   "moderate <list> [email] on|off",
	Short: "Sets the moderation bit of one member, or of every member when no email is given.",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		on, err := utils.ParseSwitch(args[len(args)-1])
		if err != nil {
			serviceutil.Fatal("invalid moderation mode", err)
		}
		client := newClient()

		list := args[0]
		if len(args) == 2 {
			err = client.ModAll(cmd.Context(), list, on)
			if err != nil {
				serviceutil.Fatal("failed to moderate list", err)
			}
			slog.Info("set moderation of every member", "list", list, "on", on)
			return
		}

		err = client.ModSubscriber(cmd.Context(), list, args[1], on)
		if err != nil {
			serviceutil.Fatal("failed to moderate member", err)
		}
		slog.Info("set moderation", "list", list, "email", args[1], "on", on)
	},
}
