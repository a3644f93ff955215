package commands

import (
	"log/slog"
	"mailman-admin/lib/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

var subscribeInvite *bool

func init() {
	subscribeInvite = subscribeCmd.Flags().Bool("invite", false, "Send an invitation instead of subscribing directly.")
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(unsubscribeCmd)
	rootCmd.AddCommand(changeCmd)
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <list> <email> [--invite]",
	Short: "Subscribes (or invites) an address to a list.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		ok, err := client.Subscribe(cmd.Context(), args[0], args[1], *subscribeInvite)
		if err != nil {
			serviceutil.Fatal("failed to subscribe", err)
		}
		if !ok {
			slog.Error("mailman did not confirm the subscription", "list", args[0], "email", args[1])
			os.Exit(1)
		}
		slog.Info("subscribed", "list", args[0], "email", args[1], "invite", *subscribeInvite)
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <list> <email>",
	Short: "Removes an address from a list.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		err := client.Unsubscribe(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to unsubscribe", err)
		}
		slog.Info("unsubscribed", "list", args[0], "email", args[1])
	},
}

var changeCmd = &cobra.Command{
	Use:   "change <list> <from> <to>",
	Short: "Changes the address of a member.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		err := client.Change(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			serviceutil.Fatal("failed to change address", err)
		}
		slog.Info("changed address", "list", args[0], "from", args[1], "to", args[2])
	},
}
