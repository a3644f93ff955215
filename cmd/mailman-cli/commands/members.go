package commands

import (
	"fmt"
	"mailman-admin/cmd/mailman-cli/utils"
	"mailman-admin/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(subscribedCmd)
	rootCmd.AddCommand(rosterCmd)
}

var memberCmd = &cobra.Command{
	Use:   "member <list> <query>",
	Short: "Searches the members of a list, query is a regular expression.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		members, err := client.Member(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to search members", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{
			"Address", "Name", "Mod", "Hide", "No mail", "Ack",
			"Not me too", "No dupes", "Digest", "Plain", "Language",
		})
		for _, m := range members {
			t.AppendRow(table.Row{
				m.Address, m.RealName, m.Moderated, m.Hidden, m.NoMail, m.Acknowledge,
				m.NotMeToo, m.NoDuplicates, m.Digest, m.PlainText, m.Language,
			})
		}
		t.Render()
	},
}

var membersCmd = &cobra.Command{
	Use:   "members <list>",
	Short: "Prints every member of a list.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		members, err := client.Members(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch members", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Address", "Name"})
		for i, address := range members.Addresses {
			t.AppendRow(table.Row{address, members.Names[i]})
		}
		t.AppendFooter(table.Row{"Total", len(members.Addresses)})
		t.Render()
	},
}

var subscribedCmd = &cobra.Command{
	Use:   "subscribed <list> <email>",
	Short: "Prints whether an address is a member of a list.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		subscribed, err := client.IsSubscribed(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to search members", err)
		}
		fmt.Println(subscribed)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster <list>",
	Short: "Prints the addresses on the roster page of a list.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		roster, err := client.Roster(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch roster", err)
		}
		for _, address := range roster {
			fmt.Println(address)
		}
	},
}
