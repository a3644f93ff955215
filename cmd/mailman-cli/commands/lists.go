package commands

import (
	"fmt"
	"mailman-admin/cmd/mailman-cli/utils"
	"mailman-admin/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(versionCmd)
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Prints the lists on the admin overview page.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		lists, err := client.Lists(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch lists", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"List", "Name", "Description"})
		for _, l := range lists {
			t.AppendRow(table.Row{l.Path, l.Name, l.Description})
		}
		t.Render()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version <list>",
	Short: "Prints the Mailman version serving a list.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		version, err := client.Version(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch version", err)
		}
		fmt.Println(version)
	},
}
