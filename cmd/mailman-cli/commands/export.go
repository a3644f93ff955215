package commands

import (
	"log/slog"
	"mailman-admin/cmd/mailman-cli/utils"
	"mailman-admin/lib/rosterstore"
	"mailman-admin/lib/serviceutil"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var exportDb *string

func init() {
	exportDb = exportCmd.Flags().String("db", "rosters.db", "The sqlite database to write the rosters to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path/to/rosters.db>] [lists...]",
	Short: "Exports the members of the given lists (or every configured list) to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()
		client := createClient(cfg)

		lists := args
		if len(lists) == 0 {
			lists = cfg.ListNames()
		}

		store, err := rosterstore.Open(ctx, *exportDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer store.Close()

		t := utils.NewTable()
		t.AppendHeader(table.Row{"List", "Version", "Members"})
		for _, list := range lists {
			members, err := client.Members(ctx, list)
			if err != nil {
				serviceutil.Fatal("failed to fetch members", err)
			}
			version, err := client.Version(ctx, list)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch version", "list", list, "err", err)
			}

			err = store.Push(ctx, rosterstore.Snapshot{
				Time:      time.Now(),
				List:      list,
				Version:   version,
				Addresses: members.Addresses,
				Names:     members.Names,
			})
			if err != nil {
				serviceutil.Fatal("failed to store roster", err)
			}
			t.AppendRow(table.Row{list, version, len(members.Addresses)})
		}
		t.Render()
	},
}
