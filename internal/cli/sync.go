package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/controlcentre/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect or force document-store synchronization",
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync configuration and local snapshot info",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		taskTotal := 0
		for _, p := range snapshot.Projects {
			taskTotal += store.CountTasks(snapshot, p.ID).Total
		}

		fmt.Printf("Server:     %s\n", app.Config.ServerURL)
		fmt.Printf("Snapshot:   %s\n", app.Local.Path())
		fmt.Printf("Boards:     %d\n", len(snapshot.Projects))
		fmt.Printf("Tasks:      %d\n", taskTotal)
		fmt.Printf("Protocols:  %d\n", len(snapshot.Protocols))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Push the current snapshot to the document server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		if err := app.Remote.Save(context.Background(), snapshot); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		fmt.Println("Snapshot pushed")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
}
