package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/store"
)

var boardRepo string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage project boards",
}

var boardAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a board",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("board name is required")
		}

		app.Store.Dispatch(store.AddProject{Name: name, GithubRepo: boardRepo})

		snapshot := app.Store.Snapshot()
		created := snapshot.Projects[len(snapshot.Projects)-1]
		fmt.Printf("Board %s created (%s)\n", created.Name, shortID(created.ID))

		app.Notifier.Send(discord.EventProjectCreated, discord.Payload{
			Name:        created.Name,
			ProjectRepo: created.GithubRepo,
		})
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards with task counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		if len(snapshot.Projects) == 0 {
			fmt.Println("No boards yet. Create one with 'controlcentre board add <name>'.")
			return nil
		}
		for _, p := range snapshot.Projects {
			counts := store.CountTasks(snapshot, p.ID)
			line := fmt.Sprintf("%s  %s  %d/%d tasks", shortID(p.ID), p.Name, counts.Done, counts.Total)
			if p.GithubRepo != "" {
				line += "  [" + p.GithubRepo + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var boardRenameCmd = &cobra.Command{
	Use:   "rename <board> <new name>",
	Short: "Rename a board",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		project, err := findProject(snapshot, args[0])
		if err != nil {
			return err
		}
		newName := strings.TrimSpace(strings.Join(args[1:], " "))
		app.Store.Dispatch(store.EditProject{ID: project.ID, Name: &newName})
		fmt.Printf("Board %s renamed to %s\n", project.Name, newName)

		app.Notifier.Send(discord.EventProjectEdited, discord.Payload{
			Name:        newName,
			OldName:     project.Name,
			ProjectRepo: project.GithubRepo,
		})
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <board>",
	Short: "Delete a board and all its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		project, err := findProject(snapshot, args[0])
		if err != nil {
			return err
		}
		app.Store.Dispatch(store.DeleteProject{ID: project.ID})
		fmt.Printf("Board %s deleted\n", project.Name)

		app.Notifier.Send(discord.EventProjectDeleted, discord.Payload{
			Name:        project.Name,
			ProjectRepo: project.GithubRepo,
		})
		return nil
	},
}

func init() {
	boardAddCmd.Flags().StringVar(&boardRepo, "repo", "", "GitHub repository (owner/repo or URL) for commit stamps")
	boardCmd.AddCommand(boardAddCmd)
	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardRenameCmd)
	boardCmd.AddCommand(boardDeleteCmd)
}
