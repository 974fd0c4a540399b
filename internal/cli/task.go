package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

var taskDescription string

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks on a board",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <board> <title>",
	Short: "Add a task to a board",
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
		title := strings.TrimSpace(strings.Join(args[1:], " "))
		if title == "" {
			return fmt.Errorf("task title is required")
		}

		app.Store.Dispatch(store.AddTask{
			ProjectID:   project.ID,
			Title:       title,
			Description: taskDescription,
		})

		next := app.Store.Snapshot()
		list := next.Tasks[project.ID]
		created := list[len(list)-1]
		fmt.Printf("Task %s added to %s (%s)\n", created.Title, project.Name, shortID(created.ID))

		app.Notifier.Send(discord.EventTaskAdded, discord.Payload{
			Title:       created.Title,
			Description: created.Description,
			ProjectName: project.Name,
			ProjectRepo: project.GithubRepo,
			Status:      created.Status,
		})
		return nil
	},
}

var (
	editTitle       string
	editDescription string
)

var taskEditCmd = &cobra.Command{
	Use:   "edit <board> <task>",
	Short: "Edit a task's title or description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
			return fmt.Errorf("nothing to edit; pass --title and/or --description")
		}

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
		task, err := findTask(snapshot, project.ID, args[1])
		if err != nil {
			return err
		}

		edit := store.EditTask{ProjectID: project.ID, TaskID: task.ID}
		if cmd.Flags().Changed("title") {
			edit.Title = &editTitle
		}
		if cmd.Flags().Changed("description") {
			edit.Description = &editDescription
		}
		app.Store.Dispatch(edit)

		title := task.Title
		if edit.Title != nil {
			title = *edit.Title
		}
		fmt.Printf("Task %s updated\n", title)

		app.Notifier.Send(discord.EventTaskEdited, discord.Payload{
			Title:       title,
			ProjectName: project.Name,
			ProjectRepo: project.GithubRepo,
			Status:      task.Status,
			Details:     "Details updated.",
		})
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <board> <task> <pending|in-progress|done>",
	Short: "Move a task through the workflow",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := args[2]
		if !model.ValidStatus(status) {
			return fmt.Errorf("invalid status %q (want pending, in-progress, or done)", status)
		}
		return setTaskStatus(args[0], args[1], status)
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <board> <task>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(args[0], args[1], model.StatusDone)
	},
}

func setTaskStatus(boardRef, taskRef, status string) error {
	app, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	snapshot := app.Store.Snapshot()
	project, err := findProject(snapshot, boardRef)
	if err != nil {
		return err
	}
	task, err := findTask(snapshot, project.ID, taskRef)
	if err != nil {
		return err
	}

	app.Store.Dispatch(store.EditTask{
		ProjectID: project.ID,
		TaskID:    task.ID,
		Status:    &status,
	})
	fmt.Printf("Task %s is now %s\n", task.Title, status)

	app.Notifier.Send(discord.EventTaskEdited, discord.Payload{
		Title:        task.Title,
		ProjectName:  project.Name,
		ProjectRepo:  project.GithubRepo,
		StatusChange: task.Status != status,
		OldStatus:    task.Status,
		NewStatus:    status,
	})
	return nil
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <board> <task>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(2),
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
		task, err := findTask(snapshot, project.ID, args[1])
		if err != nil {
			return err
		}

		app.Store.Dispatch(store.DeleteTask{ProjectID: project.ID, TaskID: task.ID})
		fmt.Printf("Task %s deleted\n", task.Title)

		app.Notifier.Send(discord.EventTaskDeleted, discord.Payload{
			Title:       task.Title,
			ProjectName: project.Name,
			ProjectRepo: project.GithubRepo,
		})
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list <board>",
	Short: "List a board's tasks by column",
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

		columns := store.TasksByStatus(snapshot, project.ID)
		for _, status := range model.Statuses {
			fmt.Printf("%s:\n", strings.ToUpper(status))
			if len(columns[status]) == 0 {
				fmt.Println("  (none)")
				continue
			}
			for _, t := range columns[status] {
				fmt.Printf("  %s  %s\n", shortID(t.ID), t.Title)
			}
		}
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	taskEditCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}
