package cli

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/controlcentre/internal/auth"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/settings"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in as a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		cfg := app.Settings.Get()
		var member model.TeamMember
		found := false
		for _, m := range cfg.TeamMembers {
			if strings.EqualFold(m.Username, args[0]) {
				member = m
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown member %q; add them with 'controlcentre member add'", args[0])
		}

		fmt.Print("Password: ")
		passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		if !auth.VerifyPassword(string(passwordBytes), member.PasswordHash) {
			return fmt.Errorf("invalid credentials")
		}

		if err := app.Session.Set(member.ID); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		if err := app.Settings.Update(func(s *settings.Settings) { s.CurrentUserID = member.ID }); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}

		fmt.Printf("Logged in as %s\n", member.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Session.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		_ = app.Settings.Update(func(s *settings.Settings) { s.CurrentUserID = "" })
		fmt.Println("Logged out")
		return nil
	},
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage the team roster",
}

var memberAddCmd = &cobra.Command{
	Use:   "add <name> <username>",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		name := strings.TrimSpace(args[0])
		username := strings.TrimSpace(args[1])
		if name == "" || username == "" {
			return fmt.Errorf("name and username are required")
		}

		fmt.Print("Password: ")
		passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		fmt.Print("Confirm password: ")
		confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if string(passwordBytes) != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
		if len(passwordBytes) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		hash, err := auth.HashPassword(string(passwordBytes))
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		member := model.TeamMember{
			ID:           uuid.NewString(),
			Name:         name,
			Username:     username,
			PasswordHash: hash,
		}
		err = app.Settings.Update(func(s *settings.Settings) {
			s.TeamMembers = append(s.TeamMembers, member)
		})
		if err != nil {
			return fmt.Errorf("failed to save roster: %w", err)
		}

		fmt.Printf("Member %s (@%s) added\n", name, username)
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		cfg := app.Settings.Get()
		if len(cfg.TeamMembers) == 0 {
			fmt.Println("No team members. Add one with 'controlcentre member add'.")
			return nil
		}
		active := app.Session.Current()
		for _, m := range cfg.TeamMembers {
			marker := " "
			if m.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %s  %s (@%s)\n", marker, shortID(m.ID), m.Name, m.Username)
		}
		return nil
	},
}

func init() {
	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberListCmd)
}
