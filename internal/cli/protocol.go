package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

var protocolFiles []string

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Manage the emergency protocols feed",
}

var protocolPostCmd = &cobra.Command{
	Use:   "post <description>",
	Short: "Post an emergency protocol, tagging crew with @Name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		if len(protocolFiles) > model.MaxAttachmentCount {
			return fmt.Errorf("at most %d attachments per protocol", model.MaxAttachmentCount)
		}
		files := make([]store.FileInput, 0, len(protocolFiles))
		for _, path := range protocolFiles {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			if len(content) > model.MaxAttachmentSize {
				return fmt.Errorf("%s exceeds the %d KiB attachment limit", path, model.MaxAttachmentSize/1024)
			}
			mimeType := mime.TypeByExtension(filepath.Ext(path))
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
			files = append(files, store.FileInput{
				Name:     filepath.Base(path),
				MimeType: mimeType,
				Content:  content,
			})
		}

		cfg := app.Settings.Get()
		description := args[0]
		taggedIDs := store.DetectMentions(description, cfg.TeamMembers)
		taggedNames := make([]string, 0, len(taggedIDs))
		for _, id := range taggedIDs {
			taggedNames = append(taggedNames, model.MemberName(cfg.TeamMembers, id))
		}

		app.Store.Dispatch(store.AddProtocol{
			Description:   description,
			AuthorID:      app.Session.Current(),
			TaggedUserIDs: taggedIDs,
			Files:         files,
		})

		fileNames := make([]string, 0, len(files))
		for _, f := range files {
			fileNames = append(fileNames, f.Name)
		}
		fmt.Printf("Protocol posted (%d attachment(s), %d crew tagged)\n", len(files), len(taggedIDs))

		app.Notifier.Send(discord.EventProtocolAdded, discord.Payload{
			Description: description,
			TaggedNames: taggedNames,
			FileNames:   fileNames,
			FileCount:   len(files),
		})
		return nil
	},
}

var protocolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posted protocols",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		cfg := app.Settings.Get()
		if len(snapshot.Protocols) == 0 {
			fmt.Println("No protocols posted.")
			return nil
		}
		for _, p := range snapshot.Protocols {
			posted := time.UnixMilli(p.CreatedAt).Format("2006-01-02 15:04")
			author := model.MemberName(cfg.TeamMembers, p.AuthorID)
			fmt.Printf("%s  %s  by %s  %d file(s)\n", shortID(p.ID), posted, author, len(p.FileIDs))
			if p.Description != "" {
				fmt.Printf("    %s\n", p.Description)
			}
		}
		return nil
	},
}

var protocolDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a protocol and its attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer app.Close()

		snapshot := app.Store.Snapshot()
		var target string
		for _, p := range snapshot.Protocols {
			if p.ID == args[0] || (len(args[0]) >= 4 && strings.HasPrefix(p.ID, args[0])) {
				target = p.ID
				break
			}
		}
		if target == "" {
			return fmt.Errorf("no protocol matches %q", args[0])
		}

		app.Store.Dispatch(store.DeleteProtocol{ID: target})
		fmt.Println("Protocol deleted")
		return nil
	},
}

func init() {
	protocolPostCmd.Flags().StringArrayVarP(&protocolFiles, "file", "f", nil, "Attach a file (repeatable, max 3)")
	protocolCmd.AddCommand(protocolPostCmd)
	protocolCmd.AddCommand(protocolListCmd)
	protocolCmd.AddCommand(protocolDeleteCmd)
}
