package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	chatMessage string

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the Faraday assistant",
	Long: `Start an interactive conversation with the Faraday assistant.

Assistant replies can carry widget data; when they do, the matching widgets
update (and appear if they weren't on the dashboard yet). Works signed in
or as a guest.

Inside the session:
  /widgets        show the dashboard
  /logs           show recent diagnostic entries
  /clear          clear the transcript (asks for confirmation)
  /quit           leave (Ctrl-D also works)

Use --message for a single exchange without the interactive session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if chatMessage != "" {
			return sendOne(cmd.Context(), ctrl, chatMessage)
		}
		return runInteractive(cmd, ctrl)
	},
}

func sendOne(ctx context.Context, ctrl *internal.Controller, text string) error {
	reply, err := ctrl.Relay.SendMessage(ctx, text)
	if err == internal.ErrEmptyMessage {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(reply.Content)
	return nil
}

func runInteractive(cmd *cobra.Command, ctrl *internal.Controller) error {
	fmt.Println(headerStyle.Render("Faraday Assistant"))
	fmt.Printf("Signed in as %s. %s\n\n", ctrl.Session.User.Name,
		hintStyle.Render("Type /quit to leave."))

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(userStyle.Render("you> "))
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "/") {
			if done := handleChatCommand(ctrl, line); done {
				return nil
			}
			continue
		}

		reply, err := ctrl.Relay.SendMessage(cmd.Context(), line)
		if err == internal.ErrEmptyMessage {
			continue
		}
		if err == internal.ErrRelayBusy {
			fmt.Println(hintStyle.Render("Still waiting on the previous message."))
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", assistantStyle.Render("faraday>"), reply.Content)
	}
}

// handleChatCommand runs a slash command; it reports whether to exit
func handleChatCommand(ctrl *internal.Controller, line string) bool {
	switch line {
	case "/quit", "/exit":
		return true
	case "/widgets":
		widgets := ctrl.Store.Widgets()
		if len(widgets) == 0 {
			fmt.Println("No widgets on the dashboard.")
			return false
		}
		for _, w := range widgets {
			fmt.Printf("  %s (%s, %s)\n", w.Name, w.Type, w.Size)
		}
	case "/logs":
		entries := internal.RecentLogs()
		if len(entries) == 0 {
			fmt.Println("No diagnostic entries.")
			return false
		}
		for _, entry := range entries {
			fmt.Printf("  %s [%s] %s\n", entry.Time.Format("15:04:05"), entry.Level, entry.Message)
		}
	case "/clear":
		if confirm("Clear the transcript?") {
			ctrl.Relay.Transcript().Clear()
			fmt.Println("Transcript cleared.")
		}
	default:
		fmt.Println(hintStyle.Render("Commands: /widgets /logs /clear /quit"))
	}
	return false
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send one message and print the reply")
	rootCmd.AddCommand(chatCmd)
}
