package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	guestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the dashboard widgets",
	Long:  `List all widgets on the dashboard with their size and data status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		widgets := ctrl.Store.Widgets()

		owner := ctrl.Session.User.Name
		if ctrl.Session.Guest {
			owner = guestStyle.Render(owner + " (guest)")
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Faraday Dashboard — %s", owner)))
		fmt.Println()

		if len(widgets) == 0 {
			fmt.Println("No widgets yet. Add one with: faraday-dashboard add <type>")
			fmt.Printf("Available types: %s\n", widgetTypeList())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tDATA\tID")
		for _, widget := range widgets {
			data := "—"
			switch widget.Payload.Kind {
			case internal.PayloadText:
				data = "text"
			case internal.PayloadStructured:
				data = "structured"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				titleStyle.Render(widget.Name),
				widget.Type,
				sizeStyle.Render(string(widget.Size)),
				data,
				idStyle.Render(widget.ID),
			)
		}
		return w.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a widget to the dashboard",
	Long: fmt.Sprintf(`Add a widget by type. Each type can appear at most once.

Available types: %s`, widgetTypeList()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		widgetType := internal.WidgetType(args[0])
		if !internal.IsKnownWidgetType(widgetType) {
			return fmt.Errorf("unknown widget type %q (available: %s)", args[0], widgetTypeList())
		}

		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		widget, err := ctrl.Store.Add(cmd.Context(), widgetType)
		if err == internal.ErrWidgetExists {
			fmt.Println(noticeStyle.Render(fmt.Sprintf("A %s widget is already on your dashboard.", widgetType)))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", titleStyle.Render(widget.Name), idStyle.Render(widget.ID))
		return nil
	},
}

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <id-or-type>",
	Short: "Remove a widget from the dashboard",
	Long: `Remove a widget by id or by type.

The widget disappears from local state immediately; for server-backed
widgets a best-effort remote delete follows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		widget, ok := resolveWidget(ctrl, args[0])
		if !ok {
			return fmt.Errorf("no widget matches %q", args[0])
		}
		if !removeForce && !confirm(fmt.Sprintf("Remove %s?", widget.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := ctrl.Store.Remove(cmd.Context(), widget.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", widget.Name)
		return nil
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <id-or-type>",
	Short: "Cycle a widget through the size steps",
	Long:  `Advance a widget one step through small → medium → large → extra-large → small.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		widget, ok := resolveWidget(ctrl, args[0])
		if !ok {
			return fmt.Errorf("no widget matches %q", args[0])
		}
		size, err := ctrl.Store.Resize(cmd.Context(), widget.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", widget.Name, sizeStyle.Render(string(size)))
		return nil
	},
}

// resolveWidget finds a widget by exact id first, then by type
func resolveWidget(ctrl *internal.Controller, key string) (*internal.Widget, bool) {
	if w, ok := ctrl.Store.Get(key); ok {
		return w, true
	}
	return ctrl.Store.GetByType(internal.WidgetType(key))
}

func widgetTypeList() string {
	list := ""
	for i, t := range internal.KnownWidgetTypes() {
		if i > 0 {
			list += ", "
		}
		list += string(t)
	}
	return list
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(resizeCmd)
}
