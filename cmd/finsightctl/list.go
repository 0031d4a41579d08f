package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Long:  `List every analysis session in the registry, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, _ := openState()

		sessions := reg.List()
		if len(sessions) == 0 {
			fmt.Println(headerStyle.Render("No sessions found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tMessages\tCharts\tCreated")

		for _, sess := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				idStyle.Render(sess.ID),
				sess.Title,
				countStyle.Render(strconv.Itoa(len(sess.Messages))),
				countStyle.Render(strconv.Itoa(len(sess.InitialCharts))),
				dateStyle.Render(formatCreated(sess.CreatedAt)),
			)
		}

		return w.Flush()
	},
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	t = t.Local()
	switch age := time.Since(t); {
	case age < 24*time.Hour:
		return t.Format("Today 15:04")
	case age < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
