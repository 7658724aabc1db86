package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/models"
)

var (
	listAll bool

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	finishedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:       "list [projects|todos]",
	Short:     "List upcoming projects and todos",
	Long:      `List the calendar contents, soonest first. Without an argument both collections are shown; recurring templates are marked with their frequency tag.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"projects", "todos"},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := NewLogger()
		st, err := GetStore(logger)
		if err != nil {
			return fmt.Errorf("could not initialize the data store: %w", err)
		}
		defer func() { _ = st.Close() }()

		today := dateutil.Today(time.Now())
		which := ""
		if len(args) > 0 {
			which = args[0]
		}

		if which == "" || which == "projects" {
			projects, err := st.LoadProjects()
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			printProjects(projects, today)
		}
		if which == "" || which == "todos" {
			todos, err := st.LoadTodos()
			if err != nil {
				return fmt.Errorf("failed to load todos: %w", err)
			}
			printTodos(todos, today)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include finished items")
}

func printProjects(projects []models.Project, today string) {
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		return strings.Compare(a.WebAppPeriodStart, b.WebAppPeriodStart)
	})

	fmt.Println(headerStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))))
	shown := 0
	for _, p := range projects {
		if p.Status == models.ProjectFinished && !listAll {
			continue
		}
		shown++
		line := fmt.Sprintf("  %s  %s", dateStyle.Render(p.WebAppPeriodStart), p.Title)
		if p.IsTemplate() {
			line += "  " + tagStyle.Render("↻ "+string(p.Frequency))
		}
		if p.Status == models.ProjectFinished {
			line = finishedStyle.Render(line)
		}
		fmt.Println(line)
	}
	if shown == 0 {
		fmt.Println("  (none)")
	}
	fmt.Println()
}

func printTodos(todos []models.Todo, today string) {
	slices.SortStableFunc(todos, func(a, b models.Todo) int {
		return strings.Compare(a.Date, b.Date)
	})

	fmt.Println(headerStyle.Render(fmt.Sprintf("Todos (%d)", len(todos))))
	shown := 0
	for _, t := range todos {
		if t.IsFinished && !listAll {
			continue
		}
		shown++
		date := dateStyle.Render(t.Date)
		if !t.IsFinished && t.Date < today {
			date = overdueStyle.Render(t.Date)
		}
		line := fmt.Sprintf("  %s  %s", date, t.Title)
		if t.Deadline != "" {
			line += "  " + dateStyle.Render("due "+t.Deadline)
		}
		if t.IsTemplate() {
			line += "  " + tagStyle.Render("↻ "+string(t.Frequency))
		}
		if t.IsFinished {
			line = finishedStyle.Render(line)
		}
		fmt.Println(line)
	}
	if shown == 0 {
		fmt.Println("  (none)")
	}
	fmt.Println()
}
