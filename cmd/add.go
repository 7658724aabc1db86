package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/models"
)

var (
	addDate       string
	addDeadline   string
	addImportance int
	addContent    string
	addCategory   string
	addFrequency  string
	addOptions    []string
	addEndDate    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo to the calendar",
	Long: `Add a todo. With --frequency the todo becomes a recurring template and
the next maintenance run expands it into dated instances up to the horizon.

Frequency tags and options follow the calendar's conventions: 매일 (daily),
매주 (weekly, options are weekday names 일..토), 매월 (monthly, option is a
day of month or 말일 for the last day), 매년 (yearly).`,
	Example: `  # One-off todo for today
  plancal add "우체국 들르기"

  # Weekly on Wednesday and Friday
  plancal add "팀 회의" --frequency 매주 --option 수 --option 금

  # Monthly on the last day, until next March
  plancal add "월말 정산" --frequency 매월 --option 말일 --until 2025-03-31`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}

		date := addDate
		if date == "" {
			date = dateutil.Today(time.Now())
		}

		todo := models.Todo{
			ID:                uuid.NewString(),
			Title:             title,
			Date:              date,
			Deadline:          addDeadline,
			Importance:        addImportance,
			Content:           addContent,
			Category:          addCategory,
			Frequency:         models.Frequency(addFrequency),
			FrequencyOption:   addOptions,
			RecurrenceEndDate: addEndDate,
		}
		if err := models.ValidateStruct(todo); err != nil {
			return fmt.Errorf("invalid todo: %w", err)
		}

		logger := NewLogger()
		st, err := GetStore(logger)
		if err != nil {
			return fmt.Errorf("could not initialize the data store: %w", err)
		}
		defer func() { _ = st.Close() }()

		todos, err := st.LoadTodos()
		if err != nil {
			return fmt.Errorf("failed to load todos: %w", err)
		}
		if err := st.SaveTodos(append(todos, todo)); err != nil {
			return fmt.Errorf("failed to save todos: %w", err)
		}

		// Expand the series right away instead of waiting for the next run.
		if _, err := GetScheduler(st, logger).RunMaintenance(time.Now()); err != nil {
			return fmt.Errorf("maintenance after add failed: %w", err)
		}

		if todo.IsTemplate() {
			fmt.Printf("Added recurring todo '%s' (%s) starting %s.\n", todo.Title, todo.Frequency, todo.Date)
		} else {
			fmt.Printf("Added todo '%s' on %s.\n", todo.Title, todo.Date)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "scheduled date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "deadline date (YYYY-MM-DD)")
	addCmd.Flags().IntVarP(&addImportance, "importance", "i", 0, "importance 0-5")
	addCmd.Flags().StringVar(&addContent, "content", "", "free-form note")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category label")
	addCmd.Flags().StringVarP(&addFrequency, "frequency", "f", "", "recurrence tag: 매일, 매주, 매월, 매년")
	addCmd.Flags().StringArrayVar(&addOptions, "option", nil, "frequency option (repeatable; weekday for 매주, day of month or 말일 for 매월)")
	addCmd.Flags().StringVar(&addEndDate, "until", "", "last date the series may generate (YYYY-MM-DD)")
}
