package cmd

import (
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/plancal/plancal/models"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [todo_id]",
	Aliases: []string{"finish", "complete"},
	Short:   "Mark a todo as finished",
	Long:    `Mark a todo as finished and stamp its finish time. If no id is given, an interactive list of unfinished todos is shown. Finished todos are deleted by maintenance once they age past the retention window.`,
	Example: `  # Interactive mode
  plancal done

  # Finish a specific todo
  plancal done 6f9619ff-8b86-4d01-b42d-00cf4fc964ff`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := NewLogger()
		st, err := GetStore(logger)
		if err != nil {
			HandleFatalError("Error: Could not initialize the data store.", err)
		}
		defer func() { _ = st.Close() }()

		todos, err := st.LoadTodos()
		if err != nil {
			HandleFatalError("Error: Could not load todos.", err)
		}

		var target models.Todo
		if len(args) > 0 {
			found := false
			for _, t := range todos {
				if t.ID == args[0] {
					target, found = t, true
					break
				}
			}
			if !found {
				HandleFatalError(fmt.Sprintf("Error: Could not find todo with ID '%s'.", args[0]), nil)
			}
		} else {
			target, err = selectTodoInteractive(st, func(t models.Todo) bool {
				return !t.IsFinished
			}, "Select todo to mark as finished")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Operation cancelled.")
					return
				}
				if err == ErrNoTodosFound {
					fmt.Println("No unfinished todos available.")
					return
				}
				HandleFatalError("Error: Could not select a todo.", err)
			}
		}

		if target.IsFinished {
			fmt.Printf("Todo '%s' is already finished.\n", target.Title)
			return
		}

		now := time.Now()
		for i := range todos {
			if todos[i].ID == target.ID {
				todos[i].IsFinished = true
				todos[i].FinishedAt = &now
				break
			}
		}
		if err := st.SaveTodos(todos); err != nil {
			HandleFatalError("Error: Failed to save todos.", err)
		}

		if _, err := GetScheduler(st, logger).RunMaintenance(now); err != nil {
			HandleFatalError("Error: Maintenance after finishing failed.", err)
		}

		fmt.Printf("Finished '%s'.\n", target.Title)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
