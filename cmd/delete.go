package cmd

import (
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/plancal/plancal/internal/scheduler"
	"github.com/plancal/plancal/store"
)

var (
	deleteProject bool
	deleteMode    string
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a project or todo, series-aware",
	Long: `Delete an entity by id. When the target belongs to a recurring series
the deletion mode matters:

  single  remove only this instance; its date is excluded from the series
  future  remove this and every later instance; the series ends the day before

Deleting a recurring template itself in future mode removes the whole series.
If the target is in a series and no --mode is given, you are asked.`,
	Example: `  # Interactive todo selection
  plancal delete

  # Remove one occurrence of a series
  plancal delete 6f9619ff-8b86-4d01-b42d-00cf4fc964ff --mode single

  # Truncate a series from this occurrence on
  plancal delete 6f9619ff-8b86-4d01-b42d-00cf4fc964ff --mode future

  # Delete a project instead of a todo
  plancal delete 6f9619ff-8b86-4d01-b42d-00cf4fc964ff --project`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := NewLogger()
		st, err := GetStore(logger)
		if err != nil {
			HandleFatalError("Error: Could not initialize the data store.", err)
		}
		defer func() { _ = st.Close() }()

		var (
			id       string
			title    string
			inSeries bool
		)
		if len(args) > 0 {
			id = args[0]
			title, inSeries, err = describeTarget(st, id, deleteProject)
			if err != nil {
				HandleFatalError(fmt.Sprintf("Error: Could not find entity with ID '%s'.", id), err)
			}
		} else {
			if deleteProject {
				HandleFatalError("Error: --project requires an explicit id.", nil)
			}
			todo, err := selectTodoInteractive(st, nil, "Select todo to delete")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Deletion cancelled.")
					return
				}
				if err == ErrNoTodosFound {
					fmt.Println("No todos available to delete.")
					return
				}
				HandleFatalError("Error: Could not select a todo.", err)
			}
			id = todo.ID
			title = todo.Title
			inSeries = todo.ParentID != "" || todo.IsTemplate()
		}

		mode, err := scheduler.ParseDeleteMode(deleteMode)
		if err != nil {
			HandleFatalError(err.Error(), err)
		}
		if inSeries && deleteMode == "" {
			mode, err = askDeleteMode(title)
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Deletion cancelled.")
					return
				}
				HandleFatalError("Error: Mode selection failed.", err)
			}
		}

		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Delete '%s' (%s)", title, mode),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("Deletion cancelled.")
			return
		}

		sched := GetScheduler(st, logger)
		if deleteProject {
			err = sched.DeleteProject(id, mode)
		} else {
			err = sched.DeleteTodo(id, mode)
		}
		if err != nil {
			HandleFatalError("Error: Deletion failed.", err)
		}
		if _, err := sched.RunMaintenance(time.Now()); err != nil {
			HandleFatalError("Error: Maintenance after deletion failed.", err)
		}

		fmt.Printf("Deleted '%s'.\n", title)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteProject, "project", false, "delete a project instead of a todo")
	deleteCmd.Flags().StringVarP(&deleteMode, "mode", "m", "", "series deletion mode: single or future")
}

// describeTarget resolves the target's title and whether it belongs to a
// recurring series.
func describeTarget(st store.DataStore, id string, isProject bool) (string, bool, error) {
	if isProject {
		projects, err := st.LoadProjects()
		if err != nil {
			return "", false, err
		}
		for _, p := range projects {
			if p.ID == id {
				return p.Title, p.ParentID != "" || p.IsTemplate(), nil
			}
		}
		return "", false, fmt.Errorf("project %s not found", id)
	}

	todos, err := st.LoadTodos()
	if err != nil {
		return "", false, err
	}
	for _, t := range todos {
		if t.ID == id {
			return t.Title, t.ParentID != "" || t.IsTemplate(), nil
		}
	}
	return "", false, fmt.Errorf("todo %s not found", id)
}

func askDeleteMode(title string) (scheduler.DeleteMode, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("'%s' repeats. What should be deleted", title),
		Items: []string{
			"Only this instance",
			"This and all future instances",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if idx == 1 {
		return scheduler.DeleteFuture, nil
	}
	return scheduler.DeleteSingle, nil
}
