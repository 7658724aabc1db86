package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plancal/plancal/models"
	"github.com/plancal/plancal/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTodosFound is returned when an interactive selection is attempted
	// but no todos match.
	ErrNoTodosFound = errors.New("no todos found matching your criteria")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plancal",
	Short: "Plancal keeps your project/todo calendar up to date.",
	Long: `Plancal is the backend for a personal project/todo calendar.
It stores projects and todos as flat collection files, expands recurring
items into dated instances, carries overdue todos forward, and archives
finished projects. Run it once with 'maintain' or keep it running with
'serve'.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.plancal.yaml or $HOME/.plancal.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// selectTodoInteractive presents a prompt to pick a todo from the store,
// optionally filtered.
func selectTodoInteractive(st store.DataStore, filterFn func(models.Todo) bool, label string) (models.Todo, error) {
	todos, err := st.LoadTodos()
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to load todos for selection: %w", err)
	}
	if filterFn != nil {
		filtered := todos[:0:0]
		for _, t := range todos {
			if filterFn(t) {
				filtered = append(filtered, t)
			}
		}
		todos = filtered
	}
	if len(todos) == 0 {
		return models.Todo{}, ErrNoTodosFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .Date }})`,
		Inactive: `  {{ .Title | faint }} ({{ .Date }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} ({{ .Date }})`,
	}
	prompt := promptui.Select{
		Label:     label,
		Items:     todos,
		Templates: templates,
		Size:      12,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return models.Todo{}, err
	}
	return todos[idx], nil
}
