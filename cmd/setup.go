package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	fmt.Println("🚀 Setting up Salescope...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := models.Default()

	fmt.Println("📄 Database Configuration")
	fmt.Println("-------------------------")

	dbQs := []*survey.Question{
		{
			Name: "path",
			Prompt: &survey.Input{
				Message: "SQLite database file:",
				Default: cfg.Database.Path,
			},
			Validate: survey.Required,
		},
		{
			Name: "busytimeout",
			Prompt: &survey.Input{
				Message: "Busy timeout (e.g., 5s):",
				Default: cfg.Database.BusyTimeout,
			},
			Validate: survey.Required,
		},
	}

	dbAnswers := struct {
		Path        string
		BusyTimeout string `survey:"busytimeout"`
	}{}

	if err := survey.Ask(dbQs, &dbAnswers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Database.Path = dbAnswers.Path
	cfg.Database.BusyTimeout = dbAnswers.BusyTimeout

	fmt.Println()
	fmt.Println("📦 Generator Configuration")
	fmt.Println("-------------------------")

	genQs := []*survey.Question{
		{
			Name: "outputdir",
			Prompt: &survey.Input{
				Message: "CSV output directory:",
				Default: cfg.Generate.OutputDir,
			},
			Validate: survey.Required,
		},
		{
			Name: "customers",
			Prompt: &survey.Input{
				Message: "Number of customers:",
				Default: strconv.Itoa(cfg.Generate.Customers),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "products",
			Prompt: &survey.Input{
				Message: "Number of products:",
				Default: strconv.Itoa(cfg.Generate.Products),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "orders",
			Prompt: &survey.Input{
				Message: "Number of orders:",
				Default: strconv.Itoa(cfg.Generate.Orders),
			},
			Validate: validatePositiveInt,
		},
	}

	genAnswers := struct {
		OutputDir string `survey:"outputdir"`
		Customers int
		Products  int
		Orders    int
	}{}

	if err := survey.Ask(genQs, &genAnswers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Generate.OutputDir = genAnswers.OutputDir
	cfg.Generate.Customers = genAnswers.Customers
	cfg.Generate.Products = genAnswers.Products
	cfg.Generate.Orders = genAnswers.Orders

	fmt.Println()
	fmt.Println("📈 Forecast Configuration")
	fmt.Println("-------------------------")

	forecastQs := []*survey.Question{
		{
			Name: "months",
			Prompt: &survey.Input{
				Message: "Months to forecast:",
				Default: strconv.Itoa(cfg.Forecast.Months),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "chartfile",
			Prompt: &survey.Input{
				Message: "Default chart file:",
				Default: cfg.Forecast.ChartFile,
			},
			Validate: survey.Required,
		},
	}

	forecastAnswers := struct {
		Months    int
		ChartFile string `survey:"chartfile"`
	}{}

	if err := survey.Ask(forecastQs, &forecastAnswers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Forecast.Months = forecastAnswers.Months
	cfg.Forecast.ChartFile = forecastAnswers.ChartFile

	// Save configuration
	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✅ Configuration saved to:", config.GetConfigFile())
	fmt.Println()
	fmt.Println("You can now generate data using: salescope generate")
}

func validatePositiveInt(val interface{}) error {
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected a number")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
