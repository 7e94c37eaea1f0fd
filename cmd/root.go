package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"salescope/internal/store"
	"salescope/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "Generate, load and analyze synthetic e-commerce sales data",
	Long: `Salescope - A CLI tool for producing synthetic e-commerce datasets,
loading them into a SQLite database, and running reconciliation and
monthly sales trend/forecast reports against it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database file")
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.salescope")
	}

	viper.SetEnvPrefix("salescope")
	viper.AutomaticEnv()

	// Config file not found is okay; defaults apply
	_ = viper.ReadInConfig()
}

// storeConfig resolves the database settings, letting the --db flag and
// SALESCOPE_* environment override the config file
func storeConfig(appConfig *models.Config) store.Config {
	path := appConfig.Database.Path
	if override := viper.GetString("database.path"); override != "" {
		path = override
	}

	busy := 5 * time.Second
	if appConfig.Database.BusyTimeout != "" {
		if d, err := time.ParseDuration(appConfig.Database.BusyTimeout); err == nil {
			busy = d
		}
	}

	return store.Config{
		Path:        path,
		BusyTimeout: busy,
		Timeout:     30 * time.Second,
	}
}
