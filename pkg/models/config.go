package models

type Config struct {
	Database Database `yaml:"database"`
	Generate Generate `yaml:"generate"`
	Forecast Forecast `yaml:"forecast"`
}

type Database struct {
	Path        string `yaml:"path"`         // SQLite database file
	BusyTimeout string `yaml:"busy_timeout"` // e.g. "5s"
}

// Generate controls the synthetic dataset shape
type Generate struct {
	OutputDir        string `yaml:"output_dir"`          // Directory for CSV files
	Customers        int    `yaml:"customers"`           // Number of customer rows
	Products         int    `yaml:"products"`            // Number of product rows
	Orders           int    `yaml:"orders"`              // Number of order rows
	MinItemsPerOrder int    `yaml:"min_items_per_order"`
	MaxItemsPerOrder int    `yaml:"max_items_per_order"`
	StartDate        string `yaml:"start_date"`          // Order window start (YYYY-MM-DD)
	EndDate          string `yaml:"end_date"`            // Order window end (YYYY-MM-DD)
	Seed             int64  `yaml:"seed"`                // 0 means non-deterministic
}

// Forecast controls the trend analysis output
type Forecast struct {
	Months    int    `yaml:"months"`     // Future months to extrapolate
	ChartFile string `yaml:"chart_file"` // Default PNG output path
}

// Default returns a configuration mirroring the generator's stock dataset
func Default() *Config {
	return &Config{
		Database: Database{
			Path:        "ecommerce.db",
			BusyTimeout: "5s",
		},
		Generate: Generate{
			OutputDir:        ".",
			Customers:        100,
			Products:         50,
			Orders:           200,
			MinItemsPerOrder: 1,
			MaxItemsPerOrder: 5,
			StartDate:        "2006-01-01",
			EndDate:          "2007-12-31",
		},
		Forecast: Forecast{
			Months:    3,
			ChartFile: "sales_forecast_analysis.png",
		},
	}
}
