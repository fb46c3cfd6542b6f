package cmd

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-radar"
)

type Config struct {
	ProfileFile string         `mapstructure:"profile-file"`
	SeenDB      string         `mapstructure:"seen-db"`
	Search      string         `mapstructure:"search"`
	Sources     *SourcesConfig `mapstructure:"sources"`
	Report      *ReportConfig  `mapstructure:"report"`
	AI          *AIConfig      `mapstructure:"ai"`
}

// SourcesConfig toggles individual job boards. A nil section enables all of
// them.
type SourcesConfig struct {
	Remotive       *bool `mapstructure:"remotive"`
	Arbeitnow      *bool `mapstructure:"arbeitnow"`
	WeWorkRemotely *bool `mapstructure:"weworkremotely"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output-dir"`
	HTML      bool   `mapstructure:"html"`
	Markdown  bool   `mapstructure:"markdown"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-radar aggregates job postings from multiple boards, scores them against your profile and renders a ranked report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("profile-file", "JOB_RADAR_PROFILE"); err != nil {
		log.Fatalf("binding JOB_RADAR_PROFILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-radar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; every setting has a default. A present
	// but unparseable file is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	return config, nil
}

// dataDir is where the profile, seen-state and reports live by default.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + app
	}
	return filepath.Join(home, "."+app)
}

func (c *Config) profilePath() string {
	if c != nil && c.ProfileFile != "" {
		return c.ProfileFile
	}
	return filepath.Join(dataDir(), "profile.json")
}

func (c *Config) seenDBPath() string {
	if c != nil && c.SeenDB != "" {
		return c.SeenDB
	}
	return filepath.Join(dataDir(), "seen.db")
}

func (c *Config) reportDir() string {
	if c != nil && c.Report != nil && c.Report.OutputDir != "" {
		return c.Report.OutputDir
	}
	return filepath.Join(dataDir(), "reports")
}
