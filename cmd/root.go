package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-scout/internal/ai"
	"github.com/spigell/job-scout/internal/ai/gemini"
	"github.com/spigell/job-scout/internal/headhunter"
	"github.com/spigell/job-scout/internal/listing"
)

const (
	app = "job-scout"

	sourceLinkedIn   = "linkedin"
	sourceHeadHunter = "headhunter"
)

type Config struct {
	AI      *AIConfig      `mapstructure:"ai"`
	Search  *SearchConfig  `mapstructure:"search"`
	Exclude *ExcludeConfig `mapstructure:"exclude"`
}

type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	APIKey           string        `mapstructure:"api-key" json:"-"`
	APIKeyFile       string        `mapstructure:"api-key-file"`
	Model            string        `mapstructure:"model"`
	RequestTimeout   time.Duration `mapstructure:"request-timeout"`
	ThinkingBudget   *int          `mapstructure:"thinking-budget"`
	MatchThreshold   float64       `mapstructure:"match-threshold"`
	DefaultScore     float64       `mapstructure:"default-score"`
	IncludeDefaulted bool          `mapstructure:"include-defaulted"`
	MaxLogLength     int           `mapstructure:"max-log-length"`
}

type SearchConfig struct {
	Sources        []string          `mapstructure:"sources"`
	MinDelay       time.Duration     `mapstructure:"min-delay"`
	MaxDelay       time.Duration     `mapstructure:"max-delay"`
	RequestTimeout time.Duration     `mapstructure:"request-timeout"`
	LinkedIn       *LinkedInConfig   `mapstructure:"linkedin"`
	HeadHunter     *HeadHunterConfig `mapstructure:"headhunter"`
}

type LinkedInConfig struct {
	Endpoint  string            `mapstructure:"endpoint"`
	Selectors listing.Selectors `mapstructure:"selectors"`
}

type HeadHunterConfig struct {
	APIURL    string `mapstructure:"api-url"`
	UserAgent string `mapstructure:"user-agent"`
	PerPage   int    `mapstructure:"per-page"`
	MaxPages  int    `mapstructure:"max-pages"`
	// Params are the hh.ru search filters (area, schedule, experience, ...).
	Params headhunter.SearchParams `mapstructure:"params"`
}

type ExcludeConfig struct {
	Companies []string `mapstructure:"companies"`
	File      string   `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-scout reads a resume, searches job sites and ranks the postings by how well they match",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	selectors := listing.DefaultSelectors()

	viper.SetDefault("ai.provider", ai.ProviderGemini)
	viper.SetDefault("ai.model", gemini.DefaultModel)
	viper.SetDefault("ai.request-timeout", 30*time.Second)
	viper.SetDefault("ai.match-threshold", listing.MidpointScore)
	viper.SetDefault("ai.default-score", listing.MidpointScore)
	viper.SetDefault("ai.include-defaulted", true)
	viper.SetDefault("ai.max-log-length", 200)

	viper.SetDefault("search.sources", []string{sourceLinkedIn})
	viper.SetDefault("search.min-delay", listing.DefaultMinDelay)
	viper.SetDefault("search.max-delay", listing.DefaultMaxDelay)
	viper.SetDefault("search.request-timeout", 15*time.Second)
	viper.SetDefault("search.linkedin.endpoint", listing.DefaultLinkedInEndpoint)
	viper.SetDefault("search.linkedin.selectors.card", selectors.Card)
	viper.SetDefault("search.linkedin.selectors.title", selectors.Title)
	viper.SetDefault("search.linkedin.selectors.company", selectors.Company)
	viper.SetDefault("search.linkedin.selectors.location", selectors.Location)
	viper.SetDefault("search.linkedin.selectors.link", selectors.Link)
	viper.SetDefault("search.headhunter.api-url", headhunter.DefaultAPIURL)
	viper.SetDefault("search.headhunter.user-agent", headhunter.DefaultUserAgent)
	viper.SetDefault("search.headhunter.per-page", 50)
	viper.SetDefault("search.headhunter.max-pages", 1)
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Defaults are enough when the default config file is absent.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
