package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobradar/internal/firecrawl"
	"jobradar/internal/github"
	"jobradar/internal/notify"
)

const (
	app = "jobradar"
)

// Config is the full configuration tree. It is unmarshaled once at
// startup and passed into the components; nothing below cmd reads the
// environment.
type Config struct {
	// DataDirs are scanned for stored job files; collectors save into
	// the first one.
	DataDirs []string `mapstructure:"data-dirs"`
	// Resume is the path to the plain-text resume used for matching.
	Resume       string `mapstructure:"resume"`
	KeywordsFile string `mapstructure:"keywords-file"`

	Sources SourcesConfig `mapstructure:"sources"`
	Match   MatchConfig   `mapstructure:"match"`
	Email   notify.Config `mapstructure:"email"`
}

type SourcesConfig struct {
	Github    GithubConfig    `mapstructure:"github"`
	Firecrawl FirecrawlConfig `mapstructure:"firecrawl"`
}

type GithubConfig struct {
	TokenFile              string `mapstructure:"token-file"`
	github.CollectorConfig `mapstructure:",squash"`
}

type FirecrawlConfig struct {
	APIKeyFile             string `mapstructure:"api-key-file"`
	firecrawl.ScrapeConfig `mapstructure:",squash"`
}

type MatchConfig struct {
	TopN      int          `mapstructure:"top-n"`
	BatchSize int          `mapstructure:"batch-size"`
	Output    string       `mapstructure:"output"`
	Gemini    GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar collects job postings, ranks them against your resume and mails the top matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"sources.github.token-file":      "GITHUB_TOKEN_FILE",
		"sources.firecrawl.api-key-file": "FIRECRAWL_API_KEY_FILE",
		"match.gemini.api-key-file":      "GEMINI_API_KEY_FILE",
		"email.password-file":            "SMTP_PASSWORD_FILE",
		"email.recipient-override":       "JOBRADAR_RECIPIENT",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Credentials usually live in a local .env file. A missing file is
	// fine, the environment may already be populated.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Built-in defaults carry a run without a config file; an
		// unparseable file never does.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if len(config.DataDirs) == 0 {
		config.DataDirs = []string{"data"}
	}
	if config.Match.TopN <= 0 {
		config.Match.TopN = 50
	}
	if config.Match.Output == "" {
		config.Match.Output = "matched_jobs/top_matches.json"
	}

	return config, nil
}
