package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobradar/internal/job"
	"jobradar/internal/logger"
	"jobradar/internal/match"
	"jobradar/internal/notify"
	"jobradar/internal/pipeline"
	"jobradar/internal/secrets"
	"jobradar/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Send the digest email?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect jobs from all sources, rank them and email the top matches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending the email")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	log := mustLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting jobradar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resume, err := loadResume(config)
	if err != nil {
		log.Fatal("loading resume", zap.Error(err))
	}

	steps := []pipeline.Step{
		pipeline.NewCollector("muse_api", false, func(ctx context.Context) (int, error) {
			return collectMuse(ctx, config, log)
		}),
		pipeline.NewCollector("github_markdown", false, func(ctx context.Context) (int, error) {
			return collectGithub(ctx, config, log)
		}),
		pipeline.NewCollector("firecrawl_scraping", true, func(ctx context.Context) (int, error) {
			return collectFirecrawl(ctx, config, log)
		}),
	}

	result, err := pipeline.Run(ctx, log, steps)
	if err != nil {
		log.Fatal("collection failed", zap.Error(err))
	}

	log.Info("collection completed", zap.Int("collected", result.Collected()))

	matches, err := rankStoredJobs(ctx, config, resume, log)
	if err != nil {
		log.Fatal("matching failed", zap.Error(err))
	}

	if len(matches) == 0 {
		log.Info("exiting", zap.String("reason", "no matches to send"))
		return
	}

	if config.Email.Host == "" {
		log.Warn("email is not configured, skipping notification")
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	if err := sendDigest(config, matches, log); err != nil {
		log.Fatal("notification failed", zap.Error(err))
	}

	log.Info("digest sent", zap.Int("matches", len(matches)))
}

func mustLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func loadResume(config *Config) (string, error) {
	if config.Resume == "" {
		return "", fmt.Errorf("resume path is required (set the 'resume' key in the configuration file)")
	}

	data, err := os.ReadFile(config.Resume)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// rankStoredJobs loads everything collected so far, ranks it and writes
// the result file.
func rankStoredJobs(ctx context.Context, config *Config, resume string, log *zap.Logger) ([]*match.Match, error) {
	jobs := job.Dedup(store.New(log).Load(config.DataDirs))
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no stored jobs to rank")
	}

	log.Info("ranking stored jobs",
		zap.Int("jobs", len(jobs)),
		zap.Int("top_n", config.Match.TopN),
	)

	matcher := match.NewMatcher(newLLMRanker(ctx, config, log), log)

	result, err := matcher.Rank(ctx, resume, jobs, config.Match.TopN)
	if err != nil {
		return nil, err
	}

	if err := match.WriteResult(config.Match.Output, result); err != nil {
		return nil, err
	}

	log.Info("wrote match results",
		zap.String("path", config.Match.Output),
		zap.Int("matches", len(result.Matches)),
		zap.Int("unscored", len(result.Unscored)),
	)

	return result.Matches, nil
}

// newLLMRanker builds the primary ranker, or returns nil when Gemini
// credentials are not available so the keyword fallback takes over.
func newLLMRanker(ctx context.Context, config *Config, log *zap.Logger) match.Ranker {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Match.Gemini.APIKeyFile,
	})
	if err != nil {
		log.Warn("llm ranking unavailable",
			zap.Error(err),
			zap.String("hint", "set match.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return nil
	}

	generator, err := match.NewGenerator(ctx, apiKey, config.Match.Gemini.Model)
	if err != nil {
		log.Warn("llm ranking unavailable", zap.Error(err))
		return nil
	}

	rankerLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	return match.NewLLMRanker(generator, config.Match.BatchSize, rankerLogger)
}

func sendDigest(config *Config, matches []*match.Match, log *zap.Logger) error {
	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: config.Email.PasswordFile,
	})
	if err != nil {
		return fmt.Errorf("%w (set email.password-file or SMTP_PASSWORD_FILE)", err)
	}

	return notify.NewMailer(config.Email, password, log).Send(matches)
}
