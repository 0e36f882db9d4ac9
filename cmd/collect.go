package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect jobs from a single source",
}

var collectAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Collect jobs from The Muse API",
	Run: func(*cobra.Command, []string) {
		collectOne("muse_api", collectMuse)
	},
}

var collectGithubCmd = &cobra.Command{
	Use:   "github",
	Short: "Collect jobs from curated GitHub job lists",
	Run: func(*cobra.Command, []string) {
		collectOne("github_markdown", collectGithub)
	},
}

var collectScrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect jobs from job boards via Firecrawl extraction",
	Run: func(*cobra.Command, []string) {
		collectOne("firecrawl_scraping", collectFirecrawl)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.AddCommand(collectAPICmd, collectGithubCmd, collectScrapeCmd)
}

func collectOne(name string, collect func(context.Context, *Config, *zap.Logger) (int, error)) {
	log := mustLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	collected, err := collect(context.Background(), config, log)
	if err != nil {
		log.Fatal("collection failed", zap.String("source", name), zap.Error(err))
	}

	log.Info("collection completed",
		zap.String("source", name),
		zap.Int("collected", collected),
	)
}
