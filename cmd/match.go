package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the stored jobs against your resume and write the result file",
	Run: func(*cobra.Command, []string) {
		log := mustLogger()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		resume, err := loadResume(config)
		if err != nil {
			log.Fatal("loading resume", zap.Error(err))
		}

		matches, err := rankStoredJobs(context.Background(), config, resume, log)
		if err != nil {
			log.Fatal("matching failed", zap.Error(err))
		}

		log.Info("matching completed", zap.Int("matches", len(matches)))
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
