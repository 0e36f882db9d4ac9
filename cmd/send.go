package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobradar/internal/match"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email the matches from the last match run",
	Run: func(cmd *cobra.Command, _ []string) {
		log := mustLogger()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		matches, err := match.ReadMatches(config.Match.Output)
		if err != nil {
			log.Fatal("reading match results",
				zap.String("path", config.Match.Output),
				zap.Error(err),
			)
		}

		if len(matches) == 0 {
			log.Info("exiting", zap.String("reason", "no matches to send"))
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
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending the email")
}
