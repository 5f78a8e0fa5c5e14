package cli

import (
	"fmt"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

const maxHistoryLimit = 500

var historyCmd = &cobra.Command{
	Use:   "history [score-id]",
	Short: "Show saved scores",
	Long: `List the most recently saved scores, newest first, or show one saved
score by ID. History needs the database to be enabled; without it scores
only live for the duration of a single command.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateLimit(historyConfig.Limit, maxHistoryLimit); err != nil {
			return err
		}
		return prepareOutput(cmd, &historyConfig.CommandConfig)
	},
	RunE: runHistory,
}

var historyConfig struct {
	common.CommandConfig
	Limit int
}

func init() {
	addOutputFlags(historyCmd, &historyConfig.CommandConfig)
	historyCmd.Flags().IntVarP(&historyConfig.Limit, "limit", "n", 0, "Number of scores to list (default 20)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if !cfg.Database.Enabled {
		logger.Warn("Database disabled; history only covers this process")
	}

	svc, closeStore, err := newScoringService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	output := common.NewOutputHandler(logger)
	if len(args) == 1 {
		stored, err := svc.GetScore(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load score: %w", err)
		}
		single := types.ScoreHistoryOutput{Scores: []types.StoredScore{stored}, Count: 1}
		return output.HandleOutput(single, historyConfig.CommandConfig)
	}

	history, err := svc.ListScores(cmd.Context(), historyConfig.Limit)
	if err != nil {
		return fmt.Errorf("failed to list scores: %w", err)
	}
	return output.HandleOutput(history, historyConfig.CommandConfig)
}
