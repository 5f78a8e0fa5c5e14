package cli

import (
	"fmt"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [job-description-file]",
	Short: "List the keywords a job description is scored against",
	Long: `List the keywords extracted from a job description, most specific first.
Without a file the generic keyword bank is listed.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &keywordsConfig)
	},
	RunE: runKeywords,
}

var keywordsConfig common.CommandConfig

func init() {
	addOutputFlags(keywordsCmd, &keywordsConfig)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc, closeStore, err := newScoringService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(args) == 0 {
		out, err := svc.ExtractKeywords(cmd.Context(), types.ExtractKeywordsInput{})
		if err != nil {
			return err
		}
		return common.NewOutputHandler(logger).HandleOutput(out, keywordsConfig)
	}

	createInput := func(contents []string) (types.ExtractKeywordsInput, error) {
		return types.ExtractKeywordsInput{JobDescription: contents[0]}, nil
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		keywordsConfig,
		args,
		createInput,
		svc.ExtractKeywords,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to extract keywords: %w", err)
	}
	return nil
}
