package cli

import (
	"fmt"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter [letter-file]",
	Short: "Score a cover letter against a job description",
	Long: `Score a plain-text cover letter on keyword match, structure
(greeting, intent, body, closing), personalization and readability.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &coverLetterConfig.CommandConfig)
	},
	RunE: runCoverLetter,
}

var coverLetterConfig struct {
	common.CommandConfig
	JobFile string
}

func init() {
	addOutputFlags(coverLetterCmd, &coverLetterConfig.CommandConfig)
	coverLetterCmd.Flags().StringVarP(&coverLetterConfig.JobFile, "job", "j", "", "Job description file")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc, closeStore, err := newScoringService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	createInput := func(contents []string) (types.ScoreCoverLetterInput, error) {
		return types.ScoreCoverLetterInput{
			CoverLetterText: contents[0],
			JobDescription:  jobFromContents(contents),
		}, nil
	}

	logDetails := func(input types.ScoreCoverLetterInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter scoring",
			"letter_chars", len(input.CoverLetterText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		coverLetterConfig.CommandConfig,
		withJobFile(args[0], coverLetterConfig.JobFile),
		createInput,
		svc.ScoreCoverLetter,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to score cover letter: %w", err)
	}
	return nil
}
