package cli

import (
	"fmt"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Score a resume against a job description",
	Long: `Score a plain-text resume the way an applicant tracking system would.

The overall score (0-100) is a weighted blend of:
- Keyword match against the job description (or a generic bank without one)
- Formatting: bullets, contact details, paragraph length
- Structure: canonical sections and their order
- Readability: sentence length, action verbs, passive voice

Use --save to keep the score in the history store.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &scoreConfig.CommandConfig)
	},
	RunE: runScore,
}

var scoreConfig struct {
	common.CommandConfig
	JobFile string
	Save    bool
}

func init() {
	addOutputFlags(scoreCmd, &scoreConfig.CommandConfig)
	scoreCmd.Flags().StringVarP(&scoreConfig.JobFile, "job", "j", "", "Job description file (default: generic keyword bank)")
	scoreCmd.Flags().BoolVar(&scoreConfig.Save, "save", false, "Save the score to the history store")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	warnEphemeralSave(cfg, scoreConfig.Save, logger)

	svc, closeStore, err := newScoringService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	createInput := func(contents []string) (types.ScoreResumeInput, error) {
		return types.ScoreResumeInput{
			ResumeText:     contents[0],
			JobDescription: jobFromContents(contents),
			Save:           scoreConfig.Save,
		}, nil
	}

	logDetails := func(input types.ScoreResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume scoring",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"save", input.Save,
			"output_format", cfg.OutputFormat)
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		scoreConfig.CommandConfig,
		withJobFile(args[0], scoreConfig.JobFile),
		createInput,
		svc.ScoreResume,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}
