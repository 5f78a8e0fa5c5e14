package cli

import (
	"fmt"
	"strings"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [answer-file] --question \"...\"",
	Short: "Score a behavioral interview answer",
	Long: `Score a written answer to a behavioral interview question. The answer is
checked for the STAR components (situation, task, action, result), relevance
to the question, specificity and delivery.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(interviewConfig.Question) == "" {
			return fmt.Errorf("--question must not be empty")
		}
		return prepareOutput(cmd, &interviewConfig.CommandConfig)
	},
	RunE: runInterview,
}

var interviewConfig struct {
	common.CommandConfig
	Question string
}

func init() {
	addOutputFlags(interviewCmd, &interviewConfig.CommandConfig)
	interviewCmd.Flags().StringVarP(&interviewConfig.Question, "question", "q", "", "The interview question being answered")
	_ = interviewCmd.MarkFlagRequired("question")
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc, closeStore, err := newScoringService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	createInput := func(contents []string) (types.ScoreInterviewInput, error) {
		return types.ScoreInterviewInput{
			Question: interviewConfig.Question,
			Answer:   contents[0],
		}, nil
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		interviewConfig.CommandConfig,
		args,
		createInput,
		svc.ScoreInterview,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to score interview answer: %w", err)
	}
	return nil
}
