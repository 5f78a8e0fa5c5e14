package cli

import (
	"errors"
	"fmt"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/schemas"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [score-json-files...]",
	Short: "Check saved score documents against the ATS score schema",
	Long: `Validate JSON score documents (for example the output of
"atsscore score --format json") against the ATS score schema. The command
fails when any document is invalid.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &validateConfig)
	},
	RunE: runValidate,
}

var validateConfig common.CommandConfig

func init() {
	addOutputFlags(validateCmd, &validateConfig)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	output := common.NewOutputHandler(logger)

	invalid := 0
	for _, path := range args {
		report := validationReport(path)
		if !report.Valid {
			invalid++
		}
		if err := output.HandleOutput(report, validateConfig); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d documents failed validation", invalid, len(args))
	}
	return nil
}

func validationReport(path string) types.ValidationReport {
	report := types.ValidationReport{File: path, Valid: true}

	err := schemas.ValidateScoreFile(path)
	if err == nil {
		return report
	}

	report.Valid = false
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			report.Errors = append(report.Errors, fe.Field+": "+fe.Message)
		}
		return report
	}
	report.Errors = []string{err.Error()}
	return report
}
