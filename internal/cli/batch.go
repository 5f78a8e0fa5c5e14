package cli

import (
	"fmt"
	"path/filepath"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/utils"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume-files or directories...]",
	Short: "Score many resumes against one job description",
	Long: `Score every resume file against the same job description. Directories
are expanded to the text files they contain (not recursively). A resume
that fails to score is reported in its result and does not stop the batch.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if batchConfig.Concurrency < 0 {
			return fmt.Errorf("--concurrency must not be negative")
		}
		return prepareOutput(cmd, &batchConfig.CommandConfig)
	},
	RunE: runBatch,
}

var batchConfig struct {
	common.CommandConfig
	JobFile     string
	Concurrency int
	Save        bool
}

func init() {
	addOutputFlags(batchCmd, &batchConfig.CommandConfig)
	batchCmd.Flags().StringVarP(&batchConfig.JobFile, "job", "j", "", "Job description file (default: generic keyword bank)")
	batchCmd.Flags().IntVarP(&batchConfig.Concurrency, "concurrency", "c", 0, "Parallel scoring workers (default from config)")
	batchCmd.Flags().BoolVar(&batchConfig.Save, "save", false, "Save every score to the history store")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := *getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if batchConfig.Concurrency > 0 {
		cfg.Batch.Concurrency = batchConfig.Concurrency
	}
	warnEphemeralSave(&cfg, batchConfig.Save, logger)

	files, err := utils.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no resume files found in %v", args)
	}

	svc, closeStore, err := newScoringService(cmd.Context(), &cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if batchConfig.JobFile != "" {
		files = append(files, batchConfig.JobFile)
	}

	createInput := func(contents []string) (types.BatchScoreInput, error) {
		input := types.BatchScoreInput{Save: batchConfig.Save}
		resumes := contents
		if batchConfig.JobFile != "" {
			resumes = contents[:len(contents)-1]
			input.JobDescription = contents[len(contents)-1]
		}
		for i, text := range resumes {
			input.Items = append(input.Items, types.BatchItem{
				ID:         filepath.Base(files[i]),
				ResumeText: text,
			})
		}
		return input, nil
	}

	logDetails := func(input types.BatchScoreInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting batch scoring",
			"resumes", len(input.Items),
			"job_chars", len(input.JobDescription),
			"concurrency", cfg.Batch.Concurrency,
			"output_format", cmdCfg.OutputFormat)
	}

	err = common.RunScoreCommand(
		cmd.Context(),
		logger,
		batchConfig.CommandConfig,
		files,
		createInput,
		svc.ScoreBatch,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to score batch: %w", err)
	}
	return nil
}
