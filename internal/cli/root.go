package cli

import (
	"context"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/common"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/scoring"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/store"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "atsscore",
	Short: "Score resumes the way an applicant tracking system would",
	Long: `atsscore is a deterministic ATS scoring engine. It scores a resume against
a job description on keyword match, formatting, structure and readability,
and returns prioritized improvements. It also scores cover letters and
behavioral interview answers, and can serve the same operations over HTTP.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	setContext(rootCmd, ctx)
	return rootCmd.Execute()
}

// setContext replaces the context on cmd and its subcommands. Cobra only
// hands the root context down to a subcommand that has none yet.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newScoringService builds the engine and opens the score store from the
// configuration. The returned func closes the store.
func newScoringService(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*scoring.Service, func(), error) {
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to build scoring engine", err)
	}

	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	return scoring.NewService(engine, st, cfg.Batch, nil, logger), st.Close, nil
}

// warnEphemeralSave warns when --save has no database behind it: the
// returned IDs cannot be fetched by a later run.
func warnEphemeralSave(cfg *config.Config, save bool, logger *errors.Logger) bool {
	if !save || cfg.Database.Enabled {
		return false
	}
	logger.Warn("Database disabled; saved scores only last for this process")
	return true
}

// prepareOutput applies the default format and validates the requested one.
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	cmdConfig.Out = cmd.OutOrStdout()
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// addOutputFlags registers the output flags shared by every scoring command.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// withJobFile appends the optional job description file to the input files.
func withJobFile(file, jobFile string) []string {
	if jobFile == "" {
		return []string{file}
	}
	return []string{file, jobFile}
}

// jobFromContents returns the job description read by withJobFile, if any.
func jobFromContents(contents []string) string {
	if len(contents) > 1 {
		return contents[1]
	}
	return ""
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(coverLetterCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
