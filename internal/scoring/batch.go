package scoring

import (
	"context"
	"fmt"
	"strconv"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ScoreBatch scores every item against the same job description. A failing
// item records its error and does not stop the others. Results keep the
// request order.
func (s *Service) ScoreBatch(ctx context.Context, input types.BatchScoreInput) (types.BatchScoreOutput, error) {
	if len(input.Items) == 0 {
		return types.BatchScoreOutput{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"batch must contain at least one item", nil)
	}
	if s.batch.MaxItems > 0 && len(input.Items) > s.batch.MaxItems {
		return types.BatchScoreOutput{}, errors.NewValidationError(errors.ErrCodeInputTooLarge,
			fmt.Sprintf("batch has %d items, limit is %d", len(input.Items), s.batch.MaxItems), nil)
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)
	logger.Info("Scoring batch", "items", len(input.Items), "concurrency", s.batch.Concurrency)

	results := make([]types.BatchItemResult, len(input.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batch.Concurrency)

	for i, item := range input.Items {
		id := item.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		results[i].ID = id

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.ScoreResume(gctx, types.ScoreResumeInput{
				ResumeText:     item.ResumeText,
				JobDescription: input.JobDescription,
				Save:           input.Save,
			})
			if err != nil {
				logger.Warn("Batch item failed", "item", id, "error", err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Score = &out
			results[i].Passed = out.Passed
			return nil
		})
	}

	// Only cancellation surfaces here; item failures stay in their results.
	if err := g.Wait(); err != nil {
		return types.BatchScoreOutput{}, err
	}

	summary := summarize(results)
	logger.Info("Batch scored",
		"scored", summary.Scored,
		"failed", summary.Failed,
		"passed", summary.Passed,
		"average_score", summary.AverageScore)

	return types.BatchScoreOutput{
		RequestID: requestID,
		Results:   results,
		Summary:   summary,
	}, nil
}

func summarize(results []types.BatchItemResult) types.BatchSummary {
	summary := types.BatchSummary{Total: len(results)}
	total := 0
	for _, result := range results {
		if result.Score == nil {
			summary.Failed++
			continue
		}
		summary.Scored++
		total += result.Score.Overall
		if result.Passed {
			summary.Passed++
		}
	}
	if summary.Scored > 0 {
		summary.AverageScore = (total + summary.Scored/2) / summary.Scored
	}
	return summary
}
