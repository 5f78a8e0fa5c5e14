package server

import (
	"context"
	"net/http"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/observability"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Request bodies accepted by the scoring endpoints
type (
	ScoreRequest       = types.ScoreResumeInput
	BatchScoreRequest  = types.BatchScoreInput
	KeywordsRequest    = types.ExtractKeywordsInput
	CoverLetterRequest = types.ScoreCoverLetterInput
	InterviewRequest   = types.ScoreInterviewInput
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// scoringHandler decodes and validates a JSON request, runs operation in a
// span and writes the result.
func scoringHandler[Req, Resp any](
	s *Server,
	operation string,
	run func(context.Context, Req) (Resp, error),
	describe func(Req) []attribute.KeyValue,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx, span := s.om.Tracer("atsscore.api").Start(ctx, "api."+operation)
		defer span.End()

		var req Req
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeRequestError(w, err)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", validationMessage(err), http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("operation", operation))
		if describe != nil {
			span.SetAttributes(describe(req)...)
		}

		result, err := run(ctx, req)
		if err != nil {
			span.RecordError(err)
			s.writeServiceError(w, r, err)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) createScoreHandler() http.HandlerFunc {
	return scoringHandler(s, "score", s.Service.ScoreResume, func(req ScoreRequest) []attribute.KeyValue {
		return []attribute.KeyValue{
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Bool("request.save", req.Save),
		}
	})
}

func (s *Server) createBatchHandler() http.HandlerFunc {
	return scoringHandler(s, "score_batch", s.Service.ScoreBatch, func(req BatchScoreRequest) []attribute.KeyValue {
		return []attribute.KeyValue{
			attribute.Int("request.items", len(req.Items)),
			attribute.Int("request.job_length", len(req.JobDescription)),
		}
	})
}

func (s *Server) createKeywordsHandler() http.HandlerFunc {
	return scoringHandler(s, "keywords", s.Service.ExtractKeywords, func(req KeywordsRequest) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.Int("request.job_length", len(req.JobDescription))}
	})
}

func (s *Server) createCoverLetterHandler() http.HandlerFunc {
	return scoringHandler(s, "cover_letter", s.Service.ScoreCoverLetter, func(req CoverLetterRequest) []attribute.KeyValue {
		return []attribute.KeyValue{
			attribute.Int("request.letter_length", len(req.CoverLetterText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
		}
	})
}

func (s *Server) createInterviewHandler() http.HandlerFunc {
	return scoringHandler(s, "interview", s.Service.ScoreInterview, func(req InterviewRequest) []attribute.KeyValue {
		return []attribute.KeyValue{
			attribute.Int("request.question_length", len(req.Question)),
			attribute.Int("request.answer_length", len(req.Answer)),
		}
	})
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
