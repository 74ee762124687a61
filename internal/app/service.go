// Package service provides the core business service that implements the
// dependencies required by the HTTP API: the sequential multi-contest
// rating predictor.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/feature"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/inference"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/logger"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/metrics"
)

// ContestDataSource is the remote-client surface the predictor consumes.
type ContestDataSource interface {
	FetchUserHistory(ctx context.Context, username string) (types.UserProfile, error)
	FetchContestMeta(ctx context.Context, contestName string) (types.ContestMeta, error)
	LatestContests(ctx context.Context) ([]string, error)
}

// Service owns the per-request prediction flow. The data source, cache, and
// admission gate behind it are the only state shared across concurrent
// requests; everything else lives on the stack of one Predict call.
type Service struct {
	mu sync.RWMutex

	source ContestDataSource
	engine inference.Engine

	maxRank           int
	maxUsernameLength int

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataSource sets the remote contest-data client.
func WithDataSource(source ContestDataSource) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithEngine sets the prediction engine.
func WithEngine(engine inference.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithMaxRank caps the accepted contest rank.
func WithMaxRank(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRank = n
		}
	}
}

// WithMaxUsernameLength caps the accepted username length.
func WithMaxUsernameLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUsernameLength = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default limits.
func New(opts ...Option) *Service {
	s := &Service{
		maxRank:           types.MaxRank,
		maxUsernameLength: types.MaxUsernameLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start verifies the injected dependencies are present.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get().Named("predictor")
	}
	if s.source == nil {
		return errors.New("service requires a contest data source")
	}
	if s.engine == nil {
		return fmt.Errorf("%w: no prediction engine configured", types.ErrModelUnavailable)
	}

	s.started = true
	s.log.Info(ctx, "prediction service started",
		logger.Int("maxRank", s.maxRank),
		logger.Int("maxUsernameLength", s.maxUsernameLength),
	)
	return nil
}

// Stop marks the service stopped. The shared collaborators it was built
// with are owned and torn down by the caller that constructed them.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// Ready reports whether Start completed.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Predict runs the sequential contest loop for one request. Contests are
// processed strictly in input order because each iteration's features
// depend on the rating and attendance produced by the previous one. Any
// failure aborts the whole request; the caller never sees partial results.
func (s *Service) Predict(ctx context.Context, username string, contests []types.ContestRequest) ([]types.PredictionResult, error) {
	start := time.Now()

	if err := s.validate(username, contests); err != nil {
		metrics.RecordPredictionError(FailureKind(err))
		return nil, err
	}

	profile, err := s.source.FetchUserHistory(ctx, username)
	if err != nil {
		metrics.RecordPredictionError(FailureKind(err))
		return nil, err
	}

	// Working state threaded through the loop. The profile itself stays
	// immutable; only these two counters evolve.
	rating := profile.CurrentRating
	attended := profile.AttendedContestsCount

	results := make([]types.PredictionResult, 0, len(contests))
	for _, contest := range contests {
		meta, err := s.source.FetchContestMeta(ctx, contest.Name)
		if err != nil {
			metrics.RecordPredictionError(FailureKind(err))
			return nil, err
		}

		working := profile
		working.CurrentRating = rating
		working.AttendedContestsCount = attended
		vec, totalParticipants := feature.Build(working, contest, meta)

		change, err := s.engine.Predict(ctx, vec)
		if err != nil {
			metrics.RecordPredictionError(FailureKind(err))
			return nil, err
		}
		newRating := rating + change

		results = append(results, types.PredictionResult{
			ContestName:           contest.Name,
			PredictedChange:       change,
			RatingBefore:          rating,
			Rank:                  contest.Rank,
			TotalParticipants:     totalParticipants,
			RatingAfter:           newRating,
			AttendedContestsCount: attended,
		})

		rating = newRating
		attended++
	}

	metrics.RecordPrediction(len(contests), time.Since(start).Seconds())
	s.log.Debug(ctx, "prediction complete",
		logger.String("username", username),
		logger.Int("contests", len(contests)),
		logger.Float64("finalRating", rating),
	)
	return results, nil
}

// LatestContests exposes the discovery endpoint's data.
func (s *Service) LatestContests(ctx context.Context) ([]string, error) {
	return s.source.LatestContests(ctx)
}

// validate rejects malformed input before any I/O. An empty contest list is
// accepted; it yields an empty result list, not an error.
func (s *Service) validate(username string, contests []types.ContestRequest) error {
	if err := types.ValidateUsername(username, s.maxUsernameLength); err != nil {
		return err
	}
	for _, contest := range contests {
		if err := contest.Validate(s.maxRank); err != nil {
			return err
		}
	}
	return nil
}

// FailureKind maps an error to its taxonomy label for metrics and the HTTP
// boundary.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, types.ErrValidation):
		return "validation_failed"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, types.ErrModelUnavailable), errors.Is(err, inference.ErrNotLoaded):
		return "model_unavailable"
	case errors.Is(err, types.ErrPredictionFailed), errors.Is(err, inference.ErrNumericFailure), errors.Is(err, inference.ErrShapeMismatch):
		return "prediction_failed"
	default:
		return "internal"
	}
}
