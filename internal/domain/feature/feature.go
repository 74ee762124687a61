// Package feature derives the numeric feature vector fed to the rating
// model. The component order is a contract with the trained artifacts and
// must never change.
package feature

import (
	"math"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
)

// Size is the fixed arity of the vector the model was trained on.
const Size = 15

const (
	// minFallbackParticipants floors the substituted participant count when
	// the registration figure is unusable.
	minFallbackParticipants = 10_000

	// finishTimeNormalizer scales the average finish time to roughly [0,1];
	// 5400s is the contest duration the model was trained against.
	finishTimeNormalizer = 5400.0
)

// Vector is an ordered, fixed-arity feature tuple. It has no identity beyond
// its position in the contest loop and is recomputed fresh each iteration.
type Vector [Size]float64

// ResolveTotalParticipants returns the participant count used for rank
// percentages. registerUserNum is a pre-registration figure; when it is zero
// or smaller than the observed rank it is stale, and rank*2 (floored at
// 10000) stands in for the real attendance.
func ResolveTotalParticipants(registeredUserCount, rank int) int {
	if registeredUserCount == 0 || registeredUserCount < rank {
		fallback := rank * 2
		if fallback < minFallbackParticipants {
			fallback = minFallbackParticipants
		}
		return fallback
	}
	return registeredUserCount
}

// Build assembles the vector for one contest from the current working
// profile state, the user-supplied contest entry, and provider metadata.
// Pure; no I/O.
func Build(profile types.UserProfile, req types.ContestRequest, meta types.ContestMeta) (Vector, int) {
	total := ResolveTotalParticipants(meta.RegisteredUserCount, req.Rank)

	rank := float64(req.Rank)
	totalF := float64(total)
	rankPercentage := rank * 100 / totalF
	logRank := math.Log1p(rank)
	ratingTimesPct := profile.CurrentRating * (rank / totalF)

	return Vector{
		profile.CurrentRating,
		rank,
		totalF,
		rankPercentage,
		float64(profile.AttendedContestsCount),
		profile.AvgSolveRate,
		profile.AvgFinishTime,
		profile.RecentSolveRate,
		profile.RecentFinishTime,
		profile.RatingTrend,
		profile.MaxRating,
		logRank,
		ratingTimesPct,
		profile.AvgSolveRate * profile.CurrentRating,
		profile.AvgFinishTime / finishTimeNormalizer,
	}, total
}
