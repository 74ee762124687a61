// Package types contains common types used across the application.
package types

import (
	"fmt"
	"regexp"
)

// Validation limits. Config may tighten these but never loosens them.
const (
	MaxUsernameLength = 50
	MaxRank           = 1_000_000
)

var (
	usernameRE    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	contestSlugRE = regexp.MustCompile(`^(weekly|biweekly)-contest-\d+$`)
)

// UserProfile is the per-request read model derived from a user's contest
// history. It is immutable after construction; the predictor keeps its own
// working copy of the rating and attendance counters.
type UserProfile struct {
	CurrentRating         float64 `json:"rating"`
	AttendedContestsCount int     `json:"attendedContestsCount"`
	AvgSolveRate          float64 `json:"avgSolveRate"`
	AvgFinishTime         float64 `json:"avgFinishTime"`
	RecentSolveRate       float64 `json:"recentSolveRate"`
	RecentFinishTime      float64 `json:"recentFinishTime"`
	RatingTrend           float64 `json:"ratingTrend"`
	MaxRating             float64 `json:"maxRating"`
}

// ContestRequest is one user-supplied contest entry.
type ContestRequest struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// ContestMeta is the provider-side view of a contest. RegisteredUserCount is
// a pre-registration figure, not final attendance; it undercounts or is zero
// for brand-new contests.
type ContestMeta struct {
	Title               string `json:"title"`
	Slug                string `json:"titleSlug"`
	RegisteredUserCount int    `json:"registerUserNum"`
}

// PredictionResult is one row of the ordered response list.
type PredictionResult struct {
	ContestName           string  `json:"contest_name"`
	PredictedChange       float64 `json:"prediction"`
	RatingBefore          float64 `json:"rating_before_contest"`
	Rank                  int     `json:"rank"`
	TotalParticipants     int     `json:"total_participants"`
	RatingAfter           float64 `json:"rating_after_contest"`
	AttendedContestsCount int     `json:"attended_contests_count"`
}

// ValidateUsername rejects usernames that could reach an outbound query as
// anything but an opaque identifier. The raw string is matched as-is, so
// whitespace padding fails rather than silently diverging from the value
// used for cache keys and query variables. maxLen <= 0 falls back to
// MaxUsernameLength.
func ValidateUsername(username string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = MaxUsernameLength
	}
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if len(username) > maxLen {
		return fmt.Errorf("%w: username exceeds %d characters", ErrValidation, maxLen)
	}
	if !usernameRE.MatchString(username) {
		return fmt.Errorf("%w: username contains invalid characters", ErrValidation)
	}
	return nil
}

// ValidContestSlug reports whether name matches the closed contest slug
// pattern. Anything else must never reach an outbound URL or query variable.
func ValidContestSlug(name string) bool {
	return contestSlugRE.MatchString(name)
}

// Validate checks a single contest entry. maxRank <= 0 falls back to MaxRank.
func (c ContestRequest) Validate(maxRank int) error {
	if maxRank <= 0 {
		maxRank = MaxRank
	}
	if !ValidContestSlug(c.Name) {
		return fmt.Errorf("%w: contest name %q must match (weekly|biweekly)-contest-<n>", ErrValidation, c.Name)
	}
	if c.Rank <= 0 {
		return fmt.Errorf("%w: rank must be a positive integer", ErrValidation)
	}
	if c.Rank > maxRank {
		return fmt.Errorf("%w: rank exceeds maximum of %d", ErrValidation, maxRank)
	}
	return nil
}
