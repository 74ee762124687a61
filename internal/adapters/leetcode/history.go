package leetcode

import "github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"

// Neutral defaults substituted for missing per-contest history fields so
// users with sparse or malformed history still yield well-formed features.
const (
	defaultSolveRate     = 0.5
	defaultFinishTime    = 3000.0
	defaultRating        = 1500.0
	defaultTotalProblems = 4
	recentWindow         = 5
)

// Inbound wire shapes. The provider payload is duck-typed; decode it into
// strict structures here and never let partial data past this boundary.

type contestRanking struct {
	AttendedContestsCount int     `json:"attendedContestsCount"`
	Rating                float64 `json:"rating"`
}

type historyEntry struct {
	Attended            bool     `json:"attended"`
	ProblemsSolved      *int     `json:"problemsSolved"`
	TotalProblems       *int     `json:"totalProblems"`
	FinishTimeInSeconds *float64 `json:"finishTimeInSeconds"`
	Rating              *float64 `json:"rating"`
}

type userRankingResponse struct {
	Data struct {
		UserContestRanking        *contestRanking `json:"userContestRanking"`
		UserContestRankingHistory []historyEntry  `json:"userContestRankingHistory"`
	} `json:"data"`
}

type contestDetailResponse struct {
	Data struct {
		ContestDetailPage *struct {
			Title           string `json:"title"`
			TitleSlug       string `json:"titleSlug"`
			RegisterUserNum int    `json:"registerUserNum"`
		} `json:"contestDetailPage"`
	} `json:"data"`
}

type contestListing struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
}

type topContestsResponse struct {
	Data struct {
		TopTwoContests []contestListing `json:"topTwoContests"`
	} `json:"data"`
}

type pastContestsResponse struct {
	Data struct {
		PastContests struct {
			Data []contestListing `json:"data"`
		} `json:"pastContests"`
	} `json:"data"`
}

// deriveProfile computes the rolling-average features from the attended
// portion of the user's contest history.
func deriveProfile(ranking contestRanking, history []historyEntry) types.UserProfile {
	var solveRates, finishTimes, ratings []float64
	for _, h := range history {
		if !h.Attended {
			continue
		}
		totalProblems := defaultTotalProblems
		if h.TotalProblems != nil && *h.TotalProblems > 0 {
			totalProblems = *h.TotalProblems
		}
		solved := 0
		if h.ProblemsSolved != nil {
			solved = *h.ProblemsSolved
		}
		solveRates = append(solveRates, float64(solved)/float64(totalProblems))

		if h.FinishTimeInSeconds != nil && *h.FinishTimeInSeconds > 0 {
			finishTimes = append(finishTimes, *h.FinishTimeInSeconds)
		}

		rating := defaultRating
		if h.Rating != nil {
			rating = *h.Rating
		}
		ratings = append(ratings, rating)
	}

	// Trend is the rolling average of consecutive rating deltas over the
	// last transitions in the window.
	deltas := make([]float64, 0, len(ratings))
	for i := 1; i < len(ratings); i++ {
		deltas = append(deltas, ratings[i]-ratings[i-1])
	}

	maxRating := defaultRating
	for i, r := range ratings {
		if i == 0 || r > maxRating {
			maxRating = r
		}
	}

	return types.UserProfile{
		CurrentRating:         ranking.Rating,
		AttendedContestsCount: ranking.AttendedContestsCount,
		AvgSolveRate:          avg(solveRates, defaultSolveRate),
		AvgFinishTime:         avg(finishTimes, defaultFinishTime),
		RecentSolveRate:       avg(tail(solveRates, recentWindow), defaultSolveRate),
		RecentFinishTime:      avg(tail(finishTimes, recentWindow), defaultFinishTime),
		RatingTrend:           avg(tail(deltas, recentWindow), 0),
		MaxRating:             maxRating,
	}
}

func avg(vals []float64, fallback float64) float64 {
	if len(vals) == 0 {
		return fallback
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
