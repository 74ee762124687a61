package leetcode_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/cache"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/leetcode"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type fakeProvider struct {
	calls   atomic.Int64
	handler func(query string, variables map[string]any) (string, int)
}

func (p *fakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	p.calls.Add(1)
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	body, status := p.handler(req.Query, req.Variables)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

const userPayload = `{
	"data": {
		"userContestRanking": {"attendedContestsCount": 10, "rating": 1500},
		"userContestRankingHistory": [
			{"attended": true, "problemsSolved": 3, "totalProblems": 4, "finishTimeInSeconds": 3600, "rating": 1500},
			{"attended": false, "problemsSolved": 0, "totalProblems": 4, "finishTimeInSeconds": 0, "rating": 1500},
			{"attended": true, "problemsSolved": 2, "totalProblems": 4, "finishTimeInSeconds": 1800, "rating": 1550}
		]
	}
}`

func newClient(t *testing.T, provider *fakeProvider, now *time.Time) (*leetcode.Client, *cache.MemoryCache) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(provider.serve))
	t.Cleanup(srv.Close)

	store, err := cache.NewMemoryCache(5*time.Minute, cache.WithNowFunc(func() time.Time { return *now }))
	So(err, ShouldBeNil)

	client := leetcode.New(store,
		leetcode.WithGraphQLURL(srv.URL),
		leetcode.WithHTTPClient(srv.Client()),
		leetcode.WithTimeout(2*time.Second),
	)
	return client, store
}

func TestFetchUserHistory(t *testing.T) {
	Convey("Given a provider returning contest history", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return userPayload, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("When fetching a user", func() {
			profile, err := client.FetchUserHistory(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then the ranking fields come through", func() {
				So(profile.CurrentRating, ShouldEqual, 1500.0)
				So(profile.AttendedContestsCount, ShouldEqual, 10)
			})

			Convey("Then only attended contests feed the rolling averages", func() {
				So(profile.AvgSolveRate, ShouldAlmostEqual, (0.75+0.5)/2, 1e-9)
				So(profile.AvgFinishTime, ShouldAlmostEqual, (3600.0+1800.0)/2, 1e-9)
				So(profile.RatingTrend, ShouldAlmostEqual, 50.0, 1e-9)
				So(profile.MaxRating, ShouldEqual, 1550.0)
			})
		})

		Convey("When fetching the same user twice within the TTL", func() {
			_, err := client.FetchUserHistory(ctx, "alice")
			So(err, ShouldBeNil)
			_, err = client.FetchUserHistory(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then exactly one outbound call happened", func() {
				So(provider.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the TTL expires between fetches", func() {
			_, err := client.FetchUserHistory(ctx, "alice")
			So(err, ShouldBeNil)
			now = now.Add(6 * time.Minute)
			_, err = client.FetchUserHistory(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then a second outbound call happened", func() {
				So(provider.calls.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a user with an empty contest history", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return `{"data": {
				"userContestRanking": {"attendedContestsCount": 0, "rating": 1500},
				"userContestRankingHistory": []
			}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("Then the neutral defaults fill every derived field", func() {
			profile, err := client.FetchUserHistory(ctx, "newbie")
			So(err, ShouldBeNil)
			So(profile.AvgSolveRate, ShouldEqual, 0.5)
			So(profile.AvgFinishTime, ShouldEqual, 3000.0)
			So(profile.RecentSolveRate, ShouldEqual, 0.5)
			So(profile.RecentFinishTime, ShouldEqual, 3000.0)
			So(profile.RatingTrend, ShouldEqual, 0.0)
			So(profile.MaxRating, ShouldEqual, 1500.0)
		})
	})

	Convey("Given a provider with no data for the user", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return `{"data": {"userContestRanking": null, "userContestRankingHistory": null}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("Then the fetch fails with not-found", func() {
			_, err := client.FetchUserHistory(ctx, "ghost")
			So(errors.Is(err, types.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable provider", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return "upstream exploded", http.StatusBadGateway
		}}
		client, _ := newClient(t, provider, &now)

		Convey("Then the fetch fails with unavailable", func() {
			_, err := client.FetchUserHistory(ctx, "alice")
			So(errors.Is(err, types.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a provider returning garbage", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return `{"data": "not an object`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("Then the fetch fails with unavailable", func() {
			_, err := client.FetchUserHistory(ctx, "alice")
			So(errors.Is(err, types.ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestFetchContestMeta(t *testing.T) {
	Convey("Given a provider returning contest metadata", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return `{"data": {"contestDetailPage": {"title": "Weekly Contest 400", "titleSlug": "weekly-contest-400", "registerUserNum": 5000}}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("When fetching a valid slug", func() {
			meta, err := client.FetchContestMeta(ctx, "weekly-contest-400")
			So(err, ShouldBeNil)
			So(meta.Title, ShouldEqual, "Weekly Contest 400")
			So(meta.Slug, ShouldEqual, "weekly-contest-400")
			So(meta.RegisteredUserCount, ShouldEqual, 5000)
		})

		Convey("When the slug is a traversal attempt", func() {
			_, err := client.FetchContestMeta(ctx, "../../etc/passwd")

			Convey("Then it is rejected before any network access", func() {
				So(errors.Is(err, types.ErrValidation), ShouldBeTrue)
				So(provider.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When fetching the same contest twice", func() {
			_, err := client.FetchContestMeta(ctx, "weekly-contest-400")
			So(err, ShouldBeNil)
			_, err = client.FetchContestMeta(ctx, "weekly-contest-400")
			So(err, ShouldBeNil)
			So(provider.calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a provider with no such contest", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(string, map[string]any) (string, int) {
			return `{"data": {"contestDetailPage": null}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("Then the fetch fails with not-found", func() {
			_, err := client.FetchContestMeta(ctx, "weekly-contest-9999")
			So(errors.Is(err, types.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestLatestContests(t *testing.T) {
	Convey("Given a provider listing upcoming contests", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(query string, _ map[string]any) (string, int) {
			if strings.Contains(query, "topTwoContests") {
				return `{"data": {"topTwoContests": [
					{"title": "Weekly Contest 400", "titleSlug": "weekly-contest-400"},
					{"title": "Biweekly Contest 120", "titleSlug": "biweekly-contest-120"}
				]}}`, http.StatusOK
			}
			return `{"data": {}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("When discovering the latest contests", func() {
			slugs, err := client.LatestContests(ctx)
			So(err, ShouldBeNil)
			So(slugs, ShouldResemble, []string{"weekly-contest-400", "biweekly-contest-120"})
			So(provider.calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given an empty upcoming list with a past-contest fallback", t, func() {
		ctx := context.Background()
		now := time.Unix(1_700_000_000, 0)
		provider := &fakeProvider{handler: func(query string, _ map[string]any) (string, int) {
			if strings.Contains(query, "topTwoContests") {
				return `{"data": {"topTwoContests": []}}`, http.StatusOK
			}
			return `{"data": {"pastContests": {"data": [
				{"title": "Weekly Contest 399", "titleSlug": "weekly-contest-399"},
				{"title": "Biweekly Contest 119", "titleSlug": "biweekly-contest-119"},
				{"title": "Weekly Contest 398", "titleSlug": "weekly-contest-398"}
			]}}}`, http.StatusOK
		}}
		client, _ := newClient(t, provider, &now)

		Convey("When discovering the latest contests", func() {
			slugs, err := client.LatestContests(ctx)
			So(err, ShouldBeNil)

			Convey("Then the fallback yields at most two slugs", func() {
				So(slugs, ShouldResemble, []string{"weekly-contest-399", "biweekly-contest-119"})
				So(provider.calls.Load(), ShouldEqual, 2)
			})
		})
	})
}
