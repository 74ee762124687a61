package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/app"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/feature"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// fakeSource serves canned profiles and contest metadata while counting
// remote activity.
type fakeSource struct {
	profile      types.UserProfile
	profileErr   error
	metas        map[string]types.ContestMeta
	metaErr      map[string]error
	userFetches  int
	metaFetches  []string
	latest       []string
	latestCalled bool
}

func (f *fakeSource) FetchUserHistory(_ context.Context, _ string) (types.UserProfile, error) {
	f.userFetches++
	if f.profileErr != nil {
		return types.UserProfile{}, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeSource) FetchContestMeta(_ context.Context, name string) (types.ContestMeta, error) {
	f.metaFetches = append(f.metaFetches, name)
	if err := f.metaErr[name]; err != nil {
		return types.ContestMeta{}, err
	}
	meta, ok := f.metas[name]
	if !ok {
		return types.ContestMeta{}, fmt.Errorf("%w: no data for contest %q", types.ErrNotFound, name)
	}
	return meta, nil
}

func (f *fakeSource) LatestContests(_ context.Context) ([]string, error) {
	f.latestCalled = true
	return f.latest, nil
}

// fixedEngine returns a constant change, or cycles through a list.
type fixedEngine struct {
	changes []float64
	calls   int
	vectors []feature.Vector
	err     error
}

func (e *fixedEngine) Predict(_ context.Context, vec feature.Vector) (float64, error) {
	e.vectors = append(e.vectors, vec)
	if e.err != nil {
		return 0, e.err
	}
	change := e.changes[e.calls%len(e.changes)]
	e.calls++
	return change, nil
}

func newService(t *testing.T, source *fakeSource, engine *fixedEngine) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithDataSource(source),
		service.WithEngine(engine),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestPredictSingleContest(t *testing.T) {
	Convey("Given alice with rating 1500 and one contest", t, func() {
		source := &fakeSource{
			profile: types.UserProfile{CurrentRating: 1500, AttendedContestsCount: 10},
			metas: map[string]types.ContestMeta{
				"weekly-contest-400": {Slug: "weekly-contest-400", RegisteredUserCount: 5000},
			},
		}
		engine := &fixedEngine{changes: []float64{20.0}}
		svc := newService(t, source, engine)

		Convey("When predicting", func() {
			results, err := svc.Predict(context.Background(), "alice", []types.ContestRequest{
				{Name: "weekly-contest-400", Rank: 1000},
			})
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)

			Convey("Then the result matches the worked example", func() {
				r := results[0]
				So(r.ContestName, ShouldEqual, "weekly-contest-400")
				So(r.TotalParticipants, ShouldEqual, 5000)
				So(r.RatingBefore, ShouldEqual, 1500.0)
				So(r.PredictedChange, ShouldEqual, 20.0)
				So(r.RatingAfter, ShouldEqual, 1520.0)
				So(r.AttendedContestsCount, ShouldEqual, 10)
			})
		})
	})
}

func TestPredictSequentialState(t *testing.T) {
	Convey("Given a multi-contest request", t, func() {
		source := &fakeSource{
			profile: types.UserProfile{CurrentRating: 1500, AttendedContestsCount: 10, AvgSolveRate: 0.5},
			metas: map[string]types.ContestMeta{
				"weekly-contest-400":   {RegisteredUserCount: 5000},
				"biweekly-contest-120": {RegisteredUserCount: 4000},
				"weekly-contest-401":   {RegisteredUserCount: 6000},
			},
		}
		engine := &fixedEngine{changes: []float64{20, -35.5, 12.25}}
		svc := newService(t, source, engine)

		contests := []types.ContestRequest{
			{Name: "weekly-contest-400", Rank: 1000},
			{Name: "biweekly-contest-120", Rank: 250},
			{Name: "weekly-contest-401", Rank: 4200},
		}

		Convey("When predicting", func() {
			results, err := svc.Predict(context.Background(), "alice", contests)
			So(err, ShouldBeNil)

			Convey("Then length and order mirror the input", func() {
				So(results, ShouldHaveLength, len(contests))
				for i := range results {
					So(results[i].ContestName, ShouldEqual, contests[i].Name)
				}
			})

			Convey("Then ratingAfter is exactly ratingBefore plus the change", func() {
				for _, r := range results {
					So(r.RatingAfter, ShouldEqual, r.RatingBefore+r.PredictedChange)
				}
			})

			Convey("Then each iteration consumes the previous iteration's output", func() {
				for i := 1; i < len(results); i++ {
					So(results[i].RatingBefore, ShouldEqual, results[i-1].RatingAfter)
					So(results[i].AttendedContestsCount, ShouldEqual, results[i-1].AttendedContestsCount+1)
				}
			})

			Convey("Then the evolving rating feeds the feature vector", func() {
				So(engine.vectors, ShouldHaveLength, 3)
				So(engine.vectors[0][0], ShouldEqual, 1500.0)
				So(engine.vectors[1][0], ShouldEqual, 1520.0)
				So(engine.vectors[2][0], ShouldEqual, 1484.5)
				So(engine.vectors[1][4], ShouldEqual, 11.0)
			})

			Convey("Then contests were fetched strictly in input order", func() {
				So(source.metaFetches, ShouldResemble, []string{
					"weekly-contest-400", "biweekly-contest-120", "weekly-contest-401",
				})
			})
		})
	})
}

func TestPredictValidation(t *testing.T) {
	Convey("Given malformed input", t, func() {
		source := &fakeSource{}
		engine := &fixedEngine{changes: []float64{0}}
		svc := newService(t, source, engine)
		ctx := context.Background()

		cases := []struct {
			about    string
			username string
			contests []types.ContestRequest
		}{
			{"a traversal contest name", "alice", []types.ContestRequest{{Name: "../../etc/passwd", Rank: 10}}},
			{"a zero rank", "alice", []types.ContestRequest{{Name: "weekly-contest-400", Rank: 0}}},
			{"a negative rank", "alice", []types.ContestRequest{{Name: "weekly-contest-400", Rank: -1}}},
			{"an oversized rank", "alice", []types.ContestRequest{{Name: "weekly-contest-400", Rank: 2_000_000}}},
			{"a script-tag username", "<script>", []types.ContestRequest{{Name: "weekly-contest-400", Rank: 10}}},
			{"a whitespace-padded username", " alice ", nil},
		}

		for _, tc := range cases {
			Convey("When the request carries "+tc.about, func() {
				_, err := svc.Predict(ctx, tc.username, tc.contests)

				Convey("Then it fails validation with zero I/O", func() {
					So(errors.Is(err, types.ErrValidation), ShouldBeTrue)
					So(source.userFetches, ShouldEqual, 0)
					So(source.metaFetches, ShouldBeEmpty)
				})
			})
		}
	})
}

func TestPredictEmptyContestList(t *testing.T) {
	Convey("Given an empty contest list", t, func() {
		source := &fakeSource{profile: types.UserProfile{CurrentRating: 1500}}
		engine := &fixedEngine{changes: []float64{0}}
		svc := newService(t, source, engine)

		Convey("When predicting", func() {
			results, err := svc.Predict(context.Background(), "alice", nil)

			Convey("Then the result is an empty list, not an error", func() {
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
				So(source.userFetches, ShouldEqual, 1)
			})
		})
	})
}

func TestPredictAbortsWholeBatch(t *testing.T) {
	Convey("Given a contest that fails to fetch mid-batch", t, func() {
		source := &fakeSource{
			profile: types.UserProfile{CurrentRating: 1500, AttendedContestsCount: 10},
			metas: map[string]types.ContestMeta{
				"weekly-contest-400": {RegisteredUserCount: 5000},
			},
			metaErr: map[string]error{
				"weekly-contest-401": fmt.Errorf("%w: timeout", types.ErrUnavailable),
			},
		}
		engine := &fixedEngine{changes: []float64{20}}
		svc := newService(t, source, engine)

		Convey("When predicting across the failure", func() {
			results, err := svc.Predict(context.Background(), "alice", []types.ContestRequest{
				{Name: "weekly-contest-400", Rank: 1000},
				{Name: "weekly-contest-401", Rank: 1000},
				{Name: "weekly-contest-402", Rank: 1000},
			})

			Convey("Then the whole request fails with no partial results", func() {
				So(errors.Is(err, types.ErrUnavailable), ShouldBeTrue)
				So(results, ShouldBeNil)
			})

			Convey("Then contests after the failure were never fetched", func() {
				So(source.metaFetches, ShouldResemble, []string{"weekly-contest-400", "weekly-contest-401"})
			})
		})
	})

	Convey("Given a user fetch failure", t, func() {
		source := &fakeSource{profileErr: fmt.Errorf("%w: no contest data", types.ErrNotFound)}
		engine := &fixedEngine{changes: []float64{0}}
		svc := newService(t, source, engine)

		Convey("Then the request is terminal before any contest fetch", func() {
			results, err := svc.Predict(context.Background(), "alice", []types.ContestRequest{
				{Name: "weekly-contest-400", Rank: 1000},
			})
			So(errors.Is(err, types.ErrNotFound), ShouldBeTrue)
			So(results, ShouldBeNil)
			So(source.metaFetches, ShouldBeEmpty)
		})
	})

	Convey("Given an engine failure", t, func() {
		source := &fakeSource{
			profile: types.UserProfile{CurrentRating: 1500},
			metas: map[string]types.ContestMeta{
				"weekly-contest-400": {RegisteredUserCount: 5000},
			},
		}
		engine := &fixedEngine{err: fmt.Errorf("%w: scaler blew up", types.ErrPredictionFailed)}
		svc := newService(t, source, engine)

		Convey("Then the request is terminal", func() {
			results, err := svc.Predict(context.Background(), "alice", []types.ContestRequest{
				{Name: "weekly-contest-400", Rank: 1000},
			})
			So(errors.Is(err, types.ErrPredictionFailed), ShouldBeTrue)
			So(results, ShouldBeNil)
		})
	})
}

func TestFailureKind(t *testing.T) {
	Convey("Given the failure taxonomy", t, func() {
		So(service.FailureKind(types.ErrValidation), ShouldEqual, "validation_failed")
		So(service.FailureKind(types.ErrNotFound), ShouldEqual, "not_found")
		So(service.FailureKind(types.ErrUnavailable), ShouldEqual, "unavailable")
		So(service.FailureKind(types.ErrModelUnavailable), ShouldEqual, "model_unavailable")
		So(service.FailureKind(types.ErrPredictionFailed), ShouldEqual, "prediction_failed")
		So(service.FailureKind(errors.New("anything else")), ShouldEqual, "internal")
	})
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service missing its engine", t, func() {
		svc := service.New(service.WithDataSource(&fakeSource{}))

		Convey("Then Start refuses", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, types.ErrModelUnavailable), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a fully wired service", t, func() {
		svc := newService(t, &fakeSource{}, &fixedEngine{changes: []float64{0}})
		So(svc.Ready(), ShouldBeTrue)

		Convey("When stopped", func() {
			svc.Stop()
			So(svc.Ready(), ShouldBeFalse)
		})
	})
}
