package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmih06/profile-stats/internal/domain"
)

// mockCalendarFetcher is a mock implementation of the gateway.CalendarFetcher
// interface, simulating the GitHub contribution calendar without API calls.
type mockCalendarFetcher struct {
	mock.Mock
}

func (m *mockCalendarFetcher) FetchCalendar(ctx context.Context, year int, from, to time.Time) (domain.YearRollup, []domain.DayRecord, error) {
	args := m.Called(ctx, year, from, to)
	if args.Get(1) == nil {
		return args.Get(0).(domain.YearRollup), nil, args.Error(2)
	}
	return args.Get(0).(domain.YearRollup), args.Get(1).([]domain.DayRecord), args.Error(2)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string, count int) domain.DayRecord {
	return domain.DayRecord{Date: date(s), Count: count}
}

func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name     string
		rollup   domain.YearRollup
		days     []domain.DayRecord
		today    time.Time
		expected domain.ActivitySummary
	}{
		{
			name:   "streak broken by a zero day, trailing day restarts it",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 15, Commits: 12, PullRequests: 2, Issues: 1},
			days: []domain.DayRecord{
				day("2024-01-01", 5),
				day("2024-01-02", 3),
				day("2024-01-03", 0),
				day("2024-01-04", 7),
			},
			today: date("2024-01-04"),
			expected: domain.ActivitySummary{
				TotalContributions: 15,
				TotalCommits:       12,
				TotalPRs:           2,
				TotalIssues:        1,
				CurrentStreak:      1,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-02"), Length: 2},
				BestDay:            domain.BestDay{Date: date("2024-01-04"), Count: 7},
				AveragePerDay:      3.75,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "open trailing streak becomes the longest",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 3},
			days: []domain.DayRecord{
				day("2024-01-01", 1),
				day("2024-01-02", 1),
				day("2024-01-03", 1),
			},
			today: date("2024-01-03"),
			expected: domain.ActivitySummary{
				TotalContributions: 3,
				CurrentStreak:      3,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-03"), Length: 3},
				BestDay:            domain.BestDay{Date: date("2024-01-01"), Count: 1},
				AveragePerDay:      1,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "data ending before yesterday means the streak is broken",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 6},
			days: []domain.DayRecord{
				day("2024-01-01", 2),
				day("2024-01-02", 1),
				day("2024-01-03", 3),
			},
			today: date("2024-01-05"),
			expected: domain.ActivitySummary{
				TotalContributions: 6,
				CurrentStreak:      0,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-03"), Length: 3},
				BestDay:            domain.BestDay{Date: date("2024-01-03"), Count: 3},
				AveragePerDay:      2,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "single active day equal to today",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 3},
			days:   []domain.DayRecord{day("2024-01-01", 3)},
			today:  date("2024-01-01"),
			expected: domain.ActivitySummary{
				TotalContributions: 3,
				CurrentStreak:      1,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-01"), Length: 1},
				BestDay:            domain.BestDay{Date: date("2024-01-01"), Count: 3},
				AveragePerDay:      3,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "all-zero sequence yields a zero summary",
			rollup: domain.YearRollup{Year: 2024},
			days: []domain.DayRecord{
				day("2024-01-01", 0),
				day("2024-01-02", 0),
				day("2024-01-03", 0),
			},
			today: date("2024-01-03"),
			expected: domain.ActivitySummary{
				ObservationStart: date("2024-01-01"),
			},
		},
		{
			name:   "best day tie goes to the earlier date",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 10},
			days: []domain.DayRecord{
				day("2024-01-01", 5),
				day("2024-01-02", 0),
				day("2024-01-03", 5),
			},
			today: date("2024-01-03"),
			expected: domain.ActivitySummary{
				TotalContributions: 10,
				CurrentStreak:      1,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-01"), Length: 1},
				BestDay:            domain.BestDay{Date: date("2024-01-01"), Count: 5},
				AveragePerDay:      10.0 / 3.0,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "yesterday active but no entry for today keeps the streak alive",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 4},
			days: []domain.DayRecord{
				day("2024-01-01", 2),
				day("2024-01-02", 2),
			},
			today: date("2024-01-03"),
			expected: domain.ActivitySummary{
				TotalContributions: 4,
				CurrentStreak:      2,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-02"), Length: 2},
				BestDay:            domain.BestDay{Date: date("2024-01-01"), Count: 2},
				AveragePerDay:      2,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "a date gap stops the backward streak scan",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 5},
			days: []domain.DayRecord{
				day("2024-01-01", 2),
				day("2024-01-03", 3),
			},
			today: date("2024-01-03"),
			expected: domain.ActivitySummary{
				TotalContributions: 5,
				CurrentStreak:      1,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-03"), Length: 2},
				BestDay:            domain.BestDay{Date: date("2024-01-03"), Count: 3},
				AveragePerDay:      2.5,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "malformed negative-count records are skipped",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 2},
			days: []domain.DayRecord{
				day("2024-01-01", -3),
				day("2024-01-02", 2),
			},
			today: date("2024-01-02"),
			expected: domain.ActivitySummary{
				TotalContributions: 2,
				CurrentStreak:      1,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-02"), End: date("2024-01-02"), Length: 1},
				BestDay:            domain.BestDay{Date: date("2024-01-02"), Count: 2},
				AveragePerDay:      2,
				ObservationStart:   date("2024-01-01"),
			},
		},
		{
			name:   "future-dated days are excluded from the average",
			rollup: domain.YearRollup{Year: 2024, TotalContributions: 4},
			days: []domain.DayRecord{
				day("2024-01-01", 2),
				day("2024-01-02", 2),
				day("2024-01-05", 9),
			},
			today: date("2024-01-02"),
			expected: domain.ActivitySummary{
				TotalContributions: 4,
				CurrentStreak:      2,
				LongestStreak:      domain.StreakWindow{Start: date("2024-01-01"), End: date("2024-01-05"), Length: 3},
				BestDay:            domain.BestDay{Date: date("2024-01-05"), Count: 9},
				AveragePerDay:      2,
				ObservationStart:   date("2024-01-01"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockCalendarFetcher)
			fetcher.On("FetchCalendar", mock.Anything, tc.rollup.Year, mock.Anything, mock.Anything).
				Return(tc.rollup, tc.days, nil)

			aggregator := NewAggregator(fetcher, logger)
			summary, err := aggregator.Aggregate(context.Background(), []int{tc.rollup.Year}, tc.today)

			require.NoError(t, err)
			assert.Equal(t, tc.expected.TotalContributions, summary.TotalContributions)
			assert.Equal(t, tc.expected.TotalCommits, summary.TotalCommits)
			assert.Equal(t, tc.expected.TotalPRs, summary.TotalPRs)
			assert.Equal(t, tc.expected.TotalPRReviews, summary.TotalPRReviews)
			assert.Equal(t, tc.expected.TotalIssues, summary.TotalIssues)
			assert.Equal(t, tc.expected.CurrentStreak, summary.CurrentStreak)
			assert.Equal(t, tc.expected.LongestStreak, summary.LongestStreak)
			assert.Equal(t, tc.expected.BestDay, summary.BestDay)
			assert.InDelta(t, tc.expected.AveragePerDay, summary.AveragePerDay, 1e-9)
			assert.Equal(t, tc.expected.ObservationStart, summary.ObservationStart)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Aggregate_MultiYear(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockCalendarFetcher)
	today := date("2025-06-15")

	// The current year's range must be clamped to today rather than Dec 31.
	fetcher.On("FetchCalendar", mock.Anything, 2024,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)).
		Return(
			domain.YearRollup{Year: 2024, TotalContributions: 2, Commits: 2},
			[]domain.DayRecord{day("2024-12-30", 0), day("2024-12-31", 2)},
			nil,
		)
	fetcher.On("FetchCalendar", mock.Anything, 2025,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 15, 23, 59, 59, 0, time.UTC)).
		Return(
			domain.YearRollup{Year: 2025, TotalContributions: 3, Commits: 1, PullRequestReviews: 2},
			[]domain.DayRecord{day("2025-01-01", 3), day("2025-01-02", 0)},
			nil,
		)

	aggregator := NewAggregator(fetcher, logger)
	// Years arrive unsorted; the merge must still run in ascending order.
	summary, err := aggregator.Aggregate(context.Background(), []int{2025, 2024}, today)

	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalContributions)
	assert.Equal(t, 3, summary.TotalCommits)
	assert.Equal(t, 2, summary.TotalPRReviews)
	// The streak spans the year boundary.
	assert.Equal(t, domain.StreakWindow{Start: date("2024-12-31"), End: date("2025-01-01"), Length: 2}, summary.LongestStreak)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Equal(t, domain.BestDay{Date: date("2025-01-01"), Count: 3}, summary.BestDay)
	assert.InDelta(t, 1.25, summary.AveragePerDay, 1e-9)
	assert.Equal(t, date("2024-01-01"), summary.ObservationStart)
	fetcher.AssertExpectations(t)
}

func TestAggregator_Aggregate_NoYears(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockCalendarFetcher)

	aggregator := NewAggregator(fetcher, logger)
	summary, err := aggregator.Aggregate(context.Background(), nil, date("2024-01-01"))

	require.NoError(t, err)
	assert.Equal(t, domain.ActivitySummary{}, summary)
	fetcher.AssertNotCalled(t, "FetchCalendar")
}

func TestAggregator_Aggregate_FetchError(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockCalendarFetcher)
	fetcher.On("FetchCalendar", mock.Anything, 2024, mock.Anything, mock.Anything).
		Return(domain.YearRollup{}, nil, errors.New("github api error"))

	aggregator := NewAggregator(fetcher, logger)
	_, err := aggregator.Aggregate(context.Background(), []int{2024}, date("2024-06-01"))

	assert.Error(t, err)
}

func TestAggregator_Aggregate_Idempotent(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockCalendarFetcher)
	fetcher.On("FetchCalendar", mock.Anything, 2024, mock.Anything, mock.Anything).
		Return(
			domain.YearRollup{Year: 2024, TotalContributions: 8},
			[]domain.DayRecord{day("2024-03-01", 4), day("2024-03-02", 0), day("2024-03-03", 4)},
			nil,
		)

	aggregator := NewAggregator(fetcher, logger)
	first, err := aggregator.Aggregate(context.Background(), []int{2024}, date("2024-03-03"))
	require.NoError(t, err)
	second, err := aggregator.Aggregate(context.Background(), []int{2024}, date("2024-03-03"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
