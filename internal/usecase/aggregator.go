// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/tmih06/profile-stats/internal/domain"
	"github.com/tmih06/profile-stats/internal/gateway"
)

// Aggregator computes activity summaries from the contribution calendar.
// It owns no external resources; all I/O happens through the fetcher.
type Aggregator struct {
	fetcher gateway.CalendarFetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.CalendarFetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// yearRange returns the calendar query bounds for one year. The current
// year's upper bound is clamped to today; days past today do not exist in
// the contribution history.
func yearRange(year int, today time.Time) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	if year == today.Year() {
		to = time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, time.UTC)
	}
	return from, to
}

// dateOnly truncates a timestamp to midnight UTC, the granularity of
// calendar day records.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Aggregate fetches the contribution calendar for every requested year and
// derives the activity summary: totals, current and longest streak, best
// day and average contributions per day. The years may arrive in any order;
// today is passed in explicitly so the streak logic is deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, years []int, today time.Time) (domain.ActivitySummary, error) {
	var summary domain.ActivitySummary
	if len(years) == 0 {
		return summary, nil
	}
	today = dateOnly(today)

	sortedYears := append([]int(nil), years...)
	sort.Ints(sortedYears)
	sortedYears = dedupe(sortedYears)

	a.logger.Printf("Usecase: aggregating %d contribution years...", len(sortedYears))

	// Fetch the years concurrently, but keep the results indexed by year so
	// the merge below stays in ascending-year order regardless of which
	// fetch finishes first.
	type yearData struct {
		rollup domain.YearRollup
		days   []domain.DayRecord
	}
	results := make([]yearData, len(sortedYears))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, year := range sortedYears {
		i, year := i, year
		eg.Go(func() error {
			from, to := yearRange(year, today)
			rollup, days, err := a.fetcher.FetchCalendar(egCtx, year, from, to)
			if err != nil {
				return err
			}
			results[i] = yearData{rollup: rollup, days: days}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.ActivitySummary{}, err
	}

	var allDays []domain.DayRecord
	for _, r := range results {
		summary.TotalContributions += r.rollup.TotalContributions
		summary.TotalCommits += r.rollup.Commits
		summary.TotalPRs += r.rollup.PullRequests
		summary.TotalPRReviews += r.rollup.PullRequestReviews
		summary.TotalIssues += r.rollup.Issues
		for _, day := range r.days {
			if day.Count < 0 {
				a.logger.Printf("Warning: skipping malformed day record %s (count %d)", day.Date.Format("2006-01-02"), day.Count)
				continue
			}
			allDays = append(allDays, day)
		}
	}

	// Stable keeps each year's original fetch order for equal dates.
	sort.SliceStable(allDays, func(i, j int) bool {
		return allDays[i].Date.Before(allDays[j].Date)
	})

	summary.LongestStreak, summary.BestDay = scanStreaks(allDays)
	summary.CurrentStreak = currentStreak(allDays, today)
	summary.AveragePerDay = averagePerDay(allDays, today)
	summary.ObservationStart = time.Date(sortedYears[0], time.January, 1, 0, 0, 0, 0, time.UTC)

	a.logger.Println("Usecase: aggregation complete.")
	return summary, nil
}

// scanStreaks makes one left-to-right pass over the date-sorted day records,
// tracking the longest streak and the best single day. The trailing streak
// is closed out even when the sequence does not end on a zero-count day, so
// an in-progress run can still become the longest.
func scanStreaks(days []domain.DayRecord) (domain.StreakWindow, domain.BestDay) {
	var longest domain.StreakWindow
	var best domain.BestDay
	var running int
	var runningStart time.Time

	for i, day := range days {
		if day.Count > 0 {
			if running == 0 {
				runningStart = day.Date
			}
			running++
			// First occurrence wins on equal counts.
			if day.Count > best.Count {
				best = domain.BestDay{Date: day.Date, Count: day.Count}
			}
			continue
		}
		if running > longest.Length {
			end := runningStart
			if i > 0 {
				end = days[i-1].Date
			}
			longest = domain.StreakWindow{Start: runningStart, End: end, Length: running}
		}
		running = 0
	}
	if running > longest.Length {
		longest = domain.StreakWindow{
			Start:  runningStart,
			End:    days[len(days)-1].Date,
			Length: running,
		}
	}
	return longest, best
}

// currentStreak scans backward from the most recent day. The streak is alive
// only if the latest active day is today or yesterday; it extends while the
// preceding days are contiguous and nonzero. Data that stops before
// yesterday means the streak is broken, not merely "not yet updated".
func currentStreak(days []domain.DayRecord, today time.Time) int {
	yesterday := today.AddDate(0, 0, -1)
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		if day.Date.Equal(today) || day.Date.Equal(yesterday) {
			if day.Count > 0 {
				streak := 1
				prev := day.Date
				for j := i - 1; j >= 0; j-- {
					if days[j].Count <= 0 || !days[j].Date.Equal(prev.AddDate(0, 0, -1)) {
						break
					}
					streak++
					prev = days[j].Date
				}
				return streak
			}
		} else if day.Date.Before(yesterday) {
			return 0
		}
	}
	return 0
}

// averagePerDay is the mean contribution count over the days observed so
// far. Future-dated records are excluded entirely.
func averagePerDay(days []domain.DayRecord, today time.Time) float64 {
	var counts []float64
	for _, day := range days {
		if day.Date.After(today) {
			continue
		}
		counts = append(counts, float64(day.Count))
	}
	mean, err := stats.Mean(counts)
	if err != nil {
		return 0
	}
	return mean
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
