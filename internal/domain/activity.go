// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// DayRecord is a single day of the contribution calendar.
// Dates are day-granular; the time portion is always midnight UTC.
type DayRecord struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// YearRollup holds the per-type contribution counts for one calendar year,
// as reported by the contributionsCollection query.
type YearRollup struct {
	Year               int `json:"year"`
	Commits            int `json:"commits"`
	PullRequests       int `json:"pull_requests"`
	PullRequestReviews int `json:"pull_request_reviews"`
	Issues             int `json:"issues"`
	TotalContributions int `json:"total_contributions"`
}

// StreakWindow is a maximal contiguous run of days that all have at least
// one contribution. The zero value means "no streak recorded".
type StreakWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Length int       `json:"length"`
}

// BestDay is the single day with the highest contribution count.
type BestDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ActivitySummary is the output of the activity aggregation: totals across
// all requested years plus the derived streak and per-day statistics.
type ActivitySummary struct {
	TotalContributions int          `json:"total_contributions"`
	TotalCommits       int          `json:"total_commits"`
	TotalPRs           int          `json:"total_prs"`
	TotalPRReviews     int          `json:"total_pr_reviews"`
	TotalIssues        int          `json:"total_issues"`
	CurrentStreak      int          `json:"current_streak"`
	LongestStreak      StreakWindow `json:"longest_streak"`
	BestDay            BestDay      `json:"best_day"`
	AveragePerDay      float64      `json:"avg_per_day"`
	ObservationStart   time.Time    `json:"start_date"`
}

// UserStats holds the profile-wide numbers from the user stats query,
// with repository-level figures already rolled up.
type UserStats struct {
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	Followers        int       `json:"followers"`
	Following        int       `json:"following"`
	Repositories     int       `json:"repositories"`
	DiskUsageMB      float64   `json:"disk_usage_mb"`
	PreferredLicense string    `json:"preferred_license"`
	Releases         int       `json:"releases"`
	Packages         int       `json:"packages"`
	Organizations    int       `json:"organizations"`
	Sponsoring       int       `json:"sponsoring"`
	Sponsors         int       `json:"sponsors"`
	Starred          int       `json:"starred"`
	Watching         int       `json:"watching"`
	IssuesOpened     int       `json:"issues_opened"`
	PullRequests     int       `json:"pull_requests"`
	ContributedTo    int       `json:"contributed_to"`
	Stargazers       int       `json:"stargazers"`
	Forkers          int       `json:"forkers"`
	Watchers         int       `json:"watchers"`
}

// CodeDelta is the total lines added and deleted across owned repositories.
type CodeDelta struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Net returns additions minus deletions.
func (c CodeDelta) Net() int {
	return c.Additions - c.Deletions
}
