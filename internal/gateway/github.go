// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/tmih06/profile-stats/internal/domain"
)

const calendarDateLayout = "2006-01-02"

// Number of attempts for the contributor stats endpoint, which answers 202
// while GitHub is still computing the statistics.
const statsAttempts = 3

// CalendarFetcher is the part of the gateway the activity aggregator needs:
// one year's rollup and day records for a date range.
type CalendarFetcher interface {
	FetchCalendar(ctx context.Context, year int, from, to time.Time) (domain.YearRollup, []domain.DayRecord, error)
}

// Fetcher defines the behavior of a gateway for fetching profile information from GitHub.
type Fetcher interface {
	CalendarFetcher
	FetchUserStats(ctx context.Context) (domain.UserStats, error)
	FetchContributionYears(ctx context.Context) ([]int, error)
	FetchLinesOfCode(ctx context.Context) (domain.CodeDelta, error)
	QueryCounts() map[string]int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient     *github.Client
	graphqlClient  *githubv4.Client
	logger         *log.Logger
	login          string
	includePrivate bool

	mu          sync.Mutex
	queryCounts map[string]int
}

// userStatsQuery covers the profile-wide numbers plus the owned repository
// nodes needed to roll up licenses, releases, stars, forks and watchers.
type userStatsQuery struct {
	User struct {
		Name      githubv4.String
		CreatedAt githubv4.DateTime
		Followers struct {
			TotalCount githubv4.Int
		}
		Following struct {
			TotalCount githubv4.Int
		}
		Repositories struct {
			TotalCount     githubv4.Int
			TotalDiskUsage githubv4.Int
			Nodes          []struct {
				LicenseInfo struct {
					SpdxID githubv4.String `graphql:"spdxId"`
				}
				Releases struct {
					TotalCount githubv4.Int
				}
				StargazerCount githubv4.Int
				ForkCount      githubv4.Int
				Watchers       struct {
					TotalCount githubv4.Int
				}
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: [OWNER])"`
		Packages struct {
			TotalCount githubv4.Int
		}
		Organizations struct {
			TotalCount githubv4.Int
		}
		Sponsoring struct {
			TotalCount githubv4.Int
		}
		Sponsors struct {
			TotalCount githubv4.Int
		}
		StarredRepositories struct {
			TotalCount githubv4.Int
		}
		Watching struct {
			TotalCount githubv4.Int
		}
		Issues struct {
			TotalCount githubv4.Int
		}
		PullRequests struct {
			TotalCount githubv4.Int
		}
		RepositoriesContributedTo struct {
			TotalCount githubv4.Int
		}
	} `graphql:"user(login: $login)"`
}

// contributionYearsQuery lists every year the user has contributed in.
type contributionYearsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionYears []githubv4.Int
		}
	} `graphql:"user(login: $login)"`
}

// calendarQuery fetches the per-type totals and the day-by-day contribution
// calendar for a date range.
type calendarQuery struct {
	User struct {
		ContributionsCollection struct {
			TotalCommitContributions            githubv4.Int
			TotalIssueContributions             githubv4.Int
			TotalPullRequestContributions       githubv4.Int
			TotalPullRequestReviewContributions githubv4.Int
			ContributionCalendar                struct {
				TotalContributions githubv4.Int
				Weeks              []struct {
					ContributionDays []struct {
						ContributionCount githubv4.Int
						Date              string
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token, login string, includePrivate bool, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:     github.NewClient(httpClient),
		graphqlClient:  githubv4.NewClient(httpClient),
		logger:         logger,
		login:          login,
		includePrivate: includePrivate,
		queryCounts:    make(map[string]int),
	}, nil
}

// countQuery records one API call under the given name.
// The counters replace the original's process-wide tally.
func (g *GitHubGateway) countQuery(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queryCounts[name]++
}

// QueryCounts returns a copy of the per-query API call counters.
func (g *GitHubGateway) QueryCounts() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	counts := make(map[string]int, len(g.queryCounts))
	for name, n := range g.queryCounts {
		counts[name] = n
	}
	return counts
}

// FetchUserStats runs the profile-wide stats query and rolls up the
// repository nodes into totals.
func (g *GitHubGateway) FetchUserStats(ctx context.Context) (domain.UserStats, error) {
	g.logger.Println("Fetching user statistics...")
	g.countQuery("user_stats")

	var q userStatsQuery
	variables := map[string]interface{}{"login": githubv4.String(g.login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.UserStats{}, fmt.Errorf("failed to execute user stats query: %w", err)
	}

	licenses := make(map[string]int)
	var releases, stargazers, forkers, watchers int
	for _, repo := range q.User.Repositories.Nodes {
		if spdx := string(repo.LicenseInfo.SpdxID); spdx != "" {
			licenses[spdx]++
		}
		releases += int(repo.Releases.TotalCount)
		stargazers += int(repo.StargazerCount)
		forkers += int(repo.ForkCount)
		watchers += int(repo.Watchers.TotalCount)
	}

	name := string(q.User.Name)
	if name == "" {
		name = g.login
	}

	stats := domain.UserStats{
		Name:             name,
		CreatedAt:        q.User.CreatedAt.Time,
		Followers:        int(q.User.Followers.TotalCount),
		Following:        int(q.User.Following.TotalCount),
		Repositories:     int(q.User.Repositories.TotalCount),
		DiskUsageMB:      float64(q.User.Repositories.TotalDiskUsage) / 1024,
		PreferredLicense: preferredLicense(licenses),
		Releases:         releases,
		Packages:         int(q.User.Packages.TotalCount),
		Organizations:    int(q.User.Organizations.TotalCount),
		Sponsoring:       int(q.User.Sponsoring.TotalCount),
		Sponsors:         int(q.User.Sponsors.TotalCount),
		Starred:          int(q.User.StarredRepositories.TotalCount),
		Watching:         int(q.User.Watching.TotalCount),
		IssuesOpened:     int(q.User.Issues.TotalCount),
		PullRequests:     int(q.User.PullRequests.TotalCount),
		ContributedTo:    int(q.User.RepositoriesContributedTo.TotalCount),
		Stargazers:       stargazers,
		Forkers:          forkers,
		Watchers:         watchers,
	}
	g.logger.Println("Completed fetching user statistics.")
	return stats, nil
}

// preferredLicense returns the most common SPDX id, or "None" when no owned
// repository declares a license. Ties go to the lexicographically smaller id
// so the result is stable.
func preferredLicense(licenses map[string]int) string {
	preferred := "None"
	best := 0
	for spdx, n := range licenses {
		if n > best || (n == best && best > 0 && spdx < preferred) {
			preferred = spdx
			best = n
		}
	}
	return preferred
}

// FetchContributionYears returns every year the user has contributions in.
func (g *GitHubGateway) FetchContributionYears(ctx context.Context) ([]int, error) {
	g.logger.Println("Fetching contribution years...")
	g.countQuery("contribution_years")

	var q contributionYearsQuery
	variables := map[string]interface{}{"login": githubv4.String(g.login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute contribution years query: %w", err)
	}

	years := make([]int, 0, len(q.User.ContributionsCollection.ContributionYears))
	for _, y := range q.User.ContributionsCollection.ContributionYears {
		years = append(years, int(y))
	}
	return years, nil
}

// FetchCalendar returns the rollup and the ordered day records for one year's
// date range. The calendar weeks arrive date-ordered from the API and are
// flattened in that order.
func (g *GitHubGateway) FetchCalendar(ctx context.Context, year int, from, to time.Time) (domain.YearRollup, []domain.DayRecord, error) {
	g.logger.Printf("Fetching contribution calendar for %d...", year)
	g.countQuery("contribution_calendar")

	var q calendarQuery
	variables := map[string]interface{}{
		"login": githubv4.String(g.login),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.YearRollup{}, nil, fmt.Errorf("failed to execute contribution calendar query for %d: %w", year, err)
	}

	collection := q.User.ContributionsCollection
	rollup := domain.YearRollup{
		Year:               year,
		Commits:            int(collection.TotalCommitContributions),
		PullRequests:       int(collection.TotalPullRequestContributions),
		PullRequestReviews: int(collection.TotalPullRequestReviewContributions),
		Issues:             int(collection.TotalIssueContributions),
		TotalContributions: int(collection.ContributionCalendar.TotalContributions),
	}

	var days []domain.DayRecord
	for _, week := range collection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			date, err := time.Parse(calendarDateLayout, day.Date)
			if err != nil {
				return domain.YearRollup{}, nil, fmt.Errorf("failed to parse calendar date %q: %w", day.Date, err)
			}
			days = append(days, domain.DayRecord{Date: date, Count: int(day.ContributionCount)})
		}
	}
	return rollup, days, nil
}

// FetchLinesOfCode walks the user's owned repositories and sums the lines
// added and deleted by the user, using the REST contributor stats endpoint.
// A failure to list repositories degrades to a zero delta with a warning;
// the profile card is still useful without line counts.
func (g *GitHubGateway) FetchLinesOfCode(ctx context.Context) (domain.CodeDelta, error) {
	g.logger.Println("Fetching lines of code...")
	g.countQuery("lines_of_code")

	repos, err := g.listOwnedRepos(ctx)
	if err != nil {
		g.logger.Printf("Warning: could not fetch repositories: %v", err)
		return domain.CodeDelta{}, nil
	}

	var delta domain.CodeDelta
	processed, skippedForks := 0, 0
	for _, repo := range repos {
		if repo.GetFork() {
			skippedForks++
			continue
		}
		additions, deletions, err := g.repoLineDelta(ctx, repo.GetOwner().GetLogin(), repo.GetName())
		if err != nil {
			g.logger.Printf("Warning: stats unavailable for %s: %v", repo.GetName(), err)
			continue
		}
		delta.Additions += additions
		delta.Deletions += deletions
		processed++
		g.logger.Printf("  [%d] %s: +%d / -%d", processed, repo.GetName(), additions, deletions)
	}
	g.logger.Printf("Skipped %d forked repos", skippedForks)
	return delta, nil
}

func (g *GitHubGateway) listOwnedRepos(ctx context.Context) ([]*github.Repository, error) {
	var all []*github.Repository
	if g.includePrivate {
		opts := &github.RepositoryListByAuthenticatedUserOptions{
			Affiliation: "owner",
			ListOptions: github.ListOptions{PerPage: 100},
		}
		for {
			repos, resp, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to list repositories: %w", err)
			}
			all = append(all, repos...)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return all, nil
	}

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		repos, resp, err := g.restClient.Repositories.ListByUser(ctx, g.login, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// repoLineDelta sums the user's weekly additions and deletions in one repo.
// GitHub answers 202 while the stats are being computed, so the call is
// retried a few times before giving up on the repo.
func (g *GitHubGateway) repoLineDelta(ctx context.Context, owner, repo string) (int, int, error) {
	var contributors []*github.ContributorStats
	var err error
	for attempt := 0; attempt < statsAttempts; attempt++ {
		var resp *github.Response
		contributors, resp, err = g.restClient.Repositories.ListContributorsStats(ctx, owner, repo)
		if err == nil {
			break
		}
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			g.logger.Printf("  %s: stats computing, retrying...", repo)
			continue
		}
		if resp != nil && resp.StatusCode == http.StatusNoContent {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to fetch contributor stats: %w", err)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("contributor stats not ready after %d attempts: %w", statsAttempts, err)
	}

	var additions, deletions int
	for _, contributor := range contributors {
		if contributor.GetAuthor().GetLogin() != g.login {
			continue
		}
		for _, week := range contributor.Weeks {
			additions += week.GetAdditions()
			deletions += week.GetDeletions()
		}
	}
	return additions, deletions, nil
}
