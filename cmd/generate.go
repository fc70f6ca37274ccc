// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmih06/profile-stats/internal/config"
	"github.com/tmih06/profile-stats/internal/domain"
	"github.com/tmih06/profile-stats/internal/gateway"
	"github.com/tmih06/profile-stats/internal/render"
	"github.com/tmih06/profile-stats/internal/usecase"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetches GitHub activity and writes the profile SVG cards",
	Long: `Fetches the user's GitHub statistics, calculates contribution streaks and
lines of code, and writes dark/light SVG cards (full, ascii-only and
info-only variants) to the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		configPath, _ := cmd.Flags().GetString("config")
		outDir, _ := cmd.Flags().GetString("out")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		token, err := config.Token()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(token, cfg.Username, cfg.IncludePrivateRepos, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		now := time.Now().UTC()

		// User stats and contribution years are independent queries.
		var userStats domain.UserStats
		var years []int
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			userStats, err = githubGateway.FetchUserStats(egCtx)
			return err
		})
		eg.Go(func() error {
			var err error
			years, err = githubGateway.FetchContributionYears(egCtx)
			return err
		})
		if err := eg.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch profile data: %v\n", err)
			os.Exit(1)
		}

		aggregator := usecase.NewAggregator(githubGateway, logger)
		activity, err := aggregator.Aggregate(ctx, years, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate activity: %v\n", err)
			os.Exit(1)
		}

		lines, err := githubGateway.FetchLinesOfCode(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch lines of code: %v\n", err)
			os.Exit(1)
		}

		age := render.Age(cfg.Birthday.Time(), now)

		var asciiArt []string
		if cfg.Profile.AvatarPath != "" {
			width, height := cfg.Profile.ASCIIWidth, cfg.Profile.ASCIIHeight
			if width == 0 {
				width = 40
			}
			if height == 0 {
				height = 25
			}
			avatarPath := cfg.Profile.AvatarPath
			if !filepath.IsAbs(avatarPath) {
				avatarPath = filepath.Join(filepath.Dir(configPath), avatarPath)
			}
			asciiArt, err = render.ImageToASCII(avatarPath, width, height)
			if err != nil {
				logger.Printf("Warning: skipping ASCII art: %v", err)
			}
		}

		card := render.Card{
			Username: cfg.Username,
			Profile:  cfg.Profile,
			Stats:    userStats,
			Activity: activity,
			Lines:    lines,
			Age:      age,
			ASCII:    asciiArt,
		}

		outputs := map[string]string{
			"dark_mode.svg":   card.Full(render.Dark),
			"light_mode.svg":  card.Full(render.Light),
			"ascii_dark.svg":  card.ASCIIOnly(card.Height(), render.Dark),
			"ascii_light.svg": card.ASCIIOnly(card.Height(), render.Light),
			"info_dark.svg":   card.Info(render.Dark),
			"info_light.svg":  card.Info(render.Light),
		}
		for name, content := range outputs {
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
				os.Exit(1)
			}
			logger.Printf("Updated: %s", path)
		}

		totalQueries := 0
		for _, n := range githubGateway.QueryCounts() {
			totalQueries += n
		}

		fmt.Printf("%s (@%s)\n", userStats.Name, cfg.Username)
		fmt.Printf("  Commits:        %s\n", render.Comma(activity.TotalCommits))
		fmt.Printf("  Contributions:  %s\n", render.Comma(activity.TotalContributions))
		fmt.Printf("  Current Streak: %d days\n", activity.CurrentStreak)
		fmt.Printf("  Longest Streak: %d days (%s - %s)\n", activity.LongestStreak.Length,
			render.FormatDateShort(activity.LongestStreak.Start), render.FormatDateShort(activity.LongestStreak.End))
		fmt.Printf("  Lines of Code:  %s (+%s / -%s)\n", render.Comma(lines.Net()),
			render.Comma(lines.Additions), render.Comma(lines.Deletions))
		fmt.Printf("  API calls:      %d\n", totalQueries)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("config", "info.json", "Path to the info.json configuration file")
	generateCmd.Flags().String("out", ".", "Directory to write the SVG files into")
}
