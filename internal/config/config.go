// Package config loads the generator configuration from info.json and the
// GitHub token from the environment (optionally via a .env file).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Birthday is the profile owner's date of birth, used for the "Uptime" line.
type Birthday struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Time converts the birthday to a time.Time at midnight UTC.
func (b Birthday) Time() time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
}

// Profile holds the free-form card fields rendered alongside the stats.
type Profile struct {
	Title                string            `json:"title"`
	OS                   string            `json:"os"`
	Host                 string            `json:"host"`
	Kernel               string            `json:"kernel"`
	IDE                  string            `json:"ide"`
	LanguagesProgramming string            `json:"languages_programming"`
	LanguagesComputer    string            `json:"languages_computer"`
	LanguagesReal        string            `json:"languages_real"`
	HobbiesSoftware      string            `json:"hobbies_software"`
	HobbiesHardware      string            `json:"hobbies_hardware"`
	Contact              map[string]string `json:"contact"`
	AvatarPath           string            `json:"avatar_path"`
	ASCIIWidth           int               `json:"ascii_width"`
	ASCIIHeight          int               `json:"ascii_height"`
}

// ContactItem is one label/value pair from the contact section.
type ContactItem struct {
	Label string
	Value string
}

// ContactItems returns the non-empty contact entries with title-cased
// labels, sorted by label so the rendered card is deterministic.
func (p Profile) ContactItems() []ContactItem {
	items := make([]ContactItem, 0, len(p.Contact))
	for k, v := range p.Contact {
		if v == "" {
			continue
		}
		label := strings.ToUpper(k[:1]) + k[1:]
		items = append(items, ContactItem{Label: label, Value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Label < items[j].Label
	})
	return items
}

// Config is the full contents of info.json.
type Config struct {
	Username            string   `json:"username"`
	Birthday            Birthday `json:"birthday"`
	IncludePrivateRepos bool     `json:"include_private_repos"`
	Profile             Profile  `json:"profile"`
}

// Load reads and parses the configuration file.
// include_private_repos defaults to true when absent.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{IncludePrivateRepos: true}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("config file %s is missing required field \"username\"", path)
	}
	return cfg, nil
}

// Token loads .env if present and returns the ACCESS_TOKEN value.
func Token() (string, error) {
	_ = godotenv.Load()
	token := os.Getenv("ACCESS_TOKEN")
	if token == "" {
		return "", fmt.Errorf("ACCESS_TOKEN environment variable is not set")
	}
	return token, nil
}
