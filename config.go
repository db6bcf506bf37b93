package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gitlab.com/efronlicht/enve"
	"gopkg.in/yaml.v3"
)

//go:embed config/settings.yaml
var defaultSettings string

// articlesDir is the article tree root inside the site checkout. URLs mirror it.
const articlesDir = "articles"

// Settings represents the YAML configuration structure
type Settings struct {
	SiteName     string `yaml:"site_name"`
	SiteURL      string `yaml:"site_url"`
	ListingLimit int    `yaml:"listing_limit"`
	Placeholder  string `yaml:"placeholder"`
	Defaults     struct {
		Author   string `yaml:"author"`
		Category string `yaml:"category"`
		Title    string `yaml:"title"`
	} `yaml:"defaults"`
}

// ConfigOverrides allows overriding embedded defaults from flags
type ConfigOverrides struct {
	SettingsPath *string
	SiteRoot     *string
}

// Config holds settings plus the per-run inputs handed over by CI
type Config struct {
	Settings *Settings
	SiteRoot string

	IssueNumber string
	IssueTitle  string
	IssueBody   string
	ArticleData string
	OutputFile  string
}

// NewConfig loads settings and reads the CI environment
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	settingsPath := enve.StringOr("SITE_SETTINGS", "")
	if overrides != nil && overrides.SettingsPath != nil {
		settingsPath = *overrides.SettingsPath
	}

	settings, err := loadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	root := enve.StringOr("SITE_ROOT", ".")
	if overrides != nil && overrides.SiteRoot != nil {
		root = *overrides.SiteRoot
	}

	return &Config{
		Settings:    settings,
		SiteRoot:    root,
		IssueNumber: enve.StringOr("ISSUE_NUMBER", ""),
		IssueTitle:  enve.StringOr("ISSUE_TITLE", ""),
		IssueBody:   enve.StringOr("ISSUE_BODY", ""),
		ArticleData: enve.StringOr("ARTICLE_DATA", ""),
		OutputFile:  enve.StringOr("GITHUB_OUTPUT", ""),
	}, nil
}

// loadSettings reads settings from path, or the embedded defaults when path is empty.
// Values missing from a custom file fall back to the embedded ones.
func loadSettings(path string) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parsing settings YAML: %w", err)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks that the settings can drive the pipeline
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.SiteURL) == "" {
		return fmt.Errorf("site_url is required")
	}
	if s.ListingLimit < 0 {
		return fmt.Errorf("listing_limit must not be negative, got %d", s.ListingLimit)
	}
	if s.Defaults.Author == "" {
		return fmt.Errorf("defaults.author is required")
	}
	if s.Defaults.Category == "" {
		return fmt.Errorf("defaults.category is required")
	}
	return nil
}

// TitleSuffix is appended to every page <title>
func (s *Settings) TitleSuffix() string {
	if s.SiteName == "" {
		return ""
	}
	return " | " + s.SiteName
}

// AbsoluteURL joins the site URL with a site-relative path
func (s *Settings) AbsoluteURL(path string) string {
	return strings.TrimRight(s.SiteURL, "/") + path
}
