package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
)

var (
	settingsPath string
	siteRoot     string
	dryRun       bool
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "site-publisher",
	Short: "Publish and edit site articles from GitHub issue forms",
	Long: `Turns "new article" and "edit article" issue forms into static HTML
article pages and keeps the site-wide and category listing pages in sync.
Inputs are read from the environment set up by the CI workflow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to custom settings file")
	rootCmd.PersistentFlags().StringVar(&siteRoot, "root", "", "Site checkout root (default $SITE_ROOT or .)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print results instead of writing files")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(parseNewCmd, parseEditCmd, publishCmd, createCmd, editCmd, recountCmd, rebuildCmd)
}

// setup loads configuration and builds the publisher for one command run
func setup(cmd *cobra.Command) (*Config, *Publisher, *zap.Logger, error) {
	overrides := &ConfigOverrides{}
	if cmd.Flags().Changed("settings") {
		overrides.SettingsPath = &settingsPath
	}
	if cmd.Flags().Changed("root") {
		overrides.SiteRoot = &siteRoot
	}

	base, err := newLogger(enve.StringOr("LOG_LEVEL", ""), debugMode)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := NewConfig(overrides)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := runLogger(base, cfg.IssueNumber).With(zap.String("command", cmd.Name()))
	logger.Debug("loaded settings",
		zap.String("site", cfg.Settings.SiteURL),
		zap.String("root", cfg.SiteRoot),
	)

	publisher := NewPublisher(cfg, logger)
	publisher.SetDryRun(dryRun)
	publisher.SetOutput(cmd.OutOrStdout())
	return cfg, publisher, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
