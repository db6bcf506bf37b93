package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseNewCmd = &cobra.Command{
	Use:   "parse-new",
	Short: "Parse a new article issue and emit article-data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		rec, err := publisher.ParseNew()
		if err != nil {
			return err
		}
		return WriteOutputFile(cfg.OutputFile, rec)
	},
}

var parseEditCmd = &cobra.Command{
	Use:   "parse-edit",
	Short: "Parse an edit issue, merge it with the published article and emit article-data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		rec, err := publisher.ParseEdit()
		if err != nil {
			return err
		}
		return WriteOutputFile(cfg.OutputFile, rec)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Render the record in ARTICLE_DATA and update the listing pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		rec, err := DecodeArticleData(cfg.ArticleData)
		if err != nil {
			return err
		}
		_, err = publisher.Publish(rec)
		return err
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Parse and publish a new article issue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		result, err := publisher.Create()
		if err != nil {
			return err
		}
		return WriteOutputFile(cfg.OutputFile, result.Record)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Parse and publish an edit issue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		result, err := publisher.Edit()
		if err != nil {
			return err
		}
		return WriteOutputFile(cfg.OutputFile, result.Record)
	},
}

var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Rebuild the category cards from the article tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		path, err := publisher.Recount()
		if err != nil {
			return err
		}
		if path != "" {
			logger.Info("updated category cards", zap.String("path", path))
		}
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-indexes",
	Short: "Regenerate every listing page from the article tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, publisher, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		files, err := publisher.Rebuild()
		if err != nil {
			return err
		}
		logger.Info("rebuilt listings", zap.Int("files", len(files)))
		return nil
	},
}
