package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Publisher runs the create and edit workflows against a site checkout
type Publisher struct {
	cfg       *Config
	locator   *Locator
	store     *ArticleStore
	extractor *Extractor
	renderer  *Renderer
	indexes   *IndexSynchronizer
	logger    *zap.Logger
	out       io.Writer
	dryRun    bool
	now       func() time.Time
}

// NewPublisher wires the pipeline components for cfg
func NewPublisher(cfg *Config, logger *zap.Logger) *Publisher {
	renderer := NewRenderer(cfg.Settings)
	extractor := NewExtractor(cfg.Settings, NewConverter())
	counter := NewCategoryCounter(cfg.SiteRoot, extractor, logger)

	return &Publisher{
		cfg:       cfg,
		locator:   NewLocator(cfg.SiteRoot),
		store:     NewArticleStore(cfg.SiteRoot, logger),
		extractor: extractor,
		renderer:  renderer,
		indexes:   NewIndexSynchronizer(cfg.SiteRoot, cfg.Settings, renderer, counter, logger),
		logger:    logger,
		out:       os.Stdout,
		now:       time.Now,
	}
}

// SetDryRun makes Publish print the rendered page instead of writing files
func (p *Publisher) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// SetOutput sets where dry-run pages are printed
func (p *Publisher) SetOutput(w io.Writer) {
	p.out = w
}

// ParseNew turns the "new article" issue into a record
func (p *Publisher) ParseNew() (*ArticleRecord, error) {
	p.logger.Info("parsing new article issue", zap.String("title", p.cfg.IssueTitle))

	rec := ParseNewArticle(p.cfg.IssueBody, p.cfg.IssueTitle, p.cfg.Settings, p.now())
	rec.IssueNumber = p.cfg.IssueNumber

	p.logger.Info("parsed article",
		zap.String("title", rec.Title),
		zap.String("category", rec.Category),
		zap.String("path", rec.FullPath),
	)
	return rec, nil
}

// ParseEdit turns an "edit article" issue into the merged record: locate the
// article, read it back from its page, then apply the requested changes.
func (p *Publisher) ParseEdit() (*ArticleRecord, error) {
	req, err := ParseEditRequest(p.cfg.IssueBody, p.cfg.Settings.Placeholder)
	if err != nil {
		return nil, err
	}
	p.logger.Info("parsing edit issue", zap.String("ref", req.ArticleURL))

	rel, err := p.locator.Locate(req.ArticleURL)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("located article", zap.String("path", rel))

	page, err := p.store.Read(rel)
	if err != nil {
		return nil, err
	}
	existing, err := p.extractor.Extract(page)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	p.adoptLocation(existing, rel)

	merged := MergeEdit(existing, req, p.now())
	merged.IssueNumber = p.cfg.IssueNumber

	p.logger.Info("merged edit",
		zap.String("title", merged.Title),
		zap.String("path", merged.FullPath),
		zap.Bool("path_changed", merged.PathChanged),
	)
	return merged, nil
}

// adoptLocation makes the directory the article was found in authoritative
// over whatever its canonical link says.
func (p *Publisher) adoptLocation(rec *ArticleRecord, rel string) {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 {
		return
	}
	if rec.FullPath != rel {
		p.logger.Debug("canonical link disagrees with location",
			zap.String("canonical", rec.URL),
			zap.String("path", rel),
		)
	}
	rec.CategorySlug, rec.Slug = parts[1], parts[2]
	rec.URL = articleURL(rec.CategorySlug, rec.Slug)
	rec.RelativePath = rec.URL
	rec.FullPath = rel
	if rec.Category == "" {
		rec.Category = titleFromSlug(rec.CategorySlug)
	}
	if rec.Author == "" {
		rec.Author = p.cfg.Settings.Defaults.Author
	}
}

// Publish renders the record, writes its page and synchronizes the listings
func (p *Publisher) Publish(rec *ArticleRecord) (*PublishResult, error) {
	mode := rec.Operation
	if mode == "" {
		mode = OperationCreate
	}

	page, err := p.renderer.RenderArticlePage(rec, mode)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{Record: rec, Moved: rec.PathChanged}
	if p.dryRun {
		p.logger.Info("dry run, not writing", zap.String("path", rec.FullPath))
		if _, err := p.out.Write(page); err != nil {
			return nil, fmt.Errorf("writing dry-run output: %w", err)
		}
		return result, nil
	}

	result.ArticleFile, err = p.store.Write(rec, page)
	if err != nil {
		return nil, err
	}

	result.IndexFiles, err = p.indexes.Sync(rec)
	if err != nil {
		return result, fmt.Errorf("updating indexes: %w", err)
	}

	p.logger.Info("published article",
		zap.String("operation", string(mode)),
		zap.String("url", rec.URL),
		zap.Strings("indexes", result.IndexFiles),
	)
	return result, nil
}

// Create parses and publishes a new article in one step
func (p *Publisher) Create() (*PublishResult, error) {
	rec, err := p.ParseNew()
	if err != nil {
		return nil, err
	}
	return p.Publish(rec)
}

// Edit parses, merges and publishes an edit in one step
func (p *Publisher) Edit() (*PublishResult, error) {
	rec, err := p.ParseEdit()
	if err != nil {
		return nil, err
	}
	return p.Publish(rec)
}

// Rebuild regenerates all listing pages from the article tree
func (p *Publisher) Rebuild() ([]string, error) {
	if p.dryRun {
		counts, err := p.indexes.counter.Count()
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			fmt.Fprintf(p.out, "%s\t%d\n", c.Slug, c.Count)
		}
		return nil, nil
	}
	return p.indexes.Rebuild()
}

// Recount rebuilds the category cards of the site index from the article tree
func (p *Publisher) Recount() (string, error) {
	if p.dryRun {
		_, err := p.Rebuild()
		return "", err
	}
	return p.indexes.RefreshCategoryCards()
}
