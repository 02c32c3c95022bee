package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"iproperty_extractor/config"
	"iproperty_extractor/extract"
	"iproperty_extractor/input"
	"iproperty_extractor/models"
	"iproperty_extractor/output"
	"iproperty_extractor/storage"
)

// Pipeline drives one extraction sweep per source: walk the page dumps,
// resolve every field in parallel, write the CSV, and record the run.
type Pipeline struct {
	cfg       *config.Config
	store     *storage.SQLiteStore
	extractor *extract.Extractor
	log       zerolog.Logger
	paused    bool
	mu        sync.Mutex

	pgStore   *storage.PostgresStore
	artifacts *storage.ArtifactStore
}

func New(cfg *config.Config, store *storage.SQLiteStore, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		extractor: extract.New(),
		log:       log,
	}
}

// SetSinks wires the optional mirrors: a Postgres listing store and an
// S3 artifact store. Either may be nil.
func (p *Pipeline) SetSinks(pg *storage.PostgresStore, artifacts *storage.ArtifactStore) {
	p.pgStore = pg
	p.artifacts = artifacts
}

func (p *Pipeline) Pause()  { p.mu.Lock(); p.paused = true; p.mu.Unlock() }
func (p *Pipeline) Resume() { p.mu.Lock(); p.paused = false; p.mu.Unlock() }

func (p *Pipeline) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Pipeline) RunAll(ctx context.Context) error {
	if p.IsPaused() {
		p.log.Info().Msg("pipeline paused, skipping sweep")
		return nil
	}
	ids := make([]string, 0, len(p.cfg.Sources))
	for id := range p.cfg.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := p.RunSource(ctx, id); err != nil {
			p.log.Error().Err(err).Str("source", id).Msg("source sweep failed")
		}
	}
	return nil
}

type job struct {
	seq  int
	page input.Page
}

type result struct {
	seq     int
	listing *models.Listing
	skipped bool
	err     error
}

func (p *Pipeline) RunSource(ctx context.Context, sourceID string) error {
	src, ok := p.cfg.Sources[sourceID]
	if !ok {
		return fmt.Errorf("unknown source: %s", sourceID)
	}

	outFile := src.OutFile
	if outFile == "" {
		outFile = sourceID + "_listings.csv"
	}
	outPath := filepath.Join(p.cfg.Extract.OutDir, outFile)

	lastRun, _ := p.store.GetLastRunTime(sourceID)

	run := &models.ExtractRun{
		RunUID:    uuid.NewString(),
		SourceID:  sourceID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
		OutFile:   outPath,
	}
	runID, err := p.store.CreateRun(run)
	if err != nil {
		return err
	}
	run.ID = runID
	if p.pgStore != nil {
		if err := p.pgStore.CreateRun(ctx, run); err != nil {
			p.log.Warn().Err(err).Msg("postgres run record failed")
		}
	}

	start := fmt.Sprintf("starting extraction for %s from %s", src.Name, src.Root)
	if !lastRun.IsZero() {
		start += fmt.Sprintf(" (last run %s)", lastRun.Format(time.RFC3339))
	}
	p.logRun(run, models.LogLevelInfo, start)

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err := p.store.UpdateRun(run); err != nil {
			p.log.Error().Err(err).Msg("run update failed")
		}
		if err := p.store.UpdateSourceStats(sourceID); err != nil {
			p.log.Error().Err(err).Msg("stats update failed")
		}
		if p.pgStore != nil {
			p.pgStore.UpdateRun(ctx, run)
		}
	}()

	results, err := p.extractSource(ctx, sourceID, src.Root, run)
	if err != nil {
		run.Status = models.RunStatusFailed
		return err
	}

	writer, err := output.NewWriter(outPath)
	if err != nil {
		run.Status = models.RunStatusFailed
		return err
	}
	for _, r := range results {
		if r.listing == nil {
			continue
		}
		if err := writer.Write(r.listing); err != nil {
			writer.Close()
			run.Status = models.RunStatusFailed
			return err
		}
		if p.pgStore != nil && r.listing.ListingID != "" {
			if err := p.pgStore.UpsertListing(ctx, sourceID, run.RunUID, r.listing); err != nil {
				p.log.Warn().Err(err).Str("file", r.listing.File).Msg("postgres upsert failed")
			}
		}
	}
	if err := writer.Close(); err != nil {
		run.Status = models.RunStatusFailed
		return err
	}

	if p.artifacts != nil {
		url, err := p.artifacts.UploadRunArtifact(ctx, run.RunUID, outPath)
		if err != nil {
			p.log.Warn().Err(err).Msg("artifact upload failed")
		} else {
			run.ArtifactURL = url
		}
	}

	run.Status = models.RunStatusCompleted
	p.logRun(run, models.LogLevelInfo,
		fmt.Sprintf("completed: %d pages, %d parsed, %d skipped, %d errors",
			run.PagesFound, run.PagesParsed, run.PagesSkipped, run.ErrorsCount))
	return nil
}

// extractSource fans pages out to a worker pool and gathers results back
// in walk order, so the CSV is byte-stable for a stable input tree.
func (p *Pipeline) extractSource(ctx context.Context, sourceID, root string, run *models.ExtractRun) ([]result, error) {
	workers := p.cfg.Extract.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan job, workers)
	resCh := make(chan result, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				resCh <- p.processPage(sourceID, j)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resCh)
	}()

	var walkErr error
	go func() {
		defer close(jobs)
		seq := 0
		walkErr = input.Walk(root, func(page input.Page) error {
			select {
			case jobs <- job{seq: seq, page: page}:
				seq++
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	var results []result
	for r := range resCh {
		run.PagesFound++
		switch {
		case r.err != nil:
			run.ErrorsCount++
			p.logRun(run, models.LogLevelError, r.err.Error())
		case r.skipped:
			run.PagesSkipped++
		default:
			run.PagesParsed++
		}
		results = append(results, r)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	sort.Slice(results, func(i, j int) bool { return results[i].seq < results[j].seq })
	return results, nil
}

func (p *Pipeline) processPage(sourceID string, j job) result {
	hash := storage.HashContent(j.page.HTML)
	unchanged, err := p.store.PageUnchanged(sourceID, j.page.Name, hash)
	if err != nil {
		p.log.Warn().Err(err).Str("page", j.page.Name).Msg("skip check failed")
	}
	listing := p.extractor.Extract(j.page.Name, j.page.HTML)
	if err := p.store.MarkPageProcessed(sourceID, j.page.Name, hash, listing.ListingID); err != nil {
		p.log.Warn().Err(err).Str("page", j.page.Name).Msg("page record failed")
	}
	return result{seq: j.seq, listing: listing, skipped: unchanged}
}

func (p *Pipeline) logRun(run *models.ExtractRun, level models.LogLevel, message string) {
	switch level {
	case models.LogLevelError:
		p.log.Error().Str("source", run.SourceID).Msg(message)
	default:
		p.log.Info().Str("source", run.SourceID).Msg(message)
	}
	p.store.Log(&run.ID, level, message, run.SourceID)
}

// SourceIDs lists configured sources in stable order.
func (p *Pipeline) SourceIDs() []string {
	var ids []string
	for id := range p.cfg.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
