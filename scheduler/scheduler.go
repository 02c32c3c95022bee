package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"iproperty_extractor/config"
	"iproperty_extractor/pipeline"
)

// Scheduler reruns extraction sweeps on a cron expression or fixed
// interval, for the watch-folder setup where new page dumps keep landing
// in the source roots.
type Scheduler struct {
	cfg    *config.Config
	pipe   *pipeline.Pipeline
	log    zerolog.Logger
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cfg *config.Config, pipe *pipeline.Pipeline, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		pipe:   pipe,
		log:    log,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		s.log.Info().Str("cron", s.cfg.Scheduler.Cron).Msg("starting scheduler")
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.pipe.RunAll(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled sweep failed")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.cfg.Scheduler.Interval > 0 {
		s.log.Info().Dur("interval", s.cfg.Scheduler.Interval).Msg("starting scheduler")
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.pipe.RunAll(ctx); err != nil {
						s.log.Error().Err(err).Msg("scheduled sweep failed")
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	s.log.Info().Msg("no schedule configured, daemon idles until triggered")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

func (s *Scheduler) TriggerNow(ctx context.Context) error {
	return s.pipe.RunAll(ctx)
}
