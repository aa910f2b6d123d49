package maintenance

import (
	"context"
	"time"

	"github.com/nirajkr26/linkly/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// purgeGrace keeps freshly expired links around so the expired page can
// still show them; only links well past expiry are removed.
const purgeGrace = 30 * 24 * time.Hour

// Scheduler purges links long past their expiry together with their visit
// rows. This is a store-level hygiene job; resolution never depends on it.
type Scheduler struct {
	c      *cron.Cron
	log    *zap.Logger
	links  *repository.LinkRepository
	visits *repository.VisitRepository
}

func NewScheduler(log *zap.Logger, links *repository.LinkRepository, visits *repository.VisitRepository) *Scheduler {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)), cron.WithChain())
	return &Scheduler{
		c:      c,
		log:    log,
		links:  links,
		visits: visits,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.c.AddFunc("0 3 * * *", func() {
		s.purgeExpired()
	})
	if err != nil {
		return err
	}
	s.c.Start()
	s.log.Info("Maintenance scheduler started")

	go func() {
		<-ctx.Done()
		ctxStop := s.c.Stop()
		<-ctxStop.Done()
	}()
	return nil
}

func (s *Scheduler) purgeExpired() {
	cutoff := time.Now().Add(-purgeGrace)
	links, err := s.links.FindExpiredBefore(cutoff)
	if err != nil {
		s.log.Error("Failed to find expired links", zap.Error(err))
		return
	}

	for _, link := range links {
		if err := s.visits.DeleteByLinkID(link.ID); err != nil {
			s.log.Error("Failed to delete visits of expired link", zap.String("short_url", link.ShortURL), zap.Error(err))
			continue
		}
		if err := s.links.Delete(&link); err != nil {
			s.log.Error("Failed to delete expired link", zap.String("short_url", link.ShortURL), zap.Error(err))
			continue
		}
		s.log.Info("Purged expired link", zap.String("short_url", link.ShortURL))
	}
}
