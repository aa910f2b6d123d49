package service

import (
	"strings"

	"github.com/nirajkr26/linkly/internal/models"
	"github.com/nirajkr26/linkly/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClickService struct {
	visits *repository.VisitRepository
	links  *repository.LinkRepository
	log    *zap.Logger
}

func NewClickService(visits *repository.VisitRepository, links *repository.LinkRepository, log *zap.Logger) *ClickService {
	return &ClickService{
		visits: visits,
		links:  links,
		log:    log,
	}
}

// Record appends a visit row and bumps the link counter atomically. The two
// writes are independent; transient drift between them is tolerated.
func (s *ClickService) Record(linkID uuid.UUID, ip *string, device models.DeviceType) error {
	visit := &models.Visit{
		LinkID:     linkID,
		IP:         ip,
		DeviceType: device,
	}
	if err := s.visits.Create(visit); err != nil {
		return err
	}
	return s.links.IncrementClicks(linkID)
}

type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type DeviceClicks struct {
	DeviceType models.DeviceType `json:"deviceType"`
	Count      int64             `json:"count"`
}

type Summary struct {
	TotalClicks     int64          `json:"totalClicks"`
	UniqueClicks    int64          `json:"uniqueClicks"`
	DailyClicks     []DailyClicks  `json:"dailyClicks"`
	DeviceBreakdown []DeviceClicks `json:"deviceBreakdown"`
}

// Summarize aggregates the visit stream for one link. A link with no visits
// yields zero totals and empty breakdowns.
func (s *ClickService) Summarize(linkID uuid.UUID) (*Summary, error) {
	total, err := s.visits.CountByLink(linkID)
	if err != nil {
		return nil, err
	}

	unique, err := s.visits.CountUniqueIPs(linkID)
	if err != nil {
		return nil, err
	}

	daily, err := s.visits.DailyCounts(linkID)
	if err != nil {
		return nil, err
	}
	dailyClicks := make([]DailyClicks, 0, len(daily))
	for _, d := range daily {
		day := d.Day
		// postgres scans DATE() back as a full timestamp string
		if len(day) > 10 {
			day = day[:10]
		}
		dailyClicks = append(dailyClicks, DailyClicks{Date: day, Clicks: d.Clicks})
	}

	devices, err := s.visits.DeviceCounts(linkID)
	if err != nil {
		return nil, err
	}
	breakdown := make([]DeviceClicks, 0, len(devices))
	for _, d := range devices {
		breakdown = append(breakdown, DeviceClicks{DeviceType: d.DeviceType, Count: d.Count})
	}

	return &Summary{
		TotalClicks:     total,
		UniqueClicks:    unique,
		DailyClicks:     dailyClicks,
		DeviceBreakdown: breakdown,
	}, nil
}

// DeviceTypeFromUserAgent buckets a visit's origin into mobile or desktop.
// An absent user agent counts as desktop.
func DeviceTypeFromUserAgent(userAgent string) models.DeviceType {
	if strings.Contains(strings.ToLower(userAgent), "mobile") {
		return models.DeviceMobile
	}
	return models.DeviceDesktop
}
