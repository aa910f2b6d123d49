package service

import (
	"errors"
	"time"

	"github.com/nirajkr26/linkly/internal/alias"
	"github.com/nirajkr26/linkly/internal/models"
	"github.com/nirajkr26/linkly/internal/qr"
	"github.com/nirajkr26/linkly/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLinkNotFound        = errors.New("link not found")
	ErrAliasTaken          = errors.New("custom slug already exists")
	ErrInvalidLinkPassword = errors.New("incorrect link password")
	ErrNotLinkOwner        = errors.New("link belongs to another user")
	ErrPasswordRequired    = errors.New("password is required when enabling link protection")
	ErrGenerateAlias       = errors.New("error generating alias")
)

type LinkService struct {
	links       *repository.LinkRepository
	visits      *repository.VisitRepository
	clicks      *ClickService
	baseURL     string
	aliasLength int
	log         *zap.Logger
}

func NewLinkService(links *repository.LinkRepository, visits *repository.VisitRepository, clicks *ClickService, baseURL string, aliasLength int, log *zap.Logger) *LinkService {
	return &LinkService{
		links:       links,
		visits:      visits,
		clicks:      clicks,
		baseURL:     baseURL,
		aliasLength: aliasLength,
		log:         log,
	}
}

// ShortLinkFor returns the fully-qualified short link for an alias.
func (s *LinkService) ShortLinkFor(shortURL string) string {
	return s.baseURL + "/" + shortURL
}

// CreateAnonymous shortens a URL for a guest. No collision pre-check: the
// unique index rejects the rare duplicate and we surface that as a conflict.
func (s *LinkService) CreateAnonymous(fullURL string) (*models.Link, error) {
	shortURL, err := alias.Generate(s.aliasLength)
	if err != nil {
		s.log.Error("Failed to generate alias", zap.Error(err))
		return nil, ErrGenerateAlias
	}

	link := &models.Link{
		FullURL:  fullURL,
		ShortURL: shortURL,
	}
	if err := s.links.Create(link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAliasTaken
		}
		s.log.Error("Failed to create link", zap.Error(err))
		return nil, err
	}
	return link, nil
}

// CreateOwned shortens a URL for a registered user, honoring an optional
// custom slug and activation time, and rendering a QR code for the short
// link. The slug existence check is a fast path only; concurrent creations
// racing past it are settled by the unique index.
func (s *LinkService) CreateOwned(fullURL, slug string, userID uuid.UUID, activeFrom *time.Time) (*models.Link, error) {
	shortURL := slug
	if shortURL == "" {
		var err error
		shortURL, err = alias.Generate(s.aliasLength)
		if err != nil {
			s.log.Error("Failed to generate alias", zap.Error(err))
			return nil, ErrGenerateAlias
		}
	} else {
		if _, err := s.links.GetByShortURL(shortURL); err == nil {
			return nil, ErrAliasTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	qrCode, err := qr.DataURL(s.ShortLinkFor(shortURL))
	if err != nil {
		s.log.Error("Failed to render QR code", zap.String("short_url", shortURL), zap.Error(err))
		return nil, err
	}

	link := &models.Link{
		FullURL:     fullURL,
		ShortURL:    shortURL,
		UserID:      &userID,
		QRCode:      qrCode,
		QRGenerated: true,
	}
	if activeFrom != nil {
		link.ActiveFrom = *activeFrom
	}

	if err := s.links.Create(link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAliasTaken
		}
		s.log.Error("Failed to create link", zap.Error(err))
		return nil, err
	}
	return link, nil
}

type ResolveOutcome int

const (
	ResolveRedirect ResolveOutcome = iota
	ResolveExpired
	ResolveNotActive
	ResolvePasswordRequired
)

// Resolution is the terminal outcome of looking up one alias.
type Resolution struct {
	Outcome    ResolveOutcome
	FullURL    string    // Redirect
	ShortURL   string    // Expired, PasswordRequired
	ShortLink  string    // NotActive: fully-qualified short link
	ExpiredAt  time.Time // Expired
	ActiveFrom time.Time // NotActive
}

// Resolve applies the redirect policy in fixed order: expiry, activation
// window, password challenge, then success. Expiry is checked before
// activation, so an expired-but-not-yet-active link reports expired.
func (s *LinkService) Resolve(shortURL string, ip *string, userAgent string) (*Resolution, error) {
	link, err := s.links.GetByShortURL(shortURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	now := time.Now()

	if link.ExpiresAt != nil && now.After(*link.ExpiresAt) {
		if !link.IsExpired {
			// Best-effort write-back of the cached flag; never blocks the
			// outcome.
			if err := s.links.MarkExpired(link.ID); err != nil {
				s.log.Debug("Failed to mark link expired", zap.String("short_url", shortURL), zap.Error(err))
			}
		}
		return &Resolution{
			Outcome:   ResolveExpired,
			ShortURL:  link.ShortURL,
			ExpiredAt: *link.ExpiresAt,
		}, nil
	}

	if now.Before(link.ActiveFrom) {
		return &Resolution{
			Outcome:    ResolveNotActive,
			ShortLink:  s.ShortLinkFor(link.ShortURL),
			ActiveFrom: link.ActiveFrom,
		}, nil
	}

	if link.IsLinkPassword {
		return &Resolution{
			Outcome:  ResolvePasswordRequired,
			ShortURL: link.ShortURL,
		}, nil
	}

	// Bookkeeping is best effort: a failed visit record must not delay or
	// fail the redirect.
	if err := s.clicks.Record(link.ID, ip, DeviceTypeFromUserAgent(userAgent)); err != nil {
		s.log.Warn("Failed to record visit", zap.String("short_url", shortURL), zap.Error(err))
	}

	return &Resolution{
		Outcome: ResolveRedirect,
		FullURL: link.FullURL,
	}, nil
}

// VerifyPassword unlocks a protected link. A successful unlock is counted
// like any other visit so the counter and the analytics stream stay
// consistent.
func (s *LinkService) VerifyPassword(shortURL, password string, ip *string, userAgent string) (string, error) {
	link, err := s.links.GetByShortURL(shortURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLinkNotFound
		}
		return "", err
	}
	if !link.IsLinkPassword || link.LinkPassword == nil {
		return "", ErrLinkNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*link.LinkPassword), []byte(password)); err != nil {
		return "", ErrInvalidLinkPassword
	}

	if err := s.clicks.Record(link.ID, ip, DeviceTypeFromUserAgent(userAgent)); err != nil {
		s.log.Warn("Failed to record visit", zap.String("short_url", shortURL), zap.Error(err))
	}

	return link.FullURL, nil
}

func (s *LinkService) ListOwned(userID uuid.UUID) ([]models.Link, error) {
	return s.links.GetByUserID(userID)
}

// UpdateLinkInput carries the owner-editable settings. Nil fields are left
// untouched.
type UpdateLinkInput struct {
	ExpiresAt      *time.Time
	IsExpired      *bool
	IsLinkPassword *bool
	Password       *string
}

// UpdateOwned applies settings with a (user, link) compound filter so a
// cross-owner update cannot match any row.
func (s *LinkService) UpdateOwned(linkID, userID uuid.UUID, input UpdateLinkInput) (*models.Link, error) {
	fields := map[string]interface{}{}

	if input.ExpiresAt != nil {
		fields["expires_at"] = *input.ExpiresAt
	}
	if input.IsExpired != nil {
		fields["is_expired"] = *input.IsExpired
	}
	if input.IsLinkPassword != nil {
		fields["is_link_password"] = *input.IsLinkPassword
		if !*input.IsLinkPassword {
			fields["link_password"] = nil
		} else {
			if input.Password == nil || *input.Password == "" {
				return nil, ErrPasswordRequired
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				s.log.Error("Failed to hash link password", zap.Error(err))
				return nil, err
			}
			fields["link_password"] = string(hash)
		}
	}

	if len(fields) == 0 {
		// Nothing to change; still verify ownership.
		link, err := s.getOwned(linkID, userID)
		if err != nil {
			return nil, err
		}
		return link, nil
	}

	rows, err := s.links.UpdateOwned(linkID, userID, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrLinkNotFound
	}
	return s.links.GetByID(linkID)
}

// DeleteOwned removes a link and its visit stream. The link delete runs
// first under the compound filter so visits of a foreign link are never
// touched.
func (s *LinkService) DeleteOwned(linkID, userID uuid.UUID) error {
	rows, err := s.links.DeleteOwned(linkID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrLinkNotFound
	}
	if err := s.visits.DeleteByLinkID(linkID); err != nil {
		s.log.Warn("Failed to delete visits for removed link", zap.String("link_id", linkID.String()), zap.Error(err))
	}
	return nil
}

// AnalyticsFor returns a link with its aggregated summary, owner-only.
func (s *LinkService) AnalyticsFor(shortURL string, userID uuid.UUID) (*models.Link, *Summary, error) {
	link, err := s.links.GetByShortURL(shortURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrLinkNotFound
		}
		return nil, nil, err
	}
	if link.UserID == nil || *link.UserID != userID {
		return nil, nil, ErrNotLinkOwner
	}

	summary, err := s.clicks.Summarize(link.ID)
	if err != nil {
		return nil, nil, err
	}
	return link, summary, nil
}

func (s *LinkService) getOwned(linkID, userID uuid.UUID) (*models.Link, error) {
	link, err := s.links.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	if link.UserID == nil || *link.UserID != userID {
		return nil, ErrLinkNotFound
	}
	return link, nil
}
