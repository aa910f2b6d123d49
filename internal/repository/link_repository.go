package repository

import (
	"time"

	"github.com/nirajkr26/linkly/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(link *models.Link) error {
	return r.db.Create(link).Error
}

func (r *LinkRepository) GetByShortURL(shortURL string) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("short_url = ?", shortURL).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) GetByID(id uuid.UUID) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("id = ?", id).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) GetByUserID(userID uuid.UUID) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// IncrementClicks bumps the counter in a single atomic update. Callers must
// never read-modify-write the counter themselves.
func (r *LinkRepository) IncrementClicks(id uuid.UUID) error {
	return r.db.Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
}

// MarkExpired caches the expired fact. UpdateColumn so the write-back does
// not touch updated_at.
func (r *LinkRepository) MarkExpired(id uuid.UUID) error {
	return r.db.Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumn("is_expired", true).Error
}

// UpdateOwned applies fields only when the link belongs to userID, so a
// cross-owner mutation is impossible at the store layer. Returns the number
// of rows touched.
func (r *LinkRepository) UpdateOwned(id, userID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.Link{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *LinkRepository) DeleteOwned(id, userID uuid.UUID) (int64, error) {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Link{})
	return res.RowsAffected, res.Error
}

func (r *LinkRepository) FindExpiredBefore(cutoff time.Time) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *LinkRepository) Delete(link *models.Link) error {
	return r.db.Delete(link).Error
}
