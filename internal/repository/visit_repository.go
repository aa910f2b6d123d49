package repository

import (
	"github.com/nirajkr26/linkly/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{
		db: db,
	}
}

type DailyCount struct {
	Day    string
	Clicks int64
}

type DeviceCount struct {
	DeviceType models.DeviceType
	Count      int64
}

func (r *VisitRepository) Create(visit *models.Visit) error {
	return r.db.Create(visit).Error
}

func (r *VisitRepository) CountByLink(linkID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Visit{}).
		Where("link_id = ?", linkID).
		Count(&count).Error
	return count, err
}

// CountUniqueIPs counts distinct originating addresses. Visits without an
// address are excluded entirely rather than counted as one shared value.
func (r *VisitRepository) CountUniqueIPs(linkID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Visit{}).
		Where("link_id = ? AND ip IS NOT NULL", linkID).
		Distinct("ip").
		Count(&count).Error
	return count, err
}

func (r *VisitRepository) DailyCounts(linkID uuid.UUID) ([]DailyCount, error) {
	rows, err := r.db.Model(&models.Visit{}).
		Select("DATE(created_at) AS day, COUNT(*) AS clicks").
		Where("link_id = ?", linkID).
		Group("day").
		Order("day").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []DailyCount{}
	for rows.Next() {
		var c DailyCount
		if err := rows.Scan(&c.Day, &c.Clicks); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *VisitRepository) DeviceCounts(linkID uuid.UUID) ([]DeviceCount, error) {
	rows, err := r.db.Model(&models.Visit{}).
		Select("device_type, COUNT(*) AS count").
		Where("link_id = ?", linkID).
		Group("device_type").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []DeviceCount{}
	for rows.Next() {
		var c DeviceCount
		if err := rows.Scan(&c.DeviceType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *VisitRepository) DeleteByLinkID(linkID uuid.UUID) error {
	return r.db.Where("link_id = ?", linkID).Delete(&models.Visit{}).Error
}
