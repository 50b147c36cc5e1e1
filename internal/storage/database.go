package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

// SessionRow is the postgres shape of a conversation session. The draft data
// lives in a JSON column, mirroring the document layout of the other backends.
type SessionRow struct {
	gorm.Model
	UserID       string `gorm:"uniqueIndex"`
	State        string
	Data         string
	LastUpdated  time.Time
	ReminderSent bool
}

// BusinessRow is the postgres shape of a business record. ActivityCode and
// CategoryKey are broken out for lookups; the full record is the JSON column.
type BusinessRow struct {
	gorm.Model
	ActivityCode string `gorm:"uniqueIndex"`
	CategoryKey  string `gorm:"index"`
	Data         string
}

// DatabaseStore implements Store on top of gorm/postgres
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a postgres-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) GetSession(userID string) (*models.Session, error) {
	var row SessionRow
	err := d.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return rowToSession(&row)
}

func (d *DatabaseStore) SaveSession(userID string, state models.SessionState, data models.SessionData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}

	var row SessionRow
	err = d.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = SessionRow{UserID: userID}
	} else if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	row.State = string(state)
	row.Data = string(encoded)
	row.LastUpdated = time.Now()
	if err := d.db.Save(&row).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (d *DatabaseStore) ClearSession(userID string) error {
	if err := d.db.Unscoped().Where("user_id = ?", userID).Delete(&SessionRow{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (d *DatabaseStore) FindStaleSessions(threshold time.Duration) ([]*models.Session, error) {
	cutoff := time.Now().Add(-threshold)

	var rows []SessionRow
	err := d.db.
		Where("state <> ? AND reminder_sent = ? AND last_updated < ?", string(models.StateMenu), false, cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find stale sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(rows))
	for i := range rows {
		session, err := rowToSession(&rows[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (d *DatabaseStore) MarkReminded(userID string) error {
	err := d.db.Model(&SessionRow{}).
		Where("user_id = ?", userID).
		Update("reminder_sent", true).Error
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func (d *DatabaseStore) SaveBusiness(business *models.Business) (string, error) {
	code := assignActivityCode(d, business)

	business.ActivityCode = code
	if business.CategoryKey == "" {
		business.CategoryKey = models.CategoryOther
	}
	if business.Status == "" {
		business.Status = models.BusinessStatusPending
	}
	business.CreatedAt = time.Now()

	encoded, err := json.Marshal(business)
	if err != nil {
		return "", fmt.Errorf("encode business: %w", err)
	}

	var row BusinessRow
	err = d.db.Where("activity_code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = BusinessRow{ActivityCode: code}
	} else if err != nil {
		return "", fmt.Errorf("load business: %w", err)
	}

	row.CategoryKey = business.CategoryKey
	row.Data = string(encoded)
	if err := d.db.Save(&row).Error; err != nil {
		return "", fmt.Errorf("save business: %w", err)
	}
	return code, nil
}

func (d *DatabaseStore) FindBusinessByCode(code string) (*models.Business, error) {
	var row BusinessRow
	err := d.db.Where("activity_code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find business: %w", err)
	}

	var business models.Business
	if err := json.Unmarshal([]byte(row.Data), &business); err != nil {
		return nil, fmt.Errorf("decode business %s: %w", code, err)
	}
	return &business, nil
}

func (d *DatabaseStore) UpdateBusiness(business *models.Business) error {
	encoded, err := json.Marshal(business)
	if err != nil {
		return fmt.Errorf("encode business: %w", err)
	}

	result := d.db.Model(&BusinessRow{}).
		Where("activity_code = ?", business.ActivityCode).
		Updates(map[string]interface{}{
			"category_key": business.CategoryKey,
			"data":         string(encoded),
		})
	if result.Error != nil {
		return fmt.Errorf("update business: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) Stats() (*Stats, error) {
	stats := &Stats{}

	if err := d.db.Model(&BusinessRow{}).Count(&stats.TotalBusinesses).Error; err != nil {
		return nil, fmt.Errorf("count businesses: %w", err)
	}
	if err := d.db.Model(&SessionRow{}).Count(&stats.ActiveSessions).Error; err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	var last SessionRow
	err := d.db.Order("last_updated desc").First(&last).Error
	if err == nil {
		stats.LastContactID = last.UserID
		stats.LastContactAt = last.LastUpdated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("last contact: %w", err)
	}
	return stats, nil
}

func rowToSession(row *SessionRow) (*models.Session, error) {
	session := &models.Session{
		UserID:       row.UserID,
		State:        models.SessionState(row.State),
		LastUpdated:  row.LastUpdated,
		ReminderSent: row.ReminderSent,
	}
	if row.Data != "" {
		if err := json.Unmarshal([]byte(row.Data), &session.Data); err != nil {
			return nil, fmt.Errorf("decode session data for %s: %w", row.UserID, err)
		}
	}
	return session, nil
}
