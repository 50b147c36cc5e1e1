package storage

import (
	"errors"
	"time"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

// ErrNotFound is returned when a code lookup resolves to nothing
var ErrNotFound = errors.New("not found")

// Stats is the snapshot behind the admin stats command
type Stats struct {
	TotalBusinesses int64     `json:"total_businesses"`
	ActiveSessions  int64     `json:"active_sessions"`
	LastContactID   string    `json:"last_contact_id"`
	LastContactAt   time.Time `json:"last_contact_at"`
}

// Store defines the storage operations the conversation engine and the
// reminder scanner require.
type Store interface {
	// Session operations. GetSession never fails on a missing key; it
	// returns the default empty session at the main menu. SaveSession is an
	// upsert that stamps LastUpdated and preserves the reminder flag.
	GetSession(userID string) (*models.Session, error)
	SaveSession(userID string, state models.SessionState, data models.SessionData) error
	ClearSession(userID string) error
	FindStaleSessions(threshold time.Duration) ([]*models.Session, error)
	MarkReminded(userID string) error

	// Business record operations. SaveBusiness assigns an activity code when
	// the record has none and returns it.
	SaveBusiness(business *models.Business) (string, error)
	FindBusinessByCode(code string) (*models.Business, error)
	UpdateBusiness(business *models.Business) error

	Stats() (*Stats, error)
}

// assignActivityCode picks a code for a new record, retrying a few times when
// the generated code already exists. The scheme stays probabilistic; the
// retry only narrows the collision window.
func assignActivityCode(s Store, business *models.Business) string {
	if business.ActivityCode != "" {
		return business.ActivityCode
	}
	code := models.GenerateActivityCode(business.CategoryKey)
	for i := 0; i < 5; i++ {
		if _, err := s.FindBusinessByCode(code); errors.Is(err, ErrNotFound) {
			break
		}
		code = models.GenerateActivityCode(business.CategoryKey)
	}
	return code
}
