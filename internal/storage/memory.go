package storage

import (
	"sync"
	"time"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

// MemoryStore holds all data in memory for tests and local runs
type MemoryStore struct {
	sessions   map[string]*models.Session
	businesses map[string]map[string]*models.Business // category key -> activity code -> record

	sessionMu  sync.RWMutex
	businessMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*models.Session),
		businesses: make(map[string]map[string]*models.Business),
	}
}

func (m *MemoryStore) GetSession(userID string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return models.NewSession(userID), nil
	}
	copied := *session
	return &copied, nil
}

func (m *MemoryStore) SaveSession(userID string, state models.SessionState, data models.SessionData) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	session, exists := m.sessions[userID]
	if !exists {
		session = models.NewSession(userID)
		m.sessions[userID] = session
	}
	session.State = state
	session.Data = data
	session.LastUpdated = time.Now()
	return nil
}

func (m *MemoryStore) ClearSession(userID string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, userID)
	return nil
}

func (m *MemoryStore) FindStaleSessions(threshold time.Duration) ([]*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	now := time.Now()
	var stale []*models.Session
	for _, session := range m.sessions {
		if session.IsStale(now, threshold) {
			copied := *session
			stale = append(stale, &copied)
		}
	}
	return stale, nil
}

func (m *MemoryStore) MarkReminded(userID string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if session, exists := m.sessions[userID]; exists {
		session.ReminderSent = true
	}
	return nil
}

// Backdate shifts a session's last activity into the past. Test hook only.
func (m *MemoryStore) Backdate(userID string, age time.Duration) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if session, exists := m.sessions[userID]; exists {
		session.LastUpdated = time.Now().Add(-age)
	}
}

func (m *MemoryStore) SaveBusiness(business *models.Business) (string, error) {
	code := assignActivityCode(m, business)

	m.businessMu.Lock()
	defer m.businessMu.Unlock()

	business.ActivityCode = code
	if business.CategoryKey == "" {
		business.CategoryKey = models.CategoryOther
	}
	if business.Status == "" {
		business.Status = models.BusinessStatusPending
	}
	business.CreatedAt = time.Now()

	partition, exists := m.businesses[business.CategoryKey]
	if !exists {
		partition = make(map[string]*models.Business)
		m.businesses[business.CategoryKey] = partition
	}
	copied := *business
	partition[code] = &copied
	return code, nil
}

func (m *MemoryStore) FindBusinessByCode(code string) (*models.Business, error) {
	m.businessMu.RLock()
	defer m.businessMu.RUnlock()

	// Scan every category partition; there is no global code index
	for _, partition := range m.businesses {
		if business, exists := partition[code]; exists {
			copied := *business
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateBusiness(business *models.Business) error {
	m.businessMu.Lock()
	defer m.businessMu.Unlock()

	// Locate by code across partitions; an edit may have changed the category
	for key, partition := range m.businesses {
		if _, exists := partition[business.ActivityCode]; !exists {
			continue
		}
		if key != business.CategoryKey {
			delete(partition, business.ActivityCode)
			target, exists := m.businesses[business.CategoryKey]
			if !exists {
				target = make(map[string]*models.Business)
				m.businesses[business.CategoryKey] = target
			}
			partition = target
		}
		copied := *business
		partition[business.ActivityCode] = &copied
		return nil
	}
	return ErrNotFound
}

func (m *MemoryStore) Stats() (*Stats, error) {
	m.businessMu.RLock()
	var total int64
	for _, partition := range m.businesses {
		total += int64(len(partition))
	}
	m.businessMu.RUnlock()

	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	stats := &Stats{
		TotalBusinesses: total,
		ActiveSessions:  int64(len(m.sessions)),
	}
	for _, session := range m.sessions {
		if session.LastUpdated.After(stats.LastContactAt) {
			stats.LastContactAt = session.LastUpdated
			stats.LastContactID = session.UserID
		}
	}
	return stats, nil
}
