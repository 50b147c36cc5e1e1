package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

func TestMemoryStoreSessions(t *testing.T) {
	store := NewMemoryStore()
	user := "966512345678"

	// Missing session resolves to the default at the menu
	session, err := store.GetSession(user)
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, session.State)

	require.NoError(t, store.SaveSession(user, models.StateName, models.SessionData{BusinessName: "مطعم"}))

	session, err = store.GetSession(user)
	require.NoError(t, err)
	assert.Equal(t, models.StateName, session.State)
	assert.Equal(t, "مطعم", session.Data.BusinessName)
	assert.WithinDuration(t, time.Now(), session.LastUpdated, time.Second)

	require.NoError(t, store.ClearSession(user))
	session, err = store.GetSession(user)
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, session.State)
	assert.Empty(t, session.Data.BusinessName)
}

func TestMemoryStoreSavePreservesReminderFlag(t *testing.T) {
	store := NewMemoryStore()
	user := "966512345678"

	require.NoError(t, store.SaveSession(user, models.StateName, models.SessionData{}))
	require.NoError(t, store.MarkReminded(user))

	require.NoError(t, store.SaveSession(user, models.StateCategory, models.SessionData{BusinessName: "مقهى"}))

	session, err := store.GetSession(user)
	require.NoError(t, err)
	assert.True(t, session.ReminderSent, "progress must not re-arm the reminder")
}

func TestMemoryStoreStaleSessions(t *testing.T) {
	store := NewMemoryStore()
	threshold := 30 * time.Minute

	require.NoError(t, store.SaveSession("idle", models.StateName, models.SessionData{}))
	require.NoError(t, store.SaveSession("fresh", models.StateName, models.SessionData{}))
	require.NoError(t, store.SaveSession("at_menu", models.StateMenu, models.SessionData{}))

	store.Backdate("idle", time.Hour)
	store.Backdate("at_menu", time.Hour)

	stale, err := store.FindStaleSessions(threshold)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "idle", stale[0].UserID)

	require.NoError(t, store.MarkReminded("idle"))
	stale, err = store.FindStaleSessions(threshold)
	require.NoError(t, err)
	assert.Empty(t, stale, "a reminded session drops out of the scan")
}

func TestMemoryStoreBusinessLifecycle(t *testing.T) {
	store := NewMemoryStore()

	business := &models.Business{
		BusinessName: "مطعم البيك",
		CategoryKey:  "restaurants",
		CategoryName: "مطاعم",
	}
	code, err := store.SaveBusiness(business)
	require.NoError(t, err)
	assert.Regexp(t, `^RES-\d{4}$`, code)
	assert.Equal(t, models.BusinessStatusPending, business.Status)

	found, err := store.FindBusinessByCode(code)
	require.NoError(t, err)
	assert.Equal(t, "مطعم البيك", found.BusinessName)

	_, err = store.FindBusinessByCode("XXX-0000")
	assert.ErrorIs(t, err, ErrNotFound)

	found.Description = "أكل سريع"
	require.NoError(t, store.UpdateBusiness(found))

	found, err = store.FindBusinessByCode(code)
	require.NoError(t, err)
	assert.Equal(t, "أكل سريع", found.Description)
}

func TestMemoryStoreUpdateMovesCategory(t *testing.T) {
	store := NewMemoryStore()

	business := &models.Business{BusinessName: "حلا", CategoryKey: "restaurants"}
	code, err := store.SaveBusiness(business)
	require.NoError(t, err)

	business.CategoryKey = "bakeries_sweets"
	require.NoError(t, store.UpdateBusiness(business))

	found, err := store.FindBusinessByCode(code)
	require.NoError(t, err)
	assert.Equal(t, "bakeries_sweets", found.CategoryKey)
}

func TestMemoryStoreStats(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.SaveBusiness(&models.Business{CategoryKey: "restaurants"})
	require.NoError(t, err)
	_, err = store.SaveBusiness(&models.Business{CategoryKey: "cafes_roasters"})
	require.NoError(t, err)

	require.NoError(t, store.SaveSession("first", models.StateName, models.SessionData{}))
	require.NoError(t, store.SaveSession("second", models.StateCategory, models.SessionData{}))
	store.Backdate("first", time.Minute)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalBusinesses)
	assert.EqualValues(t, 2, stats.ActiveSessions)
	assert.Equal(t, "second", stats.LastContactID)
}
