package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	session := NewSession("966512345678")
	assert.Equal(t, "966512345678", session.UserID)
	assert.Equal(t, StateMenu, session.State)
	assert.False(t, session.ReminderSent)
}

func TestSessionIsStale(t *testing.T) {
	now := time.Now()
	threshold := 30 * time.Minute

	fresh := &Session{State: StateName, LastUpdated: now.Add(-5 * time.Minute)}
	assert.False(t, fresh.IsStale(now, threshold))

	idle := &Session{State: StateName, LastUpdated: now.Add(-45 * time.Minute)}
	assert.True(t, idle.IsStale(now, threshold))

	atMenu := &Session{State: StateMenu, LastUpdated: now.Add(-45 * time.Minute)}
	assert.False(t, atMenu.IsStale(now, threshold), "menu sessions never get nudged")

	nudged := &Session{State: StateName, LastUpdated: now.Add(-45 * time.Minute), ReminderSent: true}
	assert.False(t, nudged.IsStale(now, threshold), "one nudge per session")
}
