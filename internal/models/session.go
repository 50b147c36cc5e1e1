package models

import "time"

// SessionState names one step of the conversation graph. The values are the
// identifiers persisted in the session store, so they stay stable across
// deployments even when steps are added.
type SessionState string

const (
	StateMenu SessionState = "0"

	// Registration flow
	StateName         SessionState = "10"
	StateCategory     SessionState = "11"
	StateCustomType   SessionState = "12"
	StateLocationQ    SessionState = "13"
	StateLocationLink SessionState = "14_loc"
	StateDescription  SessionState = "15_desc"
	StateLogoQ        SessionState = "16_logo"
	StateLogoUpload   SessionState = "16_logo_upload"
	StateImagesQ      SessionState = "17_images"
	StateImagesUpload SessionState = "17_images_upload"
	StateMenuQ        SessionState = "18_menu"
	StateMenuUpload   SessionState = "18_menu_upload"
	StateSocialQ      SessionState = "19_social_q"
	StateSocialSelect SessionState = "19_social_select"
	StateSocialUser   SessionState = "19_social_user"
	StateContact      SessionState = "20_contact"
	StateContactPref  SessionState = "20_contact_pref"
	StateWorkdays     SessionState = "21_workdays"
	StateShiftCount   SessionState = "22_shift_count"
	StateSingleShift  SessionState = "23_single_shift"
	StateDoubleShift1 SessionState = "23_double_shift_1"
	StateDoubleShift2 SessionState = "23_double_shift_2"
	StateConfirm      SessionState = "90_confirm"

	// Support
	StateSupport SessionState = "30"

	// Edit flow
	StateEditCode        SessionState = "99"
	StateEditMenu        SessionState = "100_edit_menu"
	StateEditStep        SessionState = "101_edit_step"
	StateEditSocialUsers SessionState = "101_edit_step_social_users"
	StateEditHoursQ      SessionState = "101_edit_step_hours_q"
	StateEditSingleHour  SessionState = "101_edit_step_single_hour"
	StateEditDoubleHour1 SessionState = "101_edit_step_double_hour_1"
	StateEditDoubleHour2 SessionState = "101_edit_step_double_hour_2"
	StateEditConfirm     SessionState = "102_edit_confirm"
)

// SessionData is the draft accumulated across steps. Registration fields fill
// the first block; the edit flow uses the second. Each step only touches the
// fields it owns.
type SessionData struct {
	BusinessName   string            `json:"business_name,omitempty" bson:"business_name,omitempty"`
	CategoryKey    string            `json:"category_key,omitempty" bson:"category_key,omitempty"`
	CategoryName   string            `json:"category_name,omitempty" bson:"category_name,omitempty"`
	CustomType     string            `json:"custom_type,omitempty" bson:"custom_type,omitempty"`
	HasLocation    bool              `json:"has_location,omitempty" bson:"has_location,omitempty"`
	LocationLink   string            `json:"location_link,omitempty" bson:"location_link,omitempty"`
	Description    string            `json:"description,omitempty" bson:"description,omitempty"`
	Logo           string            `json:"logo,omitempty" bson:"logo,omitempty"`
	Images         []string          `json:"files,omitempty" bson:"files,omitempty"`
	Menu           []string          `json:"menu,omitempty" bson:"menu,omitempty"`
	PendingSocial  []string          `json:"pending_social,omitempty" bson:"pending_social,omitempty"`
	SocialAccounts map[string]string `json:"social_accounts,omitempty" bson:"social_accounts,omitempty"`
	ContactNumber  string            `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	ContactPref    string            `json:"contact_pref,omitempty" bson:"contact_pref,omitempty"`
	WorkingDays    []string          `json:"working_days,omitempty" bson:"working_days,omitempty"`
	WorkingHours   []WorkingShift    `json:"working_hours,omitempty" bson:"working_hours,omitempty"`
	Shift1         string            `json:"shift1,omitempty" bson:"shift1,omitempty"`

	EditCode          string         `json:"edit_code,omitempty" bson:"edit_code,omitempty"`
	CurrentData       *Business      `json:"current_data,omitempty" bson:"current_data,omitempty"`
	EditFields        []string       `json:"edit_fields,omitempty" bson:"edit_fields,omitempty"`
	EditIndex         int            `json:"edit_index" bson:"edit_index"`
	EditUpdates       *BusinessPatch `json:"edit_updates,omitempty" bson:"edit_updates,omitempty"`
	PendingSocialEdit []string       `json:"pending_social_edit,omitempty" bson:"pending_social_edit,omitempty"`
	EditShift1        string         `json:"shift1_edit,omitempty" bson:"shift1_edit,omitempty"`
}

// Session is the per-user conversation envelope held by the session store
type Session struct {
	UserID       string       `json:"user_id" bson:"_id"`
	State        SessionState `json:"state" bson:"state"`
	Data         SessionData  `json:"data" bson:"data"`
	LastUpdated  time.Time    `json:"last_updated" bson:"last_updated"`
	ReminderSent bool         `json:"reminder_sent" bson:"reminder_sent"`
}

// NewSession returns the default empty session at the main menu
func NewSession(userID string) *Session {
	return &Session{
		UserID: userID,
		State:  StateMenu,
	}
}

// IsStale reports whether the session qualifies for a reminder nudge: not at
// the menu, inactive past the threshold, and not nudged before.
func (s *Session) IsStale(now time.Time, threshold time.Duration) bool {
	if s.State == StateMenu || s.ReminderSent {
		return false
	}
	return now.Sub(s.LastUpdated) > threshold
}
