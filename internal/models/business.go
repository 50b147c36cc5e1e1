package models

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// WorkingShift is one time range in a business's working hours
type WorkingShift struct {
	Shift int    `json:"shift" bson:"shift"`
	Times string `json:"times" bson:"times"`
}

// BusinessStatusPending is the lifecycle status of a freshly registered record
const BusinessStatusPending = "pending"

// Business is a registered business record. Records are partitioned by
// CategoryKey and keyed by ActivityCode in the record store.
type Business struct {
	ActivityCode     string            `json:"activity_code" bson:"activity_code"`
	BusinessName     string            `json:"business_name" bson:"business_name"`
	CategoryKey      string            `json:"category_key" bson:"category_key"`
	CategoryName     string            `json:"category_name" bson:"category_name"`
	CustomType       string            `json:"custom_type,omitempty" bson:"custom_type,omitempty"`
	LocationLink     string            `json:"location_link,omitempty" bson:"location_link,omitempty"`
	Description      string            `json:"description,omitempty" bson:"description,omitempty"`
	Logo             string            `json:"logo,omitempty" bson:"logo,omitempty"`
	Images           []string          `json:"images" bson:"images"`
	Menu             []string          `json:"menu" bson:"menu"`
	SocialAccounts   map[string]string `json:"social_accounts" bson:"social_accounts"`
	ContactNumber    string            `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	ContactPref      string            `json:"contact_pref,omitempty" bson:"contact_pref,omitempty"`
	WorkingDays      []string          `json:"working_days" bson:"working_days"`
	WorkingHours     []WorkingShift    `json:"working_hours" bson:"working_hours"`
	UploaderWhatsApp string            `json:"uploader_whatsapp" bson:"uploader_whatsapp"`
	Status           string            `json:"status" bson:"status"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
}

// GenerateActivityCode builds a short code from the category prefix and a
// random 4-digit suffix, e.g. "RES-4821". Uniqueness is best effort; callers
// that need it must check the store.
func GenerateActivityCode(categoryKey string) string {
	if categoryKey == "" {
		categoryKey = "OTH"
	}
	prefix := strings.ToUpper(categoryKey)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	suffix := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s-%d", prefix, suffix)
}

// BusinessPatch holds only the fields the user chose to change during an edit.
// Nil pointers and empty slices mean "untouched".
type BusinessPatch struct {
	BusinessName   *string           `json:"business_name,omitempty" bson:"business_name,omitempty"`
	CategoryKey    *string           `json:"category_key,omitempty" bson:"category_key,omitempty"`
	CategoryName   *string           `json:"category_name,omitempty" bson:"category_name,omitempty"`
	LocationLink   *string           `json:"location_link,omitempty" bson:"location_link,omitempty"`
	Description    *string           `json:"description,omitempty" bson:"description,omitempty"`
	Logo           *string           `json:"logo,omitempty" bson:"logo,omitempty"`
	Images         []string          `json:"images,omitempty" bson:"images,omitempty"`
	Menu           []string          `json:"menu,omitempty" bson:"menu,omitempty"`
	SocialAccounts map[string]string `json:"social_accounts,omitempty" bson:"social_accounts,omitempty"`
	ContactNumber  *string           `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	ContactPref    *string           `json:"contact_pref,omitempty" bson:"contact_pref,omitempty"`
	WorkingDays    []string          `json:"working_days,omitempty" bson:"working_days,omitempty"`
	WorkingHours   []WorkingShift    `json:"working_hours,omitempty" bson:"working_hours,omitempty"`
}

// IsEmpty reports whether the patch changes nothing (everything was skipped)
func (p *BusinessPatch) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.BusinessName == nil &&
		p.CategoryKey == nil &&
		p.CategoryName == nil &&
		p.LocationLink == nil &&
		p.Description == nil &&
		p.Logo == nil &&
		len(p.Images) == 0 &&
		len(p.Menu) == 0 &&
		len(p.SocialAccounts) == 0 &&
		p.ContactNumber == nil &&
		p.ContactPref == nil &&
		len(p.WorkingDays) == 0 &&
		len(p.WorkingHours) == 0
}

// Apply merges the patch into a record. Image and menu arrays append to the
// existing arrays; every other field overwrites.
func (p *BusinessPatch) Apply(b *Business) {
	if p == nil {
		return
	}
	if p.BusinessName != nil {
		b.BusinessName = *p.BusinessName
	}
	if p.CategoryKey != nil {
		b.CategoryKey = *p.CategoryKey
	}
	if p.CategoryName != nil {
		b.CategoryName = *p.CategoryName
	}
	if p.LocationLink != nil {
		b.LocationLink = *p.LocationLink
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Logo != nil {
		b.Logo = *p.Logo
	}
	if len(p.Images) > 0 {
		b.Images = append(b.Images, p.Images...)
	}
	if len(p.Menu) > 0 {
		b.Menu = append(b.Menu, p.Menu...)
	}
	if len(p.SocialAccounts) > 0 {
		b.SocialAccounts = p.SocialAccounts
	}
	if p.ContactNumber != nil {
		b.ContactNumber = *p.ContactNumber
	}
	if p.ContactPref != nil {
		b.ContactPref = *p.ContactPref
	}
	if len(p.WorkingDays) > 0 {
		b.WorkingDays = p.WorkingDays
	}
	if len(p.WorkingHours) > 0 {
		b.WorkingHours = p.WorkingHours
	}
}

// Summary renders the human-readable Arabic recap shown before the user
// confirms the edit. Only fields present in the patch appear.
func (p *BusinessPatch) Summary() string {
	var sb strings.Builder
	sb.WriteString("ملخص التعديلات المقترحة:\n")
	if p.BusinessName != nil {
		fmt.Fprintf(&sb, "- اسم النشاط: %s\n", *p.BusinessName)
	}
	if p.CategoryName != nil {
		fmt.Fprintf(&sb, "- نوع النشاط: %s\n", *p.CategoryName)
	}
	if p.LocationLink != nil {
		fmt.Fprintf(&sb, "- الموقع: %s\n", *p.LocationLink)
	}
	if p.Description != nil {
		fmt.Fprintf(&sb, "- الوصف: %s\n", *p.Description)
	}
	if p.Logo != nil {
		sb.WriteString("- الشعار: [تم رفع شعار جديد]\n")
	}
	if len(p.Images) > 0 {
		fmt.Fprintf(&sb, "- الصور: إضافة %d صور جديدة\n", len(p.Images))
	}
	if len(p.Menu) > 0 {
		fmt.Fprintf(&sb, "- المنيو: إضافة %d ملفات جديدة\n", len(p.Menu))
	}
	if len(p.SocialAccounts) > 0 {
		platforms := make([]string, 0, len(p.SocialAccounts))
		for _, digit := range []string{"1", "2", "3", "4", "5"} {
			name := SocialPlatforms[digit]
			if _, ok := p.SocialAccounts[name]; ok {
				platforms = append(platforms, name)
			}
		}
		fmt.Fprintf(&sb, "- حسابات التواصل: %s\n", strings.Join(platforms, ", "))
	}
	if p.ContactNumber != nil {
		fmt.Fprintf(&sb, "- رقم التواصل: %s\n", *p.ContactNumber)
	}
	if p.ContactPref != nil {
		fmt.Fprintf(&sb, "- تفضيل التواصل: %s\n", *p.ContactPref)
	}
	if len(p.WorkingDays) > 0 {
		fmt.Fprintf(&sb, "- أيام العمل: %s\n", strings.Join(p.WorkingDays, ", "))
	}
	if len(p.WorkingHours) > 0 {
		times := make([]string, 0, len(p.WorkingHours))
		for _, ws := range p.WorkingHours {
			times = append(times, ws.Times)
		}
		fmt.Fprintf(&sb, "- ساعات العمل: %s\n", strings.Join(times, " / "))
	}
	return sb.String()
}
