package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateActivityCode(t *testing.T) {
	codeRe := regexp.MustCompile(`^[A-Z]{1,3}-\d{4}$`)

	assert.Regexp(t, codeRe, GenerateActivityCode("restaurants"))
	assert.Regexp(t, codeRe, GenerateActivityCode("x"))

	code := GenerateActivityCode("restaurants")
	assert.Equal(t, "RES-", code[:4])

	assert.Equal(t, "OTH-", GenerateActivityCode("")[:4])
}

func TestBusinessPatchIsEmpty(t *testing.T) {
	var nilPatch *BusinessPatch
	assert.True(t, nilPatch.IsEmpty())
	assert.True(t, (&BusinessPatch{}).IsEmpty())

	name := "مطعم"
	assert.False(t, (&BusinessPatch{BusinessName: &name}).IsEmpty())
	assert.False(t, (&BusinessPatch{Images: []string{"u"}}).IsEmpty())
	assert.False(t, (&BusinessPatch{WorkingHours: []WorkingShift{{Shift: 1, Times: "09:00-17:00"}}}).IsEmpty())
}

func TestBusinessPatchApply(t *testing.T) {
	business := &Business{
		BusinessName: "قديم",
		Description:  "وصف قديم",
		Images:       []string{"img1"},
		Menu:         []string{"menu1"},
		WorkingDays:  []string{"السبت"},
		WorkingHours: []WorkingShift{{Shift: 1, Times: "08:00-12:00"}},
	}

	name := "جديد"
	patch := &BusinessPatch{
		BusinessName: &name,
		Images:       []string{"img2", "img3"},
		WorkingDays:  []string{"الأحد", "الإثنين"},
		WorkingHours: []WorkingShift{{Shift: 1, Times: "10:00-22:00"}},
	}
	patch.Apply(business)

	assert.Equal(t, "جديد", business.BusinessName)
	assert.Equal(t, "وصف قديم", business.Description, "untouched field survives")
	assert.Equal(t, []string{"img1", "img2", "img3"}, business.Images, "images append")
	assert.Equal(t, []string{"menu1"}, business.Menu)
	assert.Equal(t, []string{"الأحد", "الإثنين"}, business.WorkingDays, "days replace")
	require.Len(t, business.WorkingHours, 1)
	assert.Equal(t, "10:00-22:00", business.WorkingHours[0].Times)
}

func TestBusinessPatchSummary(t *testing.T) {
	link := "https://maps.app.goo.gl/abc"
	patch := &BusinessPatch{
		LocationLink: &link,
		Images:       []string{"a", "b"},
	}

	summary := patch.Summary()
	assert.Contains(t, summary, "ملخص التعديلات المقترحة")
	assert.Contains(t, summary, link)
	assert.Contains(t, summary, "إضافة 2 صور جديدة")
	assert.NotContains(t, summary, "اسم النشاط", "untouched fields stay out of the recap")
}
