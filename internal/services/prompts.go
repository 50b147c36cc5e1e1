package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

// Control keywords of the conversation. These are part of the user-visible
// contract and must not change between deployments.
const (
	KeywordYes  = "نعم"
	KeywordNo   = "لا"
	KeywordSkip = "تخطي"
	KeywordDone = "انتهيت"
)

// ResetKeywords short-circuit the state machine from any state
var ResetKeywords = []string{"0", "الرئيسية", "الغاء", "اختر الخدمة"}

// MenuText is the main menu prompt
const MenuText = `أهلاً بك في نظام التسجيل الآلي.
الرجاء اختيار الخدمة المطلوبة بإرسال الرقم المقابل:
1) تسجيل نشاط تجاري جديد
2) تعديل بيانات نشاط مسجل (باستخدام الكود)
3) التواصل مع فريق الدعم الفني`

// ReminderText is the nudge sent to stale sessions
const ReminderText = `يبدو أنك لم تكمل طلبك بعد. تقدر تكمل من حيث توقفت، أو ترسل 0 للعودة للقائمة الرئيسية.`

const genericFailureText = `عفواً، حدث خطأ فادح في معالجة طلبك. الرجاء المحاولة مجدداً أو إرسال 0 للعودة للقائمة الرئيسية.`

// yesNo wraps a question with the fixed yes/no instruction
func yesNo(question string) string {
	return fmt.Sprintf(`%s (يرجى الرد بـ "نعم" أو "لا")`, question)
}

// categoryList renders the numbered category table in menu order
func categoryList() string {
	keys := make([]int, 0, len(models.BusinessCategories))
	for k := range models.BusinessCategories {
		n, _ := strconv.Atoi(k)
		keys = append(keys, n)
	}
	sort.Ints(keys)

	lines := make([]string, 0, len(keys))
	for _, n := range keys {
		k := strconv.Itoa(n)
		lines = append(lines, fmt.Sprintf("%s. %s", k, models.BusinessCategories[k].Arabic))
	}
	return strings.Join(lines, "\n")
}

// platformList renders the numbered social platform table
func platformList() string {
	lines := make([]string, 0, len(models.SocialPlatforms))
	for _, k := range []string{"1", "2", "3", "4", "5"} {
		lines = append(lines, fmt.Sprintf("%s. %s", k, models.SocialPlatforms[k]))
	}
	return strings.Join(lines, "\n")
}

// weekdayList renders the numbered working-day table
func weekdayList() string {
	lines := make([]string, 0, len(models.Weekdays))
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		lines = append(lines, fmt.Sprintf("%s %s", k, models.Weekdays[k]))
	}
	return strings.Join(lines, "\n")
}
