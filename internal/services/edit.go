package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daleel-sa/daleel-backend/internal/models"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/internal/validators"
)

// editFieldLabels maps the digit the user sends in the field menu to the
// label shown in prompts. The digits are part of the conversation contract.
var editFieldLabels = map[string]string{
	"1":  "اسم النشاط",
	"2":  "نوع النشاط (الفئة)",
	"3":  "رابط الموقع",
	"4":  "الوصف",
	"5":  "الشعار",
	"6":  "الصور",
	"7":  "المنيو",
	"8":  "حسابات التواصل",
	"9":  "رقم وتفضيل التواصل",
	"10": "أيام وساعات العمل",
}

func editFieldMenu() string {
	lines := make([]string, 0, len(editFieldLabels))
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		lines = append(lines, fmt.Sprintf("%s) %s", k, editFieldLabels[k]))
	}
	return strings.Join(lines, "\n")
}

func (c *ConversationService) handleEditCode(sc *stepContext) error {
	code := strings.ToUpper(sc.text)

	business, err := c.store.FindBusinessByCode(code)
	if errors.Is(err, storage.ErrNotFound) {
		return c.send(sc.userID, "الكود غير موجود، اعد الادخال او اكتب 0 للعودة")
	}
	if err != nil {
		return fmt.Errorf("find business: %w", err)
	}

	sc.data.EditCode = code
	sc.data.CurrentData = business
	return c.transition(sc, models.StateEditMenu,
		fmt.Sprintf("لقينا النشاط: *%s*\nوش الحقول اللي تبغى تعدلها؟ ارسل الأرقام مفصولة بفواصل أو مسافات:\n%s",
			business.BusinessName, editFieldMenu()))
}

func (c *ConversationService) handleEditMenu(sc *stepContext) error {
	fields := validators.SplitMulti(sc.text)
	if len(fields) == 0 {
		return c.send(sc.userID, "الرجاء إرسال أرقام الحقول الصحيحة مفصولة بفواصل أو مسافات.")
	}
	for _, f := range fields {
		if _, ok := editFieldLabels[f]; !ok {
			return c.send(sc.userID, "الرجاء إرسال أرقام الحقول الصحيحة مفصولة بفواصل أو مسافات.")
		}
	}

	sc.data.EditFields = fields
	sc.data.EditIndex = 0
	sc.data.EditUpdates = &models.BusinessPatch{}
	if err := c.saveState(sc, models.StateEditStep); err != nil {
		return err
	}
	return c.sendEditPrompt(sc, fields[0])
}

// sendEditPrompt shows the field being edited with its current value and the
// skip instruction. The session state is already persisted by the caller.
func (c *ConversationService) sendEditPrompt(sc *stepContext, fieldID string) error {
	cur := sc.data.CurrentData
	label := editFieldLabels[fieldID]

	var current string
	switch fieldID {
	case "1":
		current = cur.BusinessName
	case "2":
		current = cur.CategoryName
	case "3":
		current = cur.LocationLink
	case "4":
		current = cur.Description
	case "5":
		if cur.Logo != "" {
			current = "[شعار مرفوع]"
		}
	case "6":
		current = fmt.Sprintf("%d صور", len(cur.Images))
	case "7":
		current = fmt.Sprintf("%d ملفات", len(cur.Menu))
	case "8":
		accounts := make([]string, 0, len(cur.SocialAccounts))
		for _, digit := range []string{"1", "2", "3", "4", "5"} {
			name := models.SocialPlatforms[digit]
			if user, ok := cur.SocialAccounts[name]; ok {
				accounts = append(accounts, fmt.Sprintf("%s: %s", name, user))
			}
		}
		current = strings.Join(accounts, "، ")
	case "9":
		current = fmt.Sprintf("%s (%s)", cur.ContactNumber, cur.ContactPref)
	case "10":
		times := make([]string, 0, len(cur.WorkingHours))
		for _, ws := range cur.WorkingHours {
			times = append(times, ws.Times)
		}
		current = fmt.Sprintf("%s | %s", strings.Join(cur.WorkingDays, "، "), strings.Join(times, " / "))
	}
	if current == "" {
		current = "(غير محدد)"
	}

	prompt := fmt.Sprintf("الحقل: %s\nالقيمة الحالية: %s\nأرسل القيمة الجديدة أو اكتب \"تخطي\"", label, current)

	// Fields with their own instructions
	switch fieldID {
	case "2":
		prompt += "\n" + categoryList()
	case "5":
		prompt = fmt.Sprintf("الحقل: %s\nالقيمة الحالية: %s\nارفع صورة الشعار الجديدة أو اكتب \"تخطي\"", label, current)
	case "6":
		prompt = fmt.Sprintf("الحقل: %s\nالقيمة الحالية: %s\nارفع الصور الجديدة وحدة وحدة (تضاف للموجود)، واكتب \"تخطي\" عند الانتهاء", label, current)
	case "7":
		prompt = fmt.Sprintf("الحقل: %s\nالقيمة الحالية: %s\nارفع ملفات المنيو الجديدة (تضاف للموجود)، واكتب \"تخطي\" عند الانتهاء", label, current)
	case "8":
		prompt += "\nاختر المنصات بالأرقام مفصولة بفواصل أو مسافات:\n" + platformList()
	case "9":
		prompt += "\nارسل الرقم والتفضيل مفصولين بمسافة (مثال: 0512345678 2)\n1) اتصال فقط  2) واتساب فقط  3) كلاهما"
	case "10":
		prompt += "\nارسل أرقام الأيام مفصولة بفواصل أو مسافات:\n" + weekdayList()
	}

	return c.send(sc.userID, prompt)
}

// finalizeEditStep advances the cursor and either prompts for the next field
// or moves to the confirmation recap. An all-skipped patch cancels the edit.
func (c *ConversationService) finalizeEditStep(sc *stepContext) error {
	sc.data.EditIndex++

	if sc.data.EditIndex >= len(sc.data.EditFields) {
		if sc.data.EditUpdates.IsEmpty() {
			if err := c.store.ClearSession(sc.userID); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			return c.send(sc.userID, "لم يتم تغيير أي حقل. تم إلغاء التعديل. اكتب 0 للعودة للقائمة الرئيسية.")
		}
		return c.transition(sc, models.StateEditConfirm,
			sc.data.EditUpdates.Summary()+"\nهل تعتمد الحفظ؟ (نعم/لا)")
	}

	if err := c.saveState(sc, models.StateEditStep); err != nil {
		return err
	}
	return c.sendEditPrompt(sc, sc.data.EditFields[sc.data.EditIndex])
}

func (c *ConversationService) handleEditStep(sc *stepContext) error {
	if sc.data.EditIndex >= len(sc.data.EditFields) {
		// cursor out of range means corrupted state; bail out cleanly
		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return c.send(sc.userID, MenuText)
	}

	field := sc.data.EditFields[sc.data.EditIndex]
	patch := sc.data.EditUpdates
	if patch == nil {
		patch = &models.BusinessPatch{}
		sc.data.EditUpdates = patch
	}

	// Fields 6 and 7 accumulate uploads, so skip is their loop exit and is
	// handled inside the case.
	if isSkip(sc.text) && field != "6" && field != "7" {
		return c.finalizeEditStep(sc)
	}

	switch field {
	case "1":
		if !validators.MinLen(sc.text, 2) {
			return c.send(sc.userID, `الاسم قصير، عطنا اسم صحيح أو اكتب "تخطي"`)
		}
		name := sc.text
		patch.BusinessName = &name
		return c.finalizeEditStep(sc)

	case "2":
		cat, ok := models.BusinessCategories[sc.text]
		if !ok {
			return c.send(sc.userID, `اختيار الفئة غير صحيح. أعد إدخال الرقم الصحيح أو اكتب "تخطي"`)
		}
		key, name := cat.Key, cat.Arabic
		patch.CategoryKey = &key
		patch.CategoryName = &name
		return c.finalizeEditStep(sc)

	case "3":
		if sc.msg.Media != nil {
			return c.send(sc.userID, "هذا ملف وليس رابط. أرسل رابط الخرائط كنص:")
		}
		if !validators.LooksLikeLink(sc.text) {
			return c.send(sc.userID, `الرابط غير صالح. أرسل رابط يبدأ بـ http أو اكتب "تخطي"`)
		}
		link := sc.text
		patch.LocationLink = &link
		return c.finalizeEditStep(sc)

	case "4":
		desc := sc.text
		patch.Description = &desc
		return c.finalizeEditStep(sc)

	case "5":
		if sc.msg.Media == nil {
			return c.send(sc.userID, `ارفع صورة الشعار او اكتب "تخطي"`)
		}
		url, err := c.uploadMedia(sc, "logo_edit.png")
		if err != nil {
			return err
		}
		patch.Logo = &url
		return c.finalizeEditStep(sc)

	case "6":
		if isSkip(sc.text) {
			return c.finalizeEditStep(sc)
		}
		if sc.msg.Media == nil {
			return c.send(sc.userID, `ارفع صورة او اكتب "تخطي" للمتابعة.`)
		}
		if len(sc.data.CurrentData.Images)+len(patch.Images) >= models.MaxImagesCount {
			return c.send(sc.userID,
				fmt.Sprintf(`وصلت للحد الأقصى للصور (%d). اكتب "تخطي" للمتابعة.`, models.MaxImagesCount))
		}
		url, err := c.uploadMedia(sc, "img_edit.png")
		if err != nil {
			return err
		}
		patch.Images = append(patch.Images, url)
		return c.transition(sc, models.StateEditStep, `تمت الاضافة. ارسل صورة اخرى او اكتب "تخطي"`)

	case "7":
		if isSkip(sc.text) {
			return c.finalizeEditStep(sc)
		}
		if sc.msg.Media == nil {
			return c.send(sc.userID, `ارفع ملف المنيو او اكتب "تخطي" للمتابعة.`)
		}
		url, err := c.uploadMedia(sc, "menu_edit")
		if err != nil {
			return err
		}
		patch.Menu = append(patch.Menu, url)
		return c.transition(sc, models.StateEditStep, `تمت الاضافة. ارسل ملف اخر او اكتب "تخطي"`)

	case "8":
		chosen := validators.PickFromTable(validators.SplitMulti(sc.text), models.SocialPlatforms)
		if len(chosen) == 0 {
			return c.send(sc.userID, "اختيار المنصات غير صحيح. الرجاء إرسال أرقام المنصات مفصولة (فواصل أو مسافات).")
		}
		sc.data.PendingSocialEdit = chosen
		patch.SocialAccounts = map[string]string{}
		return c.transition(sc, models.StateEditSocialUsers,
			fmt.Sprintf("أرسل يوزر %s الآن:", chosen[0]))

	case "9":
		parts := strings.Fields(sc.text)
		if len(parts) != 2 || !validators.ValidPhone(parts[0]) {
			return c.send(sc.userID, `ارسل الرقم والتفضيل مفصولين بمسافة (مثال: 0512345678 2) او اكتب "تخطي"`)
		}
		var pref string
		switch parts[1] {
		case "1":
			pref = models.ContactPrefCall
		case "2":
			pref = models.ContactPrefWhatsApp
		case "3":
			pref = models.ContactPrefBoth
		default:
			return c.send(sc.userID, "التفضيل يكون 1 او 2 او 3 فقط.")
		}
		number := parts[0]
		patch.ContactNumber = &number
		patch.ContactPref = &pref
		return c.finalizeEditStep(sc)

	case "10":
		days := validators.PickFromTable(validators.SplitMulti(sc.text), models.Weekdays)
		if len(days) == 0 {
			return c.send(sc.userID, "اختيار الأيام غير صحيح. ارسل أرقام الأيام مفصولة بفواصل أو مسافات.")
		}
		patch.WorkingDays = days
		return c.transition(sc, models.StateEditHoursQ,
			"تم اختيار الأيام. نظام العمل: 1) فترة واحدة  2) فترتين  3) 24 ساعة؟ ارسل 1 او 2 او 3")

	default:
		c.log.Warn("unknown edit field", "user", sc.userID, "field", field)
		return c.finalizeEditStep(sc)
	}
}

func (c *ConversationService) handleEditSocialUsers(sc *stepContext) error {
	if sc.text == "" {
		return c.send(sc.userID, "ادخل يوزر صحيح")
	}
	if len(sc.data.PendingSocialEdit) == 0 {
		return c.finalizeEditStep(sc)
	}

	platform := sc.data.PendingSocialEdit[0]
	sc.data.PendingSocialEdit = sc.data.PendingSocialEdit[1:]
	if sc.data.EditUpdates.SocialAccounts == nil {
		sc.data.EditUpdates.SocialAccounts = map[string]string{}
	}
	sc.data.EditUpdates.SocialAccounts[platform] = sc.text

	if len(sc.data.PendingSocialEdit) > 0 {
		return c.transition(sc, models.StateEditSocialUsers,
			fmt.Sprintf("الآن أرسل يوزر %s:", sc.data.PendingSocialEdit[0]))
	}

	sc.data.PendingSocialEdit = nil
	return c.finalizeEditStep(sc)
}

func (c *ConversationService) handleEditHoursQ(sc *stepContext) error {
	switch sc.text {
	case "1", "فترة واحدة":
		return c.transition(sc, models.StateEditSingleHour, "ادخل وقت الفترة (مثال: 09:00-17:00)")
	case "2", "فترتين":
		return c.transition(sc, models.StateEditDoubleHour1, "ادخل الفترة الأولى (مثال: 09:00-13:00)")
	case "3", "24 ساعة":
		sc.data.EditUpdates.WorkingHours = []models.WorkingShift{{Shift: 1, Times: "24 ساعة"}}
		return c.finalizeEditStep(sc)
	default:
		return c.send(sc.userID, "اكتب 1 او 2 او 3 فقط.")
	}
}

func (c *ConversationService) handleEditSingleHour(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 09:00-17:00).")
	}
	sc.data.EditUpdates.WorkingHours = []models.WorkingShift{{Shift: 1, Times: sc.text}}
	return c.finalizeEditStep(sc)
}

func (c *ConversationService) handleEditDoubleHour1(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 09:00-13:00).")
	}
	sc.data.EditShift1 = sc.text
	return c.transition(sc, models.StateEditDoubleHour2, "ادخل الفترة الثانية (مثال: 16:00-22:00)")
}

func (c *ConversationService) handleEditDoubleHour2(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 16:00-22:00).")
	}
	sc.data.EditUpdates.WorkingHours = []models.WorkingShift{
		{Shift: 1, Times: sc.data.EditShift1},
		{Shift: 2, Times: sc.text},
	}
	sc.data.EditShift1 = ""
	return c.finalizeEditStep(sc)
}

func (c *ConversationService) handleEditConfirm(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		business, err := c.store.FindBusinessByCode(sc.data.EditCode)
		if errors.Is(err, storage.ErrNotFound) {
			if clearErr := c.store.ClearSession(sc.userID); clearErr != nil {
				return fmt.Errorf("clear session: %w", clearErr)
			}
			return c.send(sc.userID, "للأسف الكود ما لقيته الآن. اكتب 0 للعودة للقائمة الرئيسية.")
		}
		if err != nil {
			return fmt.Errorf("find business: %w", err)
		}

		sc.data.EditUpdates.Apply(business)
		if err := c.store.UpdateBusiness(business); err != nil {
			return fmt.Errorf("update business: %w", err)
		}
		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		c.metrics.EditsApplied.Inc()
		c.log.Info("business edited", "code", business.ActivityCode, "user", sc.userID)

		adminMsg := fmt.Sprintf("✅ تم تعديل نشاط %s بواسطة %s\nالتوقيت: %s",
			business.ActivityCode, sc.userID, riyadhNow())
		if err := c.send(c.adminNumber, adminMsg); err != nil {
			c.log.Error("admin notification failed", "error", err)
		}

		return c.send(sc.userID, "تم حفظ التعديلات بنجاح. اكتب 0 للعودة للقائمة الرئيسية.")

	case isNo(sc.text):
		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return c.send(sc.userID, "تم إلغاء الحفظ. اكتب 0 للعودة للقائمة الرئيسية.")

	default:
		return c.send(sc.userID, "هل تعتمد الحفظ؟ (نعم/لا)")
	}
}
