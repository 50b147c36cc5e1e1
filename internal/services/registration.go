package services

import (
	"fmt"
	"strings"

	"github.com/daleel-sa/daleel-backend/internal/models"
	"github.com/daleel-sa/daleel-backend/internal/validators"
)

func isYes(text string) bool {
	switch strings.ToLower(text) {
	case KeywordYes, "y", "yes":
		return true
	}
	return false
}

func isNo(text string) bool {
	switch strings.ToLower(text) {
	case KeywordNo, "n", "no":
		return true
	}
	return false
}

func isSkip(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), KeywordSkip)
}

func isDone(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), KeywordDone)
}

func (c *ConversationService) handleName(sc *stepContext) error {
	if !validators.MinLen(sc.text, 2) {
		return c.send(sc.userID, "الاسم قصير، عطنا اسم صحيح أو اكتب 0 للعوده")
	}
	sc.data.BusinessName = sc.text
	sc.data.CustomType = ""
	return c.transition(sc, models.StateCategory, "طيب، وش نوع النشاط؟ (ارسل الرقم)\n"+categoryList())
}

func (c *ConversationService) handleCategory(sc *stepContext) error {
	cat, ok := models.BusinessCategories[sc.text]
	if !ok {
		return c.send(sc.userID, "اختيار غير صحيح، ارسل رقم الفئة الصحيح من القائمة.")
	}
	sc.data.CategoryKey = cat.Key
	sc.data.CategoryName = cat.Arabic
	if cat.Key == models.CategoryOther {
		return c.transition(sc, models.StateCustomType, "اكتب نوع النشاط بالتفصيل:")
	}
	return c.transition(sc, models.StateLocationQ, yesNo("هل النشاط له موقع ثابت؟"))
}

func (c *ConversationService) handleCustomType(sc *stepContext) error {
	if sc.text != "" {
		sc.data.CustomType = sc.text
	} else {
		sc.data.CustomType = "أخرى - تفاصيل غير محددة"
	}
	return c.transition(sc, models.StateLocationQ, yesNo("هل النشاط له موقع ثابت؟"))
}

func (c *ConversationService) handleLocationQ(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		sc.data.HasLocation = true
		return c.transition(sc, models.StateLocationLink, "أرسل رابط الخرائط للمكان:")
	case isNo(sc.text):
		sc.data.HasLocation = false
		sc.data.LocationLink = ""
		return c.transition(sc, models.StateDescription, `أرسل وصف مختصر للنشاط أو اكتب "تخطي"`)
	default:
		return c.send(sc.userID, yesNo("الرجاء اختيار إجابة صحيحة. هل النشاط له موقع ثابت؟"))
	}
}

func (c *ConversationService) handleLocationLink(sc *stepContext) error {
	if sc.msg.Media != nil {
		return c.send(sc.userID, "هذا ملف وليس رابط. أرسل رابط الخرائط كنص:")
	}
	if !validators.LooksLikeLink(sc.text) {
		return c.send(sc.userID, "الرابط غير صالح. أرسل رابط يبدأ بـ http أو https:")
	}
	sc.data.LocationLink = sc.text
	return c.transition(sc, models.StateDescription, `أرسل وصف مختصر للنشاط أو اكتب "تخطي"`)
}

func (c *ConversationService) handleDescription(sc *stepContext) error {
	if sc.text != "" && !isSkip(sc.text) {
		sc.data.Description = sc.text
	} else {
		sc.data.Description = ""
	}
	return c.transition(sc, models.StateLogoQ, yesNo("هل عندك شعار (logo) للنشاط؟"))
}

func (c *ConversationService) handleLogoQ(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		return c.transition(sc, models.StateLogoUpload, "ارفع صورة الشعار (PNG/JPG) الآن:")
	case isNo(sc.text):
		sc.data.Logo = ""
		return c.transition(sc, models.StateImagesQ, yesNo("هل عندك صور للنشاط؟"))
	default:
		return c.send(sc.userID, yesNo("الرجاء اختيار إجابة صحيحة. هل عندك شعار للنشاط؟"))
	}
}

func (c *ConversationService) handleLogoUpload(sc *stepContext) error {
	if sc.msg.Media == nil {
		if isSkip(sc.text) {
			sc.data.Logo = ""
			return c.transition(sc, models.StateImagesQ, yesNo("هل عندك صور للنشاط؟"))
		}
		return c.send(sc.userID, `الرجاء رفع صورة الشعار أو إرسال "تخطي" للمرور.`)
	}

	url, err := c.uploadMedia(sc, "logo.png")
	if err != nil {
		return err
	}
	sc.data.Logo = url
	return c.transition(sc, models.StateImagesQ, yesNo("تم رفع الشعار. هل عندك صور للنشاط؟"))
}

func (c *ConversationService) handleImagesQ(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		sc.data.Images = []string{}
		return c.transition(sc, models.StateImagesUpload,
			fmt.Sprintf(`ارفع الصور وحدة وحدة، (الحد الأقصى %d صور). وبعد ما تخلص اكتب "انتهيت"`, models.MaxImagesCount))
	case isNo(sc.text):
		sc.data.Images = nil
		return c.transition(sc, models.StateMenuQ, yesNo("هل عندك منيو؟"))
	default:
		return c.send(sc.userID, yesNo("الرجاء اختيار إجابة صحيحة. هل عندك صور للنشاط؟"))
	}
}

func (c *ConversationService) handleImagesUpload(sc *stepContext) error {
	if isDone(sc.text) {
		if len(sc.data.Images) == 0 {
			return c.send(sc.userID, "لم يتم رفع أي صور. يجب رفع صورة واحدة على الأقل أو إرسال 0 للعودة.")
		}
		return c.transition(sc, models.StateMenuQ, yesNo("انتهيت من الصور. هل عندك منيو؟"))
	}

	if len(sc.data.Images) >= models.MaxImagesCount {
		return c.send(sc.userID,
			fmt.Sprintf(`وصلت للحد الأقصى للصور (%d). اكتب "انتهيت" للمتابعة.`, models.MaxImagesCount))
	}

	if sc.msg.Media == nil {
		return c.send(sc.userID, `ارفع صورة او اكتب "انتهيت" للمتابعة.`)
	}

	url, err := c.uploadMedia(sc, "image.png")
	if err != nil {
		return err
	}
	sc.data.Images = append(sc.data.Images, url)
	return c.transition(sc, models.StateImagesUpload,
		fmt.Sprintf(`تم استلام الصورة (%d/%d). تقدر ترسل صورة ثانية او اكتب "انتهيت"`, len(sc.data.Images), models.MaxImagesCount))
}

func (c *ConversationService) handleMenuQ(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		return c.transition(sc, models.StateMenuUpload, `ارفع المنيو (صورة او PDF) أو اكتب "تخطي" للانتقال`)
	case isNo(sc.text):
		sc.data.Menu = nil
		return c.transition(sc, models.StateSocialQ, yesNo("هل عندك حسابات تواصل للنشاط؟"))
	default:
		return c.send(sc.userID, yesNo("الرجاء اختيار إجابة صحيحة. هل عندك منيو؟"))
	}
}

func (c *ConversationService) handleMenuUpload(sc *stepContext) error {
	if sc.msg.Media == nil {
		if isSkip(sc.text) {
			return c.transition(sc, models.StateSocialQ, yesNo("حلو. هل عندك حسابات تواصل للنشاط؟"))
		}
		return c.send(sc.userID, `ارفع ملف المنيو أو اكتب "تخطي"`)
	}

	url, err := c.uploadMedia(sc, "menu")
	if err != nil {
		return err
	}
	sc.data.Menu = append(sc.data.Menu, url)
	return c.transition(sc, models.StateSocialQ, yesNo("تم حفظ المنيو. هل عندك حسابات تواصل للنشاط؟"))
}

func (c *ConversationService) handleSocialQ(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		sc.data.PendingSocial = nil
		sc.data.SocialAccounts = map[string]string{}
		return c.transition(sc, models.StateSocialSelect,
			"اختر المنصات اللي عندك بالأرقام مفصولة بـ (فواصل أو مسافات):\n"+platformList()+"\nاو اكتب 'تخطي'")
	case isNo(sc.text):
		sc.data.SocialAccounts = map[string]string{}
		return c.transition(sc, models.StateContact, "حلو. ارسل رقم التواصل الآن (مثال: 059xxxxxxx)")
	default:
		return c.send(sc.userID, yesNo("الرجاء اختيار إجابة صحيحة. هل عندك حسابات تواصل للنشاط؟"))
	}
}

func (c *ConversationService) handleSocialSelect(sc *stepContext) error {
	if sc.text == "" || isSkip(sc.text) {
		sc.data.SocialAccounts = map[string]string{}
		return c.transition(sc, models.StateContact, "طيب، ارسل رقم التواصل الآن (مثال: 059xxxxxxx)")
	}

	chosen := validators.PickFromTable(validators.SplitMulti(sc.text), models.SocialPlatforms)
	if len(chosen) == 0 {
		return c.send(sc.userID, "اختيار غير صالح، ارسل ارقام المنصات مفصولة (فواصل أو مسافات) او اكتب تخطي")
	}

	sc.data.PendingSocial = chosen
	sc.data.SocialAccounts = map[string]string{}
	return c.transition(sc, models.StateSocialUser,
		fmt.Sprintf("اكتب يوزر %s (بدون رابط، مثال @username)", chosen[0]))
}

func (c *ConversationService) handleSocialUser(sc *stepContext) error {
	if sc.text == "" {
		return c.send(sc.userID, "ادخل يوزر صحيح")
	}
	if len(sc.data.PendingSocial) == 0 {
		// shouldn't happen; recover into the contact step
		return c.transition(sc, models.StateContact, "ارسل رقم التواصل الآن (مثال: 059xxxxxxx)")
	}

	platform := sc.data.PendingSocial[0]
	sc.data.PendingSocial = sc.data.PendingSocial[1:]
	if sc.data.SocialAccounts == nil {
		sc.data.SocialAccounts = map[string]string{}
	}
	sc.data.SocialAccounts[platform] = sc.text

	if len(sc.data.PendingSocial) > 0 {
		return c.transition(sc, models.StateSocialUser,
			fmt.Sprintf("الآن اكتب يوزر %s", sc.data.PendingSocial[0]))
	}

	sc.data.PendingSocial = nil
	return c.transition(sc, models.StateContact, "تم حفظ حسابات السوشال. ارسل رقم التواصل الآن (مثال: 059xxxxxxx)")
}

func (c *ConversationService) handleContact(sc *stepContext) error {
	if !validators.ValidPhone(sc.text) {
		return c.send(sc.userID, "رقم التواصل غير صحيح. يجب أن يتكون من 10 أرقام ويبدأ بـ 05 (مثال: 05xxxxxxxx).")
	}
	sc.data.ContactNumber = sc.text
	return c.transition(sc, models.StateContactPref,
		"كيف تبي طريقة التواصل؟ ارسل:\n1) اتصال فقط\n2) واتساب فقط\n3) كلاهما")
}

func (c *ConversationService) handleContactPref(sc *stepContext) error {
	var pref string
	switch sc.text {
	case "1", "اتصال فقط", "اتصال":
		pref = models.ContactPrefCall
	case "2", "واتساب فقط", "واتساب":
		pref = models.ContactPrefWhatsApp
	case "3", "كلاهما":
		pref = models.ContactPrefBoth
	default:
		return c.send(sc.userID, "اكتب 1 او 2 او 3 فقط.")
	}
	sc.data.ContactPref = pref
	return c.transition(sc, models.StateWorkdays,
		"اختار أيام العمل من القائمة (ارسل أرقام مفصولة بفواصل أو مسافات):\n"+weekdayList())
}

func (c *ConversationService) handleWorkdays(sc *stepContext) error {
	days := validators.PickFromTable(validators.SplitMulti(sc.text), models.Weekdays)
	if len(days) == 0 {
		return c.send(sc.userID, "اختيار الأيام غير صحيح. ارسل أرقام الأيام مفصولة بفواصل أو مسافات.")
	}
	sc.data.WorkingDays = days
	return c.transition(sc, models.StateShiftCount,
		"نظام العمل: 1) فترة واحدة  2) فترتين  3) 24 ساعة؟ ارسل 1 او 2 او 3")
}

func (c *ConversationService) handleShiftCount(sc *stepContext) error {
	switch sc.text {
	case "1", "فترة واحدة":
		return c.transition(sc, models.StateSingleShift, "ادخل وقت الفترة (مثال: 09:00-17:00)")
	case "2", "فترتين":
		return c.transition(sc, models.StateDoubleShift1, "ادخل الفترة الأولى (مثال: 09:00-13:00)")
	case "3", "24 ساعة":
		sc.data.WorkingHours = []models.WorkingShift{{Shift: 1, Times: "24 ساعة"}}
		return c.transition(sc, models.StateConfirm, yesNo("تمام، شغال 24 ساعة. هل تبغى تأكيد الحفظ؟"))
	default:
		return c.send(sc.userID, "اكتب 1 او 2 او 3 فقط.")
	}
}

func (c *ConversationService) handleSingleShift(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 09:00-17:00).")
	}
	sc.data.WorkingHours = []models.WorkingShift{{Shift: 1, Times: sc.text}}
	return c.transition(sc, models.StateConfirm, yesNo("حلو. هل تبغى تأكيد الحفظ؟"))
}

func (c *ConversationService) handleDoubleShift1(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 09:00-13:00).")
	}
	sc.data.Shift1 = sc.text
	return c.transition(sc, models.StateDoubleShift2, "ادخل الفترة الثانية (مثال: 16:00-22:00)")
}

func (c *ConversationService) handleDoubleShift2(sc *stepContext) error {
	if !validators.ValidTimeRange(sc.text) {
		return c.send(sc.userID, "صيغة الوقت غير صحيحة. الرجاء استخدام الصيغة: HH:MM-HH:MM (مثال: 16:00-22:00).")
	}
	sc.data.WorkingHours = []models.WorkingShift{
		{Shift: 1, Times: sc.data.Shift1},
		{Shift: 2, Times: sc.text},
	}
	sc.data.Shift1 = ""
	return c.transition(sc, models.StateConfirm, yesNo("تمام. هل تبغى تأكيد الحفظ؟"))
}

func (c *ConversationService) handleConfirm(sc *stepContext) error {
	switch {
	case isYes(sc.text):
		business := &models.Business{
			BusinessName:     sc.data.BusinessName,
			CategoryKey:      sc.data.CategoryKey,
			CategoryName:     sc.data.CategoryName,
			CustomType:       sc.data.CustomType,
			LocationLink:     sc.data.LocationLink,
			Description:      sc.data.Description,
			Logo:             sc.data.Logo,
			Images:           sc.data.Images,
			Menu:             sc.data.Menu,
			SocialAccounts:   sc.data.SocialAccounts,
			ContactNumber:    sc.data.ContactNumber,
			ContactPref:      sc.data.ContactPref,
			WorkingDays:      sc.data.WorkingDays,
			WorkingHours:     sc.data.WorkingHours,
			UploaderWhatsApp: sc.userID,
			Status:           models.BusinessStatusPending,
		}

		code, err := c.store.SaveBusiness(business)
		if err != nil {
			return fmt.Errorf("save business: %w", err)
		}
		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		c.metrics.RegistrationsSaved.Inc()
		c.log.Info("business registered", "code", code, "user", sc.userID)

		businessType := business.CategoryName
		if business.CustomType != "" {
			businessType = business.CustomType
		}
		adminMsg := fmt.Sprintf("🚨 نشاط جديد:\nالتوقيت: %s\nكود: %s\nالاسم: %s\nنوع: %s\nرقم: %s\nرفع: %s",
			riyadhNow(), code, business.BusinessName, businessType, business.ContactNumber, sc.userID)
		if err := c.send(c.adminNumber, adminMsg); err != nil {
			c.log.Error("admin notification failed", "error", err)
		}

		return c.send(sc.userID,
			fmt.Sprintf("تم التسجيل بنجاح! كود النشاط: %s\nاحتفظ بالكود لأي تعديل مستقبلي. اكتب 0 للعودة للقائمة الرئيسية.", code))

	case isNo(sc.text):
		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return c.send(sc.userID, "تم إلغاء التسجيل. اكتب 0 للعودة للقائمة الرئيسية.")

	default:
		return c.send(sc.userID, yesNo(`الرجاء اختيار إجابة صحيحة. هل تبغى تأكيد الحفظ؟`))
	}
}
