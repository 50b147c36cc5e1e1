package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/daleel-sa/daleel-backend/internal/models"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
	"github.com/daleel-sa/daleel-backend/pkg/metrics"
)

// InboundMessage is one inbound messaging event, already stripped of
// transport framing. Media, when present, is downloaded before the engine
// runs.
type InboundMessage struct {
	From       string // sender id, digits only
	Body       string
	Media      *MediaPayload
	HasQuoted  bool
	QuotedBody string
}

// stepContext carries one event through a step handler. data points into the
// loaded session and is persisted by transition/saveState.
type stepContext struct {
	ctx    context.Context
	userID string
	text   string
	msg    *InboundMessage
	data   *models.SessionData
}

type stepFunc func(*stepContext) error

// adminReplyRe extracts the original sender id embedded in support
// notifications ("من: <digits>") when the administrator replies by quote.
var adminReplyRe = regexp.MustCompile(`من: (\d+)`)

var riyadhTZ = time.FixedZone("AST", 3*60*60)

// ConversationService drives the conversation state machine. One inbound
// event is processed at a time per user; a per-user mutex protects the
// read-modify-write against concurrent webhook delivery.
type ConversationService struct {
	store       storage.Store
	messenger   Messenger
	media       MediaStore
	adminNumber string
	log         logger.Logger
	metrics     *metrics.Metrics

	steps map[models.SessionState]stepFunc
	locks sync.Map // user id -> *sync.Mutex
}

// NewConversationService creates the engine and registers every step
func NewConversationService(store storage.Store, messenger Messenger, media MediaStore, adminNumber string, log logger.Logger, m *metrics.Metrics) *ConversationService {
	c := &ConversationService{
		store:       store,
		messenger:   messenger,
		media:       media,
		adminNumber: adminNumber,
		log:         log,
		metrics:     m,
	}

	c.steps = map[models.SessionState]stepFunc{
		models.StateMenu:    c.handleMenu,
		models.StateSupport: c.handleSupport,

		models.StateName:         c.handleName,
		models.StateCategory:     c.handleCategory,
		models.StateCustomType:   c.handleCustomType,
		models.StateLocationQ:    c.handleLocationQ,
		models.StateLocationLink: c.handleLocationLink,
		models.StateDescription:  c.handleDescription,
		models.StateLogoQ:        c.handleLogoQ,
		models.StateLogoUpload:   c.handleLogoUpload,
		models.StateImagesQ:      c.handleImagesQ,
		models.StateImagesUpload: c.handleImagesUpload,
		models.StateMenuQ:        c.handleMenuQ,
		models.StateMenuUpload:   c.handleMenuUpload,
		models.StateSocialQ:      c.handleSocialQ,
		models.StateSocialSelect: c.handleSocialSelect,
		models.StateSocialUser:   c.handleSocialUser,
		models.StateContact:      c.handleContact,
		models.StateContactPref:  c.handleContactPref,
		models.StateWorkdays:     c.handleWorkdays,
		models.StateShiftCount:   c.handleShiftCount,
		models.StateSingleShift:  c.handleSingleShift,
		models.StateDoubleShift1: c.handleDoubleShift1,
		models.StateDoubleShift2: c.handleDoubleShift2,
		models.StateConfirm:      c.handleConfirm,

		models.StateEditCode:        c.handleEditCode,
		models.StateEditMenu:        c.handleEditMenu,
		models.StateEditStep:        c.handleEditStep,
		models.StateEditSocialUsers: c.handleEditSocialUsers,
		models.StateEditHoursQ:      c.handleEditHoursQ,
		models.StateEditSingleHour:  c.handleEditSingleHour,
		models.StateEditDoubleHour1: c.handleEditDoubleHour1,
		models.StateEditDoubleHour2: c.handleEditDoubleHour2,
		models.StateEditConfirm:     c.handleEditConfirm,
	}

	return c
}

// HandleMessage processes one inbound event end to end: admin side channel,
// global reset, then the step registered for the current session state.
func (c *ConversationService) HandleMessage(ctx context.Context, msg *InboundMessage) error {
	c.metrics.MessagesProcessed.Inc()
	start := time.Now()
	defer func() {
		c.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	mu := c.userLock(msg.From)
	mu.Lock()
	defer mu.Unlock()

	if msg.From == c.adminNumber && msg.HasQuoted {
		if handled, err := c.handleAdminReply(msg); handled {
			return err
		}
	}

	text := strings.TrimSpace(msg.Body)

	for _, kw := range ResetKeywords {
		if strings.EqualFold(text, kw) {
			c.log.Info("reset keyword received", "user", msg.From)
			if err := c.store.ClearSession(msg.From); err != nil {
				return c.fail(msg.From, fmt.Errorf("clear session: %w", err))
			}
			return c.send(msg.From, MenuText)
		}
	}

	session, err := c.store.GetSession(msg.From)
	if err != nil {
		return c.fail(msg.From, fmt.Errorf("load session: %w", err))
	}

	c.log.Debug("incoming message", "user", msg.From, "state", session.State, "text", text)

	step, ok := c.steps[session.State]
	if !ok {
		c.log.Warn("unhandled session state", "user", msg.From, "state", session.State)
		return c.send(msg.From, "ما فهمت. ربما حدث خطأ. اكتب 0 للرجوع للقائمة الرئيسية.")
	}

	sc := &stepContext{
		ctx:    ctx,
		userID: msg.From,
		text:   text,
		msg:    msg,
		data:   &session.Data,
	}
	if err := step(sc); err != nil {
		return c.fail(msg.From, err)
	}
	return nil
}

// fail is the outermost per-event error boundary: log, count, apologize and
// show the menu. The stored session is left untouched so progress survives
// transient store failures.
func (c *ConversationService) fail(userID string, err error) error {
	c.log.Error("message handling failed", "user", userID, "error", err)
	c.metrics.ErrorsCount.WithLabelValues("handle_message").Inc()
	_ = c.send(userID, genericFailureText)
	_ = c.send(userID, MenuText)
	return err
}

func (c *ConversationService) userLock(userID string) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (c *ConversationService) send(to, body string) error {
	if err := c.messenger.SendMessage(to, body); err != nil {
		c.metrics.ErrorsCount.WithLabelValues("send").Inc()
		return fmt.Errorf("send to %s: %w", to, err)
	}
	c.metrics.RepliesSent.Inc()
	return nil
}

// transition persists the new state before sending the prompt, so a crash
// between the two duplicates a cheap reply instead of losing a transition.
func (c *ConversationService) transition(sc *stepContext, state models.SessionState, prompt string) error {
	if err := c.store.SaveSession(sc.userID, state, *sc.data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return c.send(sc.userID, prompt)
}

// saveState persists without prompting, for steps that send custom messages
func (c *ConversationService) saveState(sc *stepContext, state models.SessionState) error {
	if err := c.store.SaveSession(sc.userID, state, *sc.data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (c *ConversationService) uploadMedia(sc *stepContext, hint string) (string, error) {
	url, err := c.media.Upload(sc.ctx, hint, sc.msg.Media.Data, sc.msg.Media.MimeType)
	if err != nil {
		c.metrics.ErrorsCount.WithLabelValues("media_upload").Inc()
		return "", fmt.Errorf("upload %s: %w", hint, err)
	}
	c.metrics.MediaUploads.Inc()
	return url, nil
}

func riyadhNow() string {
	return time.Now().In(riyadhTZ).Format("2006-01-02 15:04:05")
}

// handleAdminReply forwards a quoted administrator reply to the user whose id
// is embedded in the quoted support notification. Stateless by design; there
// is no ticket table.
func (c *ConversationService) handleAdminReply(msg *InboundMessage) (bool, error) {
	match := adminReplyRe.FindStringSubmatch(msg.QuotedBody)
	if match == nil {
		return false, nil
	}
	target := match[1]
	reply := strings.TrimSpace(msg.Body)

	c.log.Info("forwarding admin reply", "target", target)
	if err := c.send(target, "*رد الإدارة على طلب الدعم:*\n---\n"+reply); err != nil {
		return true, err
	}
	return true, c.send(c.adminNumber, "✅ تم إرسال الرد إلى الرقم: "+target)
}

// handleMenu is the main menu step
func (c *ConversationService) handleMenu(sc *stepContext) error {
	switch sc.text {
	case "1", "تسجيل نشاط جديد":
		*sc.data = models.SessionData{}
		return c.transition(sc, models.StateName, "أولاً، وش اسم نشاطك التجاري؟")
	case "2", "تعديل نشاط (الكود)":
		*sc.data = models.SessionData{}
		return c.transition(sc, models.StateEditCode, "لتعديل النشاط، ارسل كود النشاط الآن:")
	case "3", "دعم":
		*sc.data = models.SessionData{}
		return c.transition(sc, models.StateSupport, "أرسل رسالتك للدعم الآن أو أرسل *5* للإحصائيات (للمدراء فقط):")
	default:
		return c.send(sc.userID, MenuText)
	}
}

// handleSupport relays the message to the administrator, or answers the
// stats command.
func (c *ConversationService) handleSupport(sc *stepContext) error {
	if sc.text == "5" {
		if err := c.send(sc.userID, "يتم استخراج الإحصائيات، لحظة من فضلك..."); err != nil {
			return err
		}
		stats, err := c.store.Stats()
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		lastContact := "لم يتم تحديد آخر اتصال."
		if stats.LastContactID != "" {
			lastContact = fmt.Sprintf("آخر شخص تواصل: %s\nالتاريخ: %s",
				stats.LastContactID, stats.LastContactAt.In(riyadhTZ).Format("2006-01-02 15:04:05"))
		}

		body := fmt.Sprintf("📊 *إحصائيات البوت الحالية*:\n--------------------------\n*عدد النشاطات المسجلة*: %d\n*عدد الأرقام (الجلسات النشطة)*: %d\n--------------------------\n%s\n\nاكتب 0 للعودة للقائمة الرئيسية.",
			stats.TotalBusinesses, stats.ActiveSessions, lastContact)

		if err := c.store.ClearSession(sc.userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return c.send(sc.userID, body)
	}

	if err := c.store.ClearSession(sc.userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	adminMsg := fmt.Sprintf("📩 رسالة دعم جديدة:\nالتوقيت: %s\nمن: %s\nالرسالة: %s", riyadhNow(), sc.userID, sc.text)
	if err := c.send(c.adminNumber, adminMsg); err != nil {
		return err
	}
	return c.send(sc.userID, "شكراً لك. تم إرسال رسالتك إلى فريق الدعم بنجاح، وسيتم الرد عليك قريباً. اكتب 0 للعودة للقائمة الرئيسية.")
}
