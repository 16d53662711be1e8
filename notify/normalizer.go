package notify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

const (
	DefaultFallbackMessage = "An error occurred"
	DefaultContext         = "API Request"
	DefaultMessageTitle    = "Message"
	serverErrorTitle       = "Server Error"
	unexpectedErrorMessage = "An unexpected error occurred"
	networkErrorMessage    = "Network error occurred"
	defaultExceptionTitle  = "Error"
	defaultServerIndicator = string(models.IndicatorRed)
)

var (
	messagePattern = regexp.MustCompile(`(?i)"message":\s*"([^"]+)"`)

	exceptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`frappe\.exceptions\.(\w+):\s*(.+)`),
		regexp.MustCompile(`(\w+Error):\s*(.+)`),
		regexp.MustCompile(`(.+)$`),
	}
)

// Options controls a single dispatch.
type Options struct {
	// SuppressToast skips the toast for non server-message shapes.
	SuppressToast bool
	// Critical additionally opens a modal dialog.
	Critical bool
	// FallbackMessage is shown for unrecognized payloads.
	FallbackMessage string
	// Context names the caller in diagnostic logs.
	Context string
}

func (o Options) withDefaults() Options {
	if o.FallbackMessage == "" {
		o.FallbackMessage = DefaultFallbackMessage
	}
	if o.Context == "" {
		o.Context = DefaultContext
	}
	return o
}

// Normalizer dispatches notifications for error payloads. It never panics.
type Normalizer struct {
	notifier Notifier
	dialoger Dialoger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDialoger sets the modal channel used for critical errors.
func WithDialoger(d Dialoger) Option {
	return func(n *Normalizer) { n.dialoger = d }
}

// NewNormalizer returns a Normalizer that sends toasts to notifier.
func NewNormalizer(notifier Notifier, opts ...Option) *Normalizer {
	n := &Normalizer{notifier: notifier}
	for _, opt := range opts {
		opt(n)
	}
	if n.notifier == nil {
		n.notifier = LogNotifier{}
	}
	return n
}

// Handle classifies raw and dispatches it.
func (n *Normalizer) Handle(raw []byte, opts Options) {
	n.Dispatch(Classify(raw), opts)
}

// Dispatch sends the notifications for an already classified payload.
func (n *Normalizer) Dispatch(p Payload, opts Options) {
	opts = opts.withDefaults()
	defer func() {
		if r := recover(); r != nil {
			utils.Logger.Error().
				Interface("panic", r).
				Str("context", opts.Context).
				RawJSON("payload", safeJSON(p.Raw)).
				Msg("错误信息归一化失败")
			n.notifier.Notify(models.Notification{Severity: models.SeverityError, Body: opts.FallbackMessage})
		}
	}()

	switch p.Kind {
	case KindServerMessages:
		n.serverMessages(p.ServerMessages)
	case KindException:
		title := p.ExcType
		if title == "" {
			title = defaultExceptionTitle
		}
		n.errorNotice(models.Notification{
			Severity: models.SeverityError,
			Title:    title,
			Body:     ExtractExceptionMessage(p),
		}, opts)
	case KindMessages:
		n.errorNotice(models.Notification{
			Severity: models.SeverityError,
			Body:     strings.Join(p.Messages, "\n"),
		}, opts)
	case KindMessage:
		n.errorNotice(models.Notification{
			Severity: models.SeverityError,
			Body:     p.Message,
		}, opts)
	default:
		n.errorNotice(models.Notification{
			Severity: models.SeverityError,
			Body:     opts.FallbackMessage,
		}, opts)
		utils.Logger.Warn().
			Str("context", opts.Context).
			RawJSON("payload", safeJSON(p.Raw)).
			Msg("无法识别的错误格式")
	}
}

// HandleTransportError reports a failed call that produced no usable payload.
func (n *Normalizer) HandleTransportError(err error, opts Options) {
	opts = opts.withDefaults()
	body := networkErrorMessage
	if err != nil && err.Error() != "" {
		body = err.Error()
	}
	utils.Logger.Error().Err(err).Str("context", opts.Context).Msg("请求失败")
	n.errorNotice(models.Notification{Severity: models.SeverityError, Body: body}, opts)
}

// Notify forwards a notification built by the caller.
func (n *Normalizer) Notify(notification models.Notification) {
	n.notifier.Notify(notification)
}

func (n *Normalizer) errorNotice(notification models.Notification, opts Options) {
	if !opts.SuppressToast {
		n.notifier.Notify(notification)
	}
	if !opts.Critical {
		return
	}
	if n.dialoger != nil {
		if notification.Title == "" {
			notification.Title = defaultExceptionTitle
		}
		n.dialoger.Dialog(notification)
		return
	}
	if opts.SuppressToast {
		n.notifier.Notify(notification)
	}
}

func (n *Normalizer) serverMessages(raw json.RawMessage) {
	elements, fallback, ok := decodeServerMessages(raw)
	if !ok {
		utils.Logger.Error().RawJSON("serverMessages", safeJSON(raw)).Msg("解析服务端消息失败")
		n.notifier.Notify(models.Notification{
			Severity: models.SeverityError,
			Title:    serverErrorTitle,
			Body:     fallback,
		})
		return
	}
	for _, element := range elements {
		n.notifier.Notify(elementNotification(element))
	}
}

// decodeServerMessages unwraps the outer encoding. A JSON string holds the
// encoded array; arrays and objects are used as they are. On failure it
// returns the best readable text for the fallback notification.
func decodeServerMessages(raw json.RawMessage) ([]interface{}, string, bool) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, string(raw), false
	}

	if s, ok := value.(string); ok {
		var inner interface{}
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			if m := messagePattern.FindStringSubmatch(s); m != nil {
				return nil, m[1], false
			}
			return nil, s, false
		}
		value = inner
	}

	if list, ok := value.([]interface{}); ok {
		return list, "", true
	}
	return []interface{}{value}, "", true
}

// elementNotification builds the notification for one server message. String
// elements are decoded again; an undecodable string is shown as is.
func elementNotification(element interface{}) models.Notification {
	if s, ok := element.(string); ok {
		var parsed interface{}
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return models.Notification{
				Severity: models.SeverityOf(defaultServerIndicator),
				Title:    DefaultMessageTitle,
				Body:     s,
			}
		}
		element = parsed
	}

	obj, _ := element.(map[string]interface{})
	if body := textOf(obj["message"]); body != "" {
		indicator, _ := obj["indicator"].(string)
		if indicator == "" {
			indicator = defaultServerIndicator
		}
		title := textOf(obj["title"])
		if title == "" {
			title = DefaultMessageTitle
		}
		return models.Notification{
			Severity: models.SeverityOf(indicator),
			Title:    title,
			Body:     body,
		}
	}

	utils.Logger.Warn().Interface("message", element).Msg("服务端消息缺少 message 字段")
	for _, key := range []string{"msg", "text", "description"} {
		if body := textOf(obj[key]); body != "" {
			return models.Notification{Severity: models.SeverityError, Body: body}
		}
	}
	b, err := json.Marshal(element)
	if err != nil {
		return models.Notification{Severity: models.SeverityError, Body: fmt.Sprint(element)}
	}
	return models.Notification{Severity: models.SeverityError, Body: string(b)}
}

// ExtractExceptionMessage returns the readable tail of an exception string.
func ExtractExceptionMessage(p Payload) string {
	if p.Exception != "" {
		for _, pattern := range exceptionPatterns {
			if m := pattern.FindStringSubmatch(p.Exception); m != nil {
				return strings.TrimSpace(m[len(m)-1])
			}
		}
	}
	switch {
	case p.ExcType != "":
		return p.ExcType
	case p.Message != "":
		return p.Message
	default:
		return unexpectedErrorMessage
	}
}

func safeJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		b, _ := json.Marshal(string(raw))
		return b
	}
	return raw
}
