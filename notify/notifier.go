package notify

import (
	"sync"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

// Notifier is the toast channel.
type Notifier interface {
	Notify(n models.Notification)
}

// Dialoger is the modal channel used for critical errors.
type Dialoger interface {
	Dialog(n models.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n models.Notification) {
	event := utils.Logger.Info()
	switch n.Severity {
	case models.SeverityWarning:
		event = utils.Logger.Warn()
	case models.SeverityError:
		event = utils.Logger.Error()
	}
	event.Str("severity", string(n.Severity)).Str("title", n.Title).Msg(n.Body)
}

// Recorder keeps every notification and dialog it receives.
type Recorder struct {
	mu            sync.Mutex
	notifications []models.Notification
	dialogs       []models.Notification
}

func (r *Recorder) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Dialog(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs = append(r.dialogs, n)
}

// Notifications returns a copy of the recorded toasts.
func (r *Recorder) Notifications() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.notifications...)
}

// Dialogs returns a copy of the recorded dialogs.
func (r *Recorder) Dialogs() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.dialogs...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
	r.dialogs = nil
}

// Normalize runs raw through a fresh Normalizer and returns what it produced.
func Normalize(raw []byte, opts Options) (toasts, dialogs []models.Notification) {
	rec := &Recorder{}
	NewNormalizer(rec, WithDialoger(rec)).Handle(raw, opts)
	return rec.Notifications(), rec.Dialogs()
}

// Summarize returns the body of the first notification raw would produce.
func Summarize(raw []byte) string {
	toasts, dialogs := Normalize(raw, Options{})
	if len(toasts) > 0 {
		return toasts[0].Body
	}
	if len(dialogs) > 0 {
		return dialogs[0].Body
	}
	return ""
}
