package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// DefaultDialogTitle is the caption of the failure dialog.
const DefaultDialogTitle = "Error"

// NotifierImpl implements domain.Notifier.
type NotifierImpl struct {
	poster  domain.MessagePoster
	dialogs domain.DialogPresenter
	title   string
	logger  *zap.Logger
}

// NewNotifier creates a notifier posting to poster and showing failures through dialogs.
func NewNotifier(poster domain.MessagePoster, dialogs domain.DialogPresenter, logger *zap.Logger) domain.Notifier {
	return &NotifierImpl{
		poster:  poster,
		dialogs: dialogs,
		title:   DefaultDialogTitle,
		logger:  logger,
	}
}

// Notify posts MsgVerified, or shows the error dialog and then posts MsgRejected.
// The dialog is always dismissed before MsgRejected enters the queue.
func (n *NotifierImpl) Notify(hwnd domain.WindowHandle, outcome domain.Outcome) error {
	msg := domain.MsgVerified
	if !outcome.OK() {
		n.logger.Debug("showing error dialog",
			zap.Stringer("kind", outcome.Kind),
			zap.String("reason", outcome.Reason))
		n.dialogs.ShowError(hwnd, n.title, outcome.Reason)
		msg = domain.MsgRejected
	}

	if err := n.poster.PostMessage(hwnd, msg); err != nil {
		return fmt.Errorf("post %s: %w", msg, err)
	}
	n.logger.Debug("posted result", zap.Stringer("message", msg))
	return nil
}

// Ensure NotifierImpl implements domain.Notifier.
var _ domain.Notifier = (*NotifierImpl)(nil)
