package service

import (
	"log/slog"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/engine"
)

// PaymentInstruction is the artifact shown to a buyer: the exact amount,
// the receiving account, and ready-made payment links.
type PaymentInstruction struct {
	DisplayAmount string
	AccountID     string
	PayeeName     string
	UpiURI        string
	QRImageURL    string
	ExpiresAt     time.Time
}

// Messenger is the external chat collaborator as seen by the purchase
// flow: it shows a payment instruction and later deletes transient
// messages by handle. The engine sees only the narrower deletion half.
type Messenger interface {
	engine.Messenger
	ShowInstruction(target string, instr PaymentInstruction) (handle string, err error)
}

// LogMessenger is the default Messenger when no chat transport is wired:
// it logs every call and deletes nothing. Cleanup scheduling still runs
// so the timing path is exercised in development.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger creates a LogMessenger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// ShowInstruction logs the instruction and returns a synthetic handle.
func (m *LogMessenger) ShowInstruction(target string, instr PaymentInstruction) (string, error) {
	m.logger.Info("payment instruction",
		slog.String("target", target),
		slog.String("amount", instr.DisplayAmount),
		slog.String("account_id", instr.AccountID),
		slog.String("upi_uri", instr.UpiURI),
	)
	return "log:" + target, nil
}

// DeleteMessage logs the deletion request.
func (m *LogMessenger) DeleteMessage(target, handle string) {
	m.logger.Debug("delete message",
		slog.String("target", target),
		slog.String("handle", handle),
	)
}

// ScheduleCleanup defers deletion of the given handles.
func (m *LogMessenger) ScheduleCleanup(target string, handles []string, after time.Duration) {
	time.AfterFunc(after, func() {
		for _, h := range handles {
			m.DeleteMessage(target, h)
		}
	})
}
