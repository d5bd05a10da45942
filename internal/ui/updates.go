package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// UpdateSender forwards messages from background goroutines into the program
// without blocking them. Messages are dropped when the channel is full.
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
}

func NewUpdateSender(size int, logger *zap.Logger) *UpdateSender {
	return &UpdateSender{
		msgChan: make(chan tea.Msg, size),
		logger:  logger,
	}
}

// SendUpdate sends a message to UI without blocking
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		if atomic.AddUint64(&us.droppedUpdates, 1)%100 == 1 {
			us.logger.Warn("UI update dropped", zap.Uint64("dropped", atomic.LoadUint64(&us.droppedUpdates)))
		}
	}
}

// Listen returns a command that waits for the next message.
func (us *UpdateSender) Listen() tea.Cmd {
	return func() tea.Msg {
		return <-us.msgChan
	}
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	return atomic.LoadUint64(&us.sentUpdates), atomic.LoadUint64(&us.droppedUpdates)
}
