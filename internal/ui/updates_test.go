package ui

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestUpdateSenderNonBlocking(t *testing.T) {
	sender := NewUpdateSender(10, zap.NewNop())

	for i := 0; i < 10; i++ {
		sender.SendUpdate(TabReadyMsg{Gen: uint64(i)})
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		sender.SendUpdate(TabReadyMsg{})
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("SendUpdate blocked for %v, expected non-blocking", elapsed)
	}

	sent, dropped := sender.GetStats()
	if sent != 10 || dropped != 100 {
		t.Errorf("Expected 10 sent and 100 dropped, got %d/%d", sent, dropped)
	}

	msg := sender.Listen()()
	if ready, ok := msg.(TabReadyMsg); !ok || ready.Gen != 0 {
		t.Errorf("Expected first queued message, got %#v", msg)
	}
}

func TestUpdateSenderConcurrent(t *testing.T) {
	sender := NewUpdateSender(100, zap.NewNop())

	var wg sync.WaitGroup
	numGoroutines := 10
	messagesPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerGoroutine; j++ {
				sender.SendUpdate(QuoteMsg{})
			}
		}()
	}
	wg.Wait()

	sent, dropped := sender.GetStats()
	if total := sent + dropped; total != uint64(numGoroutines*messagesPerGoroutine) {
		t.Errorf("Expected %d total messages, got %d", numGoroutines*messagesPerGoroutine, total)
	}
}
