package logger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSafeFileWriterConcurrentWrites(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "logs", "launchpad.log")

	writer, err := NewSafeFileWriter(testFile, 50*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create safe file writer: %v", err)
	}

	var wg sync.WaitGroup
	numGoroutines := 10
	linesPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < linesPerGoroutine; j++ {
				if err := writer.WriteLine(fmt.Sprintf("Goroutine %d, Line %d", id, j)); err != nil {
					t.Errorf("Failed to write line: %v", err)
				}
			}
		}(i)
	}

	flushDone := make(chan struct{})
	go func() {
		defer close(flushDone)
		for i := 0; i < 10; i++ {
			_ = writer.Flush()
			time.Sleep(10 * time.Millisecond)
		}
	}()

	wg.Wait()
	<-flushDone

	lines, _ := writer.GetStats()
	if expected := uint64(numGoroutines * linesPerGoroutine); lines != expected {
		t.Errorf("Expected %d lines, got %d", expected, lines)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("File should not be empty")
	}
}

func TestSafeFileWriterPeriodicFlush(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "slow.log")

	writer, err := NewSafeFileWriter(testFile, 10*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create safe file writer: %v", err)
	}
	defer writer.Close()

	for i := 0; i < 5; i++ {
		if err := writer.WriteLine(fmt.Sprintf("Slow write %d", i)); err != nil {
			t.Errorf("Failed to write line: %v", err)
		}
		time.Sleep(25 * time.Millisecond)
	}

	if _, flushes := writer.GetStats(); flushes < 2 {
		t.Errorf("Expected multiple periodic flushes, got %d", flushes)
	}
}

func TestSafeCSVWriterHeaderWrittenOnce(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "history.csv")
	header := []string{"timestamp", "operation", "status"}

	for round := 0; round < 2; round++ {
		writer, err := NewSafeCSVWriter(testFile, header, time.Hour, zap.NewNop())
		if err != nil {
			t.Fatalf("Failed to create CSV writer: %v", err)
		}
		if err := writer.WriteRecord([]string{time.Now().Format(time.RFC3339), "airdrop", "success"}); err != nil {
			t.Fatalf("WriteRecord failed: %v", err)
		}
		if records, _ := writer.GetStats(); records != 1 {
			t.Errorf("Expected 1 record (excluding header), got %d", records)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	f, err := os.Open(testFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "operation" || rows[1][1] != "airdrop" {
		t.Errorf("Unexpected rows: %v", rows)
	}
}
