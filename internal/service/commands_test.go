package service

import (
	"errors"
	"testing"
)

func TestCommands_ConsumedAtMostOnce(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	if err := q.Prepare("ESP-1", "https://host/fw/v2.bin"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	cmd, ok := q.Consume("ESP-1")
	if !ok || cmd != "https://host/fw/v2.bin" {
		t.Fatalf("first consume = %q, %v", cmd, ok)
	}
	if _, ok := q.Consume("ESP-1"); ok {
		t.Fatal("second consume must find nothing")
	}
}

func TestCommands_CaseInsensitiveIdentity(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	if err := q.Prepare("abc", "https://host/fw.bin"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if cmd, ok := q.Consume("ABC"); !ok || cmd != "https://host/fw.bin" {
		t.Fatalf("case-insensitive consume failed: %q, %v", cmd, ok)
	}
}

func TestCommands_LastWriteWins(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	_ = q.Prepare("ESP-1", "https://host/fw/v1.bin")
	_ = q.QueueReset("ESP-1")

	if cmd, ok := q.Consume("ESP-1"); !ok || cmd != ResetCommand {
		t.Fatalf("expected reset to replace OTA, got %q, %v", cmd, ok)
	}
}

func TestCommands_Validation(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	if err := q.Prepare("", "https://host/fw.bin"); !errors.Is(err, ErrMissingFirmware) {
		t.Fatalf("expected ErrMissingFirmware, got %v", err)
	}
	if err := q.Prepare("ESP-1", ""); !errors.Is(err, ErrMissingFirmware) {
		t.Fatalf("expected ErrMissingFirmware, got %v", err)
	}
	if err := q.QueueReset(" "); !errors.Is(err, ErrMissingDevice) {
		t.Fatalf("expected ErrMissingDevice, got %v", err)
	}
}
