package tasks

import (
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskTypeCrawlSource, "rbc-ukraine")

	if task.GetType() != TaskTypeCrawlSource {
		t.Errorf("Expected type %s, got %s", TaskTypeCrawlSource, task.GetType())
	}
	if task.GetSourceName() != "rbc-ukraine" {
		t.Errorf("Expected source name 'rbc-ukraine', got '%s'", task.GetSourceName())
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected retry count 0, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}
	if !task.CanRetry() {
		t.Error("Expected fresh task to be retryable")
	}

	other := NewTask(TaskTypeCrawlSource, "ukrpravda")
	if task.GetID() == other.GetID() {
		t.Error("Expected distinct task IDs")
	}
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeCrawlSource, "test")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected task to be retryable at count %d", task.GetRetryCount())
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Errorf("Expected retries exhausted after %d increments", DefaultMaxRetries)
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeCrawlSource, "test")

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	time.Sleep(time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after start")
	}
}
