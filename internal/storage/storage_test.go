package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStore_SetGet(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if err := s.Set("points_user_1", "42"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := s.Get("points_user_1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "42" {
		t.Errorf("Get() = %q, want %q", got, "42")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, err = s.Get("absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Overwrite(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if err := s.Set("key", "old"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Set("key", "new"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := s.Get("key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := s.Set("user_id", "user_1700000000000"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() after close failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("user_id")
	if err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
	if got != "user_1700000000000" {
		t.Errorf("Get() = %q, want %q", got, "user_1700000000000")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	if err := m.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := m.Get("key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestNamespace_Isolation(t *testing.T) {
	m := NewMemory()

	a := Namespace(m, "chat_1:")
	b := Namespace(m, "chat_2:")

	if err := a.Set("points_u", "10"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := b.Set("points_u", "20"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	gotA, err := a.Get("points_u")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	gotB, err := b.Get("points_u")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if gotA != "10" || gotB != "20" {
		t.Errorf("namespaced values = %q, %q, want 10, 20", gotA, gotB)
	}

	// Underlying store sees prefixed keys.
	raw, err := m.Get("chat_1:points_u")
	if err != nil {
		t.Fatalf("Get() on underlying store failed: %v", err)
	}
	if raw != "10" {
		t.Errorf("underlying value = %q, want %q", raw, "10")
	}
}
