package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/faustok/internal/shared"
	tu "github.com/desertthunder/faustok/internal/testing"
)

// setupTestStore creates a settings file with the given content and loads it
func setupTestStore(t *testing.T, content string) *SettingsStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "User.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	store, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	return store
}

func TestSettingsStore(t *testing.T) {
	t.Run("LoadSettings", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {"1": true, "2": false}}`)

		if !store.Get("1") {
			t.Error("expected user 1 to be enabled")
		}
		if store.Get("2") {
			t.Error("expected user 2 to be disabled")
		}
		if store.Len() != 2 {
			t.Errorf("expected 2 users, got %d", store.Len())
		}
		if store.EnabledCount() != 1 {
			t.Errorf("expected 1 enabled user, got %d", store.EnabledCount())
		}
	})

	t.Run("LoadSettings Missing File", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "User.json"))
		if !errors.Is(err, shared.ErrConfigMissing) {
			t.Errorf("expected ErrConfigMissing, got %v", err)
		}
	})

	t.Run("LoadSettings Corrupt File", func(t *testing.T) {
		tt := []struct {
			name    string
			content string
		}{
			{name: "not json", content: "user_map = 1"},
			{name: "missing user_map", content: `{}`},
			{name: "null document", content: `null`},
			{name: "wrong value type", content: `{"user_map": {"1": "yes"}}`},
			{name: "truncated", content: `{"user_map": {"1": tr`},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "User.json")
				if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
					t.Fatalf("failed to write settings file: %v", err)
				}

				_, err := LoadSettings(path)
				if !errors.Is(err, shared.ErrConfigCorrupt) {
					t.Errorf("expected ErrConfigCorrupt, got %v", err)
				}
			})
		}
	})

	t.Run("Get Absent User", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {}}`)

		for _, id := range []string{"", "0", "123456789012345678", "unknown"} {
			if store.Get(id) {
				t.Errorf("expected absent user %q to be disabled", id)
			}
		}
	})

	t.Run("SetAndPersist", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {}}`)

		for _, value := range []bool{true, false, true} {
			if err := store.SetAndPersist("42", value); err != nil {
				t.Fatalf("SetAndPersist() error = %v", err)
			}
			if store.Get("42") != value {
				t.Errorf("Get() = %v, want %v", store.Get("42"), value)
			}

			reloaded, err := LoadSettings(store.Path())
			if err != nil {
				t.Fatalf("failed to reload settings: %v", err)
			}
			if reloaded.Get("42") != value {
				t.Errorf("reloaded Get() = %v, want %v", reloaded.Get("42"), value)
			}
		}
	})

	t.Run("SetAndPersist Is Idempotent", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {"7": false}}`)

		if err := store.SetAndPersist("42", true); err != nil {
			t.Fatalf("SetAndPersist() error = %v", err)
		}
		once := tu.MustReadFile(t, store.Path())
		onceMap := store.Snapshot()

		if err := store.SetAndPersist("42", true); err != nil {
			t.Fatalf("SetAndPersist() error = %v", err)
		}
		twice := tu.MustReadFile(t, store.Path())

		if once != twice {
			t.Errorf("expected identical documents, got\n%s\nand\n%s", once, twice)
		}
		if len(onceMap) != len(store.Snapshot()) {
			t.Errorf("expected mapping size to stay %d, got %d", len(onceMap), store.Len())
		}
	})

	t.Run("SetAndPersist Write Failure Keeps Memory", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {}}`)
		store.write = func(string, []byte, os.FileMode) error {
			return errors.New("disk full")
		}

		err := store.SetAndPersist("42", true)
		if !errors.Is(err, shared.ErrPersist) {
			t.Fatalf("expected ErrPersist, got %v", err)
		}
		if !store.Get("42") {
			t.Error("expected in-memory value to be kept after persist failure")
		}

		reloaded, err := LoadSettings(store.Path())
		if err != nil {
			t.Fatalf("failed to reload settings: %v", err)
		}
		if reloaded.Get("42") {
			t.Error("expected disk to keep the old value")
		}
	})

	t.Run("Concurrent SetAndPersist", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {}}`)

		const users = 32
		var wg sync.WaitGroup
		errs := make(chan error, users)
		for i := range users {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if err := store.SetAndPersist(id, true); err != nil {
					errs <- err
				}
				_ = store.Get(id)
			}(fmt.Sprintf("user-%d", i))
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Errorf("SetAndPersist() error = %v", err)
		}

		reloaded, err := LoadSettings(store.Path())
		if err != nil {
			t.Fatalf("failed to reload settings: %v", err)
		}
		if reloaded.Len() != users {
			t.Errorf("expected %d persisted users, got %d", users, reloaded.Len())
		}
		for i := range users {
			if !reloaded.Get(fmt.Sprintf("user-%d", i)) {
				t.Errorf("expected user-%d to be persisted", i)
			}
		}
	})

	t.Run("Snapshot Is A Copy", func(t *testing.T) {
		store := setupTestStore(t, `{"user_map": {"1": true}}`)

		snap := store.Snapshot()
		snap["1"] = false
		snap["2"] = true

		if !store.Get("1") || store.Get("2") {
			t.Error("expected snapshot mutation to leave the store untouched")
		}
	})
}

func TestCreateSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "User.json")

	if err := CreateSettingsFile(path); err != nil {
		t.Fatalf("CreateSettingsFile() error = %v", err)
	}

	store, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("expected created file to load, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty mapping, got %d users", store.Len())
	}

	if err := CreateSettingsFile(path); err == nil {
		t.Error("expected error when settings file exists")
	}
}
