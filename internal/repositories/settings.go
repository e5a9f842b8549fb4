package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"sync"

	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
)

// SettingsStore owns the user id → autofix mapping and its backing file.
type SettingsStore struct {
	mu      sync.RWMutex
	path    string
	userMap map[string]bool
	write   func(path string, data []byte, perm os.FileMode) error
}

// LoadSettings reads the settings document at path.
//
// Returns [shared.ErrConfigMissing] when the file does not exist and
// [shared.ErrConfigCorrupt] when it is not a {"user_map": {...}} document.
func LoadSettings(path string) (*SettingsStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", shared.ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var settings models.UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", shared.ErrConfigCorrupt, path, err)
	}
	if settings.UserMap == nil {
		return nil, fmt.Errorf("%w: %s has no user_map", shared.ErrConfigCorrupt, path)
	}

	return &SettingsStore{
		path:    path,
		userMap: settings.UserMap,
		write:   shared.WriteFileAtomic,
	}, nil
}

// CreateSettingsFile writes an empty settings document at path unless one exists.
func CreateSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings file already exists at %s", path)
	}

	data, err := encodeSettings(map[string]bool{})
	if err != nil {
		return err
	}

	return shared.WriteFileAtomic(path, data, 0644)
}

// Path returns the backing file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Get returns the stored preference for userID, false when absent.
func (s *SettingsStore) Get(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userMap[userID]
}

// SetAndPersist stores value for userID and rewrites the whole document.
//
// The in-memory value is kept even when the write fails.
func (s *SettingsStore) SetAndPersist(userID string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userMap[userID] = value

	data, err := encodeSettings(s.userMap)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}

	if err := s.write(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}

	return nil
}

// Snapshot returns a copy of the mapping.
func (s *SettingsStore) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.userMap)
}

// Len returns the number of users with an explicit preference.
func (s *SettingsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.userMap)
}

// EnabledCount returns the number of users with autofix enabled.
func (s *SettingsStore) EnabledCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, enabled := range s.userMap {
		if enabled {
			n++
		}
	}
	return n
}

func encodeSettings(userMap map[string]bool) ([]byte, error) {
	data, err := json.MarshalIndent(models.UserSettings{UserMap: userMap}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}
