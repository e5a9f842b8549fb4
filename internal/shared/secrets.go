package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Secrets is the document stored in the token file.
type Secrets struct {
	Token string `json:"token"`
}

// LoadSecrets reads the bot token from the JSON document at path.
//
// A missing file is reported as [ErrConfigMissing]; a document that cannot be
// decoded or carries an empty token as [ErrConfigCorrupt].
func LoadSecrets(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var secrets Secrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfigCorrupt, path, err)
	}

	secrets.Token = strings.TrimSpace(secrets.Token)
	if secrets.Token == "" {
		return nil, fmt.Errorf("%w: %s has no token", ErrConfigCorrupt, path)
	}

	return &secrets, nil
}

// CreateSecretsFile writes a token file template at path unless one exists.
func CreateSecretsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("token file already exists at %s", path)
	}

	data, err := json.MarshalIndent(Secrets{Token: "your_discord_bot_token"}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token template: %w", err)
	}

	return WriteFileAtomic(path, data, 0600)
}
