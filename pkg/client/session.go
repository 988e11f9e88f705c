package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"logframe-studio/internal/domain"
)

// sessionState is the only client-side state that survives a restart,
// mirroring what the web client keeps in localStorage. Projects are
// deliberately not persisted: they are re-fetched on load to avoid
// stale-data drift. The token is not persisted either, so a restart
// means a fresh login.
type sessionState struct {
	User        *domain.User `json:"user"`
	IsOnboarded bool         `json:"isOnboarded"`
}

func loadSession(path string) sessionState {
	var st sessionState
	if path == "" {
		return st
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(b, &st)
	return st
}

func saveSession(path string, st sessionState) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func clearSession(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
