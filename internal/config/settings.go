package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings are the values a user edits on the device. Unlike Config they
// are written back to disk.
type Settings struct {
	mu   sync.Mutex
	path string
	data settingsData
}

type settingsData struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
}

// LoadSettings reads the settings file at path. A missing file yields
// empty settings bound to path; Save creates it.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{path: path}
	if path == "" {
		return s, nil
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the file, replacing in-memory values. Keys absent from
// the file are reset to empty.
func (s *Settings) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.data = settingsData{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading settings %s: %w", s.path, err)
	}
	var loaded settingsData
	if err := json.Unmarshal(data, &loaded); err != nil {
		return &ParseError{Path: s.path, Message: err.Error(), Err: err}
	}
	s.data = loaded
	return nil
}

// Save writes the settings file, replacing it atomically.
func (s *Settings) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("settings: no file path")
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *Settings) Path() string { return s.path }

// Provider returns the selected generation provider.
func (s *Settings) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Provider
}

// SetProvider selects the generation provider.
func (s *Settings) SetProvider(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Provider = p
}

// Model returns the model override.
func (s *Settings) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Model
}

// SetModel sets the model override.
func (s *Settings) SetModel(m string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Model = m
}

// APIKey returns the stored API key.
func (s *Settings) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.APIKey
}

// SetAPIKey stores an API key.
func (s *Settings) SetAPIKey(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.APIKey = k
}

// Overlay returns g with every non-empty setting applied on top. A
// provider change resets the model unless a model is also set.
func (s *Settings) Overlay(g GenerateConfig) GenerateConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Provider != "" && s.data.Provider != g.Provider {
		g.Provider = s.data.Provider
		g.Model = ""
	}
	if s.data.Model != "" {
		g.Model = s.data.Model
	}
	if s.data.APIKey != "" {
		g.APIKey = s.data.APIKey
	}
	return g
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) == 0 {
		return "(none)"
	}
	if len(r) <= 4 {
		return "****"
	}
	return "****" + string(r[len(r)-4:])
}
