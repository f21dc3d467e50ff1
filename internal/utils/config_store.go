package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ConfigStore resolves where the configuration snapshot lives on disk and
// reads/writes it atomically. The path sticks once resolved, so repeated
// save/load commands in one process hit the same file.
type ConfigStore struct {
	mu              sync.RWMutex
	path            string
	defaultFilename string
}

// NewConfigStore builds a store that falls back to defaultFilename when no
// explicit path has been set.
func NewConfigStore(defaultFilename string) *ConfigStore {
	return &ConfigStore{defaultFilename: defaultFilename}
}

// Path returns the resolved absolute path, or empty before resolution.
func (s *ConfigStore) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// SetPath stores path in absolute, cleaned form and returns it. An empty
// path clears the stored value.
func (s *ConfigStore) SetPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		s.mu.Lock()
		s.path = ""
		s.mu.Unlock()
		return "", nil
	}

	absPath := path
	if !filepath.IsAbs(absPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		absPath = filepath.Join(cwd, absPath)
	}

	absPath = filepath.Clean(absPath)

	s.mu.Lock()
	s.path = absPath
	s.mu.Unlock()
	return absPath, nil
}

// DetectDefault reports a config file with the default filename in the
// current working directory, if one exists.
func (s *ConfigStore) DetectDefault() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	path := filepath.Join(cwd, s.defaultFilename)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// Resolve returns the stored path when one is set; otherwise it joins the
// default filename onto baseDir (or the working directory when baseDir is
// empty) and remembers the result.
func (s *ConfigStore) Resolve(baseDir string) (string, error) {
	if existing := s.Path(); existing != "" {
		return existing, nil
	}

	root := strings.TrimSpace(baseDir)
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = cwd
	}

	resolved := filepath.Join(root, s.defaultFilename)
	if _, err := s.SetPath(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// Read loads the file content, creating parent directories as a side
// effect so a following Write cannot fail on a missing directory.
func (s *ConfigStore) Read(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return os.ReadFile(path)
}

// Write persists data to path via a temp file plus rename, so readers
// never observe a half-written config.
func (s *ConfigStore) Write(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
