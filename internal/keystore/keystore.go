// Package keystore is the file-backed credential store for translation
// provider API keys.
//
// Keys live in <workspace>/keys.json with 0600 permissions. Lookup
// order for a key is: explicit flag, environment variable, this store.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileName = "keys.json"

// KeyNames are the credential names the store accepts.
var KeyNames = []string{"GEMINI_KEY", "OPENROUTER_KEY", "COPILOT_KEY"}

// Store reads and writes the credential file under one workspace root.
type Store struct {
	root string
}

func New(workspaceRoot string) *Store {
	return &Store{root: workspaceRoot}
}

func (s *Store) path() string {
	return filepath.Join(s.root, fileName)
}

func validName(name string) error {
	for _, n := range KeyNames {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unsupported key name %q (supported: %s)", name, strings.Join(KeyNames, ", "))
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key store: %w", err)
	}
	keys := map[string]string{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse key store: %w", err)
	}
	return keys, nil
}

func (s *Store) save(keys map[string]string) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key store: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("write key store: %w", err)
	}
	return nil
}

// Set stores a key value.
func (s *Store) Set(name, key string) error {
	if err := validName(name); err != nil {
		return err
	}
	keys, err := s.load()
	if err != nil {
		return err
	}
	keys[name] = key
	return s.save(keys)
}

// Get returns a stored key; missing keys are an error.
func (s *Store) Get(name string) (string, error) {
	keys, err := s.load()
	if err != nil {
		return "", err
	}
	key, ok := keys[name]
	if !ok || key == "" {
		return "", fmt.Errorf("no stored key for %s", name)
	}
	return key, nil
}

// Delete removes a stored key.
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	keys, err := s.load()
	if err != nil {
		return err
	}
	delete(keys, name)
	return s.save(keys)
}

// List returns every known key name with its value, "(empty)" when the
// key is not set.
func (s *Store) List() (map[string]string, error) {
	keys, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(KeyNames))
	names := append([]string(nil), KeyNames...)
	sort.Strings(names)
	for _, n := range names {
		if v := keys[n]; v != "" {
			out[n] = v
		} else {
			out[n] = "(empty)"
		}
	}
	return out, nil
}

// Resolve applies the lookup order flag > environment > store.
func (s *Store) Resolve(name, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return s.Get(name)
}
