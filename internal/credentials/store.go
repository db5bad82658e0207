// Package credentials persists one API key per model id in a local
// key/value backend. Keys are stored as raw text under "apiKey_<modelId>".
package credentials

import (
	"errors"
	"fmt"

	"github.com/Rorical/MultiChat/internal/models"
)

const keyPrefix = "apiKey_"

var ErrUnknownBackend = errors.New("unknown credential backend")

// StorageKey returns the backend key for a model id.
func StorageKey(modelID string) string {
	return keyPrefix + modelID
}

// Backend is a string-keyed persistence mechanism.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open creates a Store on the named backend ("file", "sqlite" or "memory").
func Open(kind, path string) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	switch kind {
	case "", "file":
		backend, err = NewFileBackend(path)
	case "sqlite":
		backend, err = NewSQLiteBackend(path)
	case "memory":
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

func (s *Store) Load(modelID string) (string, bool, error) {
	key, ok, err := s.backend.Get(StorageKey(modelID))
	if err != nil {
		return "", false, fmt.Errorf("failed to load credential for %s: %w", modelID, err)
	}
	return key, ok && key != "", nil
}

func (s *Store) Save(modelID, apiKey string) error {
	if err := s.backend.Set(StorageKey(modelID), apiKey); err != nil {
		return fmt.Errorf("failed to save credential for %s: %w", modelID, err)
	}
	return nil
}

func (s *Store) Delete(modelID string) error {
	if err := s.backend.Delete(StorageKey(modelID)); err != nil {
		return fmt.Errorf("failed to delete credential for %s: %w", modelID, err)
	}
	return nil
}

// Hydrate returns a copy of catalog with every stored key filled in.
// Models without a stored key keep an empty APIKey.
func (s *Store) Hydrate(catalog []models.Model) ([]models.Model, error) {
	result := make([]models.Model, len(catalog))
	for i, m := range catalog {
		key, ok, err := s.Load(m.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			m = m.WithAPIKey(key)
		} else {
			m = m.WithAPIKey("")
		}
		result[i] = m
	}
	return result, nil
}

func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) Close() error {
	return s.backend.Close()
}
