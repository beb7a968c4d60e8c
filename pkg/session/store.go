package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
)

// ErrNoActiveProfile means a request needed a user but nobody is selected
var ErrNoActiveProfile = errors.New("no active profile selected")

// ErrProfileNotFound means the given profile id isn't registered
var ErrProfileNotFound = errors.New("profile not found")

// Store keeps the learner profiles known on this device and which one is
// currently active. It's a single-machine, single-active-profile model -
// kinda like a simple auth system. The registry is persisted as a small
// JSON file so profiles survive restarts.
type Store struct {
	mu       sync.RWMutex
	path     string
	profiles map[uuid.UUID]*models.Profile
	active   uuid.UUID
}

// persistedProfiles is the on-disk shape of the registry
type persistedProfiles struct {
	Profiles []*models.Profile `json:"profiles"`
	Active   uuid.UUID         `json:"active,omitempty"`
}

// New loads (or initializes) the profile registry stored at path
func New(path string) (*Store, error) {
	s := &Store{
		path:     path,
		profiles: make(map[uuid.UUID]*models.Profile),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading profile registry: %w", err)
	}

	var persisted persistedProfiles
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("parsing profile registry: %w", err)
	}
	for _, p := range persisted.Profiles {
		s.profiles[p.ID] = p
	}
	if _, ok := s.profiles[persisted.Active]; ok {
		s.active = persisted.Active
	}
	return s, nil
}

// persist writes the registry back to disk - caller must hold the lock
func (s *Store) persist() error {
	out := persistedProfiles{Active: s.active}
	for _, p := range s.profiles {
		out.Profiles = append(out.Profiles, p)
	}
	sort.Slice(out.Profiles, func(i, j int) bool {
		return out.Profiles[i].CreatedAt.Before(out.Profiles[j].CreatedAt)
	})

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile registry: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing profile registry: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing profile registry: %w", err)
	}
	return nil
}

// Create registers a new profile and returns it
func (s *Store) Create(name string) (*models.Profile, error) {
	if name == "" {
		return nil, errors.New("profile name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := &models.Profile{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.profiles[profile.ID] = profile

	// first profile on the device becomes active automatically
	if s.active == uuid.Nil {
		s.active = profile.ID
	}

	if err := s.persist(); err != nil {
		delete(s.profiles, profile.ID)
		return nil, err
	}
	return profile, nil
}

// List returns all profiles ordered by creation time
func (s *Store) List() []*models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Get returns a profile by id
func (s *Store) Get(id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Select makes the given profile the active one
func (s *Store) Select(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	s.active = id
	return s.persist()
}

// Current returns the active profile id, uuid.Nil if none
func (s *Store) Current() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Delete removes a profile. Deleting the active profile clears the selection.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	delete(s.profiles, id)
	if s.active == id {
		s.active = uuid.Nil
	}
	return s.persist()
}

// ClearAll wipes the whole registry - used by factory reset
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[uuid.UUID]*models.Profile)
	s.active = uuid.Nil
	return s.persist()
}
