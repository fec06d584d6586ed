// Package store persists shader sources and the catalogue of saved shaders,
// namespaced so several playgrounds can share one backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no source is stored under a name.
var ErrNotFound = errors.New("store: not found")

const (
	savedShadersName = "ownShaders"
	sourceIndexName  = "fragmentSources"
)

// SavedShader is a user-named shader. Its source is kept under the shader
// class with UUID as the entry name.
type SavedShader struct {
	UUID      string         `json:"uuid"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Store provides namespaced access to a Backend.
type Store struct {
	backend   Backend
	namespace string
}

// New creates a Store writing under namespace.
func New(backend Backend, namespace string) *Store {
	return &Store{backend: backend, namespace: namespace}
}

// Namespace returns the identity every key is scoped to.
func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) key(class Class, name string) Key {
	return Key{Class: class, Namespace: s.namespace, Name: name}
}

// PutShaderSource stores source under name.
func (s *Store) PutShaderSource(ctx context.Context, name, source string) error {
	if err := s.backend.Set(ctx, s.key(ClassShader, name).String(), source); err != nil {
		return err
	}
	index, err := s.sourceIndex(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(index, name) {
		return nil
	}
	return s.putSourceIndex(ctx, append(index, name))
}

// GetShaderSource returns the source stored under name or ErrNotFound.
func (s *Store) GetShaderSource(ctx context.Context, name string) (string, error) {
	v, ok, err := s.backend.Get(ctx, s.key(ClassShader, name).String())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("shader source %q: %w", name, ErrNotFound)
	}
	return v, nil
}

// DeleteShaderSource removes the source stored under name.
func (s *Store) DeleteShaderSource(ctx context.Context, name string) error {
	if err := s.backend.Delete(ctx, s.key(ClassShader, name).String()); err != nil {
		return err
	}
	index, err := s.sourceIndex(ctx)
	if err != nil || !slices.Contains(index, name) {
		return err
	}
	return s.putSourceIndex(ctx, slices.DeleteFunc(index, func(n string) bool { return n == name }))
}

// sourceIndex lists the names this namespace has written shader sources
// under. Cleanup relies on it when the namespace's key prefix is ambiguous.
func (s *Store) sourceIndex(ctx context.Context) ([]string, error) {
	v, ok, err := s.backend.Get(ctx, s.key(ClassConfig, sourceIndexName).String())
	if err != nil || !ok || v == "" {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(v), &names); err != nil {
		return nil, fmt.Errorf("decoding source index: %w", err)
	}
	return names, nil
}

func (s *Store) putSourceIndex(ctx context.Context, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encoding source index: %w", err)
	}
	return s.backend.Set(ctx, s.key(ClassConfig, sourceIndexName).String(), string(data))
}

// SavedShaders returns the catalogue in insertion order.
func (s *Store) SavedShaders(ctx context.Context) ([]SavedShader, error) {
	v, ok, err := s.backend.Get(ctx, s.key(ClassConfig, savedShadersName).String())
	if err != nil {
		return nil, err
	}
	if !ok || v == "" {
		return []SavedShader{}, nil
	}
	var list []SavedShader
	if err := json.Unmarshal([]byte(v), &list); err != nil {
		return nil, fmt.Errorf("decoding saved shaders: %w", err)
	}
	return list, nil
}

func (s *Store) putSavedShaders(ctx context.Context, list []SavedShader) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding saved shaders: %w", err)
	}
	return s.backend.Set(ctx, s.key(ClassConfig, savedShadersName).String(), string(data))
}

// PutSavedShader replaces the record with the same UUID or appends it.
// A record without a UUID gets a fresh one; the stored record is returned.
func (s *Store) PutSavedShader(ctx context.Context, rec SavedShader) (SavedShader, error) {
	list, err := s.SavedShaders(ctx)
	if err != nil {
		return rec, err
	}
	now := time.Now().UTC()
	if rec.UUID == "" {
		rec.UUID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	i := slices.IndexFunc(list, func(r SavedShader) bool { return r.UUID == rec.UUID })
	if i == -1 {
		list = append(list, rec)
	} else {
		rec.CreatedAt = list[i].CreatedAt
		list[i] = rec
	}
	return rec, s.putSavedShaders(ctx, list)
}

// SaveShader records source as a new saved shader called name.
func (s *Store) SaveShader(ctx context.Context, name, source string) (SavedShader, error) {
	rec, err := s.PutSavedShader(ctx, SavedShader{Name: name})
	if err != nil {
		return SavedShader{}, fmt.Errorf("saving %q: %w", name, err)
	}
	if err := s.PutShaderSource(ctx, rec.UUID, source); err != nil {
		return rec, fmt.Errorf("saving %q source: %w", name, err)
	}
	return rec, nil
}

// DeleteSavedShader drops the record and the source stored for it.
func (s *Store) DeleteSavedShader(ctx context.Context, id string) error {
	list, err := s.SavedShaders(ctx)
	if err != nil {
		return err
	}
	list = slices.DeleteFunc(list, func(r SavedShader) bool { return r.UUID == id })
	if err := s.putSavedShaders(ctx, list); err != nil {
		return err
	}
	return s.DeleteShaderSource(ctx, id)
}

// Cleanup removes every shader source in the namespace that belongs neither
// to a saved shader nor to keep. It returns the removed keys.
//
// Keys of a namespace whose encoding is unpadded can also be keys of a
// longer namespace, so for those only indexed names are considered ours.
func (s *Store) Cleanup(ctx context.Context, keep []string) ([]string, error) {
	saved, err := s.SavedShaders(ctx)
	if err != nil {
		return nil, err
	}
	index, err := s.sourceIndex(ctx)
	if err != nil {
		return nil, err
	}
	keepNames := make(map[string]struct{}, len(saved)+len(keep))
	for _, rec := range saved {
		keepNames[rec.UUID] = struct{}{}
	}
	for _, name := range keep {
		keepNames[name] = struct{}{}
	}
	padded := strings.HasSuffix(encode(s.namespace), "=")

	stored, err := s.backend.Keys(ctx, Prefix(ClassShader, s.namespace))
	if err != nil {
		return nil, err
	}
	var removed []string
	var dropped []string
	for _, k := range stored {
		name, ok := nameOf(k, ClassShader, s.namespace)
		if !ok || (!padded && !slices.Contains(index, name)) {
			continue
		}
		if _, ok := keepNames[name]; ok {
			continue
		}
		if err := s.backend.Delete(ctx, k); err != nil {
			return removed, err
		}
		removed = append(removed, k)
		dropped = append(dropped, name)
	}
	if len(dropped) > 0 {
		index = slices.DeleteFunc(index, func(n string) bool { return slices.Contains(dropped, n) })
		if err := s.putSourceIndex(ctx, index); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
