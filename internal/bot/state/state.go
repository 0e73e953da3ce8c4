// Package state provides the shared key/value store that commands read and
// mutate during dispatch. Values may themselves be nested string-keyed maps,
// enabling multi-level key paths. Observers registered on a top-level key are
// invoked synchronously right after a write that changes its value.
//
// The store is not safe for concurrent use; the dispatcher guarantees a
// single writer by processing one chat line at a time.
package state

import (
	"fmt"
	"reflect"
)

// Observer is invoked after a top-level key changes value.
type Observer func(old, new any)

// PathError reports a nested write through a missing or non-map container.
type PathError struct {
	Key string
	Sub string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("state: no container at %q under %q", e.Sub, e.Key)
}

// Store holds the shared bot state.
type Store struct {
	values    map[string]any
	observers map[string][]Observer
}

// New creates a Store seeded with the given initial values. The map is taken
// over by the store; callers must not retain it.
func New(initial map[string]any) *Store {
	if initial == nil {
		initial = make(map[string]any)
	}
	return &Store{
		values:    initial,
		observers: make(map[string][]Observer),
	}
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set writes value under key, creating the entry on first write. Observers
// for the key fire only when the value actually changed.
func (s *Store) Set(key string, value any) {
	old, had := s.values[key]
	if had && reflect.DeepEqual(old, value) {
		return
	}
	s.values[key] = value
	for _, fn := range s.observers[key] {
		fn(old, value)
	}
}

// SetPath writes value at key, indexed through the ordered subKeys into
// nested map containers. Missing intermediate containers are an error, never
// auto-created. The containers along the path are shallow-copied so that
// observers see distinct old and new values for the top-level key.
func (s *Store) SetPath(key string, subKeys []string, value any) error {
	if len(subKeys) == 0 {
		s.Set(key, value)
		return nil
	}
	top, ok := s.values[key]
	if !ok {
		return &PathError{Key: key, Sub: subKeys[0]}
	}
	updated, err := setIn(top, key, subKeys, value)
	if err != nil {
		return err
	}
	s.Set(key, updated)
	return nil
}

// GetPath reads the value at key indexed through subKeys.
func (s *Store) GetPath(key string, subKeys ...string) (any, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	for _, sub := range subKeys {
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, ok = m[sub]
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// Observe registers fn to run synchronously after each change to key.
func (s *Store) Observe(key string, fn Observer) {
	s.observers[key] = append(s.observers[key], fn)
}

// setIn returns a copy of container with value written at path. Every map on
// the path is shallow-copied; the original is left untouched.
func setIn(container any, key string, path []string, value any) (any, error) {
	m, ok := container.(map[string]any)
	if !ok {
		return nil, &PathError{Key: key, Sub: path[0]}
	}
	clone := make(map[string]any, len(m)+1)
	for k, v := range m {
		clone[k] = v
	}
	if len(path) == 1 {
		clone[path[0]] = value
		return clone, nil
	}
	inner, ok := m[path[0]]
	if !ok {
		return nil, &PathError{Key: key, Sub: path[0]}
	}
	updated, err := setIn(inner, key, path[1:], value)
	if err != nil {
		return nil, err
	}
	clone[path[0]] = updated
	return clone, nil
}
