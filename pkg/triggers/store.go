package triggers

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/charmbracelet/log"
)

// Store owns the trigger list behind a file. Every change is saved and pushed to
// subscribers as a freshly compiled index.
type Store struct {
	mu       sync.RWMutex
	path     string
	engine   *expand.Engine
	triggers []expand.Trigger
	index    *expand.Index

	subMu   sync.Mutex
	subs    map[int]func(*expand.Index)
	nextSub int
}

// Open loads the trigger file at path, creating it with DefaultTriggers when it
// doesn't exist. A nil engine means expand.New().
func Open(path string, engine *expand.Engine) (*Store, error) {
	if FormatOf(path) == FormatUnknown {
		return nil, ErrUnsupportedFormat
	}
	if engine == nil {
		engine = expand.New()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:   abs,
		engine: engine,
		subs:   make(map[int]func(*expand.Index)),
	}

	list, err := Load(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		list = DefaultTriggers()
		if err := Save(s.path, list); err != nil {
			return nil, err
		}
		log.Debugf("Created default trigger file at: %s", s.path)
	} else if err != nil {
		return nil, err
	}

	s.triggers = list
	s.index = engine.Index(list)
	log.Debugf("Loaded %d triggers from %s", len(list), s.path)
	return s, nil
}

// Path returns the file behind the store.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []expand.Trigger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.triggers)
}

// Index returns the compiled current list.
func (s *Store) Index() *expand.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Len returns the number of triggers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triggers)
}

// Add appends t.
func (s *Store) Add(t expand.Trigger) error {
	if err := Validate(t); err != nil {
		return err
	}
	return s.mutate(func(list []expand.Trigger) ([]expand.Trigger, error) {
		return append(list, t), nil
	})
}

// Update replaces the trigger at position i.
func (s *Store) Update(i int, t expand.Trigger) error {
	if err := Validate(t); err != nil {
		return err
	}
	return s.mutate(func(list []expand.Trigger) ([]expand.Trigger, error) {
		if i < 0 || i >= len(list) {
			return nil, ErrNotFound
		}
		list[i] = t
		return list, nil
	})
}

// Remove deletes the trigger at position i.
func (s *Store) Remove(i int) error {
	return s.mutate(func(list []expand.Trigger) ([]expand.Trigger, error) {
		if i < 0 || i >= len(list) {
			return nil, ErrNotFound
		}
		return slices.Delete(list, i, i+1), nil
	})
}

// Replace swaps in a whole new list. Invalid entries are dropped.
func (s *Store) Replace(list []expand.Trigger) error {
	return s.mutate(func([]expand.Trigger) ([]expand.Trigger, error) {
		return Clean(list), nil
	})
}

// Reload re-reads the file. Subscribers are only told when the list changed.
func (s *Store) Reload() error {
	list, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if slices.Equal(list, s.triggers) {
		s.mu.Unlock()
		return nil
	}
	s.triggers = list
	s.index = s.engine.Index(list)
	ix := s.index
	s.mu.Unlock()

	log.Debugf("Reloaded %d triggers from %s", len(list), s.path)
	s.notify(ix)
	return nil
}

// Subscribe registers fn to receive every new index. The returned func removes it.
func (s *Store) Subscribe(fn func(*expand.Index)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) mutate(fn func([]expand.Trigger) ([]expand.Trigger, error)) error {
	s.mu.Lock()
	list, err := fn(slices.Clone(s.triggers))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := Save(s.path, list); err != nil {
		s.mu.Unlock()
		return err
	}
	s.triggers = list
	s.index = s.engine.Index(list)
	ix := s.index
	s.mu.Unlock()

	s.notify(ix)
	return nil
}

func (s *Store) notify(ix *expand.Index) {
	s.subMu.Lock()
	fns := make([]func(*expand.Index), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ix)
	}
}
