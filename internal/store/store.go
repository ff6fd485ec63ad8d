// Package store owns the in-memory task list and keeps it persisted.
//
// Every mutation rewrites the whole list into one slot of a prefs.Store.
// Load and save failures never reach the caller: a slot that cannot be
// read or decoded yields an empty list, and a list that cannot be encoded
// or written leaves the previous slot value in place. Both cases are
// logged as warnings.
//
// A Store is not safe for concurrent use.
package store

import (
	"errors"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/donelist/internal/logging"
	"github.com/nibzard/donelist/internal/prefs"
	"github.com/nibzard/donelist/internal/todo"
)

// DefaultKey is the slot the task list lives in.
const DefaultKey = "tasksKey"

// corruptSuffix is appended to the slot key to keep an undecodable payload.
const corruptSuffix = ".corrupt"

// Observer receives a snapshot of the list after each mutation.
type Observer func(tasks []todo.Task)

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and save warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces uuid.New for new tasks.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

type subscription struct {
	id int
	fn Observer
}

// Store is the ordered task list plus its persistence.
type Store struct {
	prefs     prefs.Store
	key       string
	logger    *log.Logger
	newID     func() uuid.UUID
	tasks     []todo.Task
	observers []subscription
	nextSub   int
}

// New builds a Store and loads the persisted list from p.
func New(p prefs.Store, opts ...Option) *Store {
	s := &Store{
		prefs:  p,
		key:    DefaultKey,
		logger: logging.Discard(),
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// Key returns the slot key.
func (s *Store) Key() string {
	return s.key
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []todo.Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Index returns the position of the task with id, or -1.
func (s *Store) Index(id uuid.UUID) int {
	return slices.IndexFunc(s.tasks, func(t todo.Task) bool { return t.ID == id })
}

// Task returns the task with id.
func (s *Store) Task(id uuid.UUID) (todo.Task, bool) {
	i := s.Index(id)
	if i < 0 {
		return todo.Task{}, false
	}
	return s.tasks[i], true
}

// Add appends an open task with a fresh id. Titles are not validated here.
func (s *Store) Add(title string) todo.Task {
	task := todo.Task{ID: s.newID(), Title: title}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("task added", "id", task.ID)
	s.changed()
	return task
}

// Remove deletes the tasks at the given positions. Positions refer to the
// list before the call; out-of-range and repeated positions are ignored.
// Nothing is written when no task is removed.
func (s *Store) Remove(positions ...int) {
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(s.tasks) {
			drop[p] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := make([]todo.Task, 0, len(s.tasks)-len(drop))
	for i, task := range s.tasks {
		if !drop[i] {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	s.logger.Debug("tasks removed", "count", len(drop))
	s.changed()
}

// Toggle flips completion of the first task with id. Unknown ids are ignored.
func (s *Store) Toggle(id uuid.UUID) {
	i := s.Index(id)
	if i < 0 {
		return
	}
	s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].IsCompleted)
	s.changed()
}

// Subscribe registers fn to run after every mutation and returns a
// function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) changed() {
	s.save()
	for _, sub := range slices.Clone(s.observers) {
		sub.fn(s.Tasks())
	}
}

func (s *Store) load() {
	s.tasks = []todo.Task{}

	data, err := s.prefs.Data(s.key)
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			s.logger.Debug("no saved task list", "key", s.key)
			return
		}
		s.logger.Warn("reading task list failed, starting empty", "key", s.key, "err", err)
		return
	}

	tasks, err := todo.Decode(data)
	if err != nil {
		s.logger.Warn("discarding undecodable task list", "key", s.key, "err", err)
		backup := s.key + corruptSuffix
		if err := s.prefs.Set(backup, data); err != nil {
			s.logger.Warn("keeping undecodable task list failed", "key", backup, "err", err)
		}
		return
	}
	s.tasks = tasks
	s.logger.Debug("task list loaded", "key", s.key, "tasks", len(tasks))
}

func (s *Store) save() {
	data, err := todo.Encode(s.tasks)
	if err != nil {
		s.logger.Warn("encoding task list failed, not saved", "key", s.key, "err", err)
		return
	}
	if err := s.prefs.Set(s.key, data); err != nil {
		s.logger.Warn("writing task list failed, not saved", "key", s.key, "err", err)
	}
}
