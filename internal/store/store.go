// Package store holds the todo collection and keeps it in step with the
// remote store.
//
// A single goroutine owns the State. Remote calls run on the caller's
// goroutine; once a call resolves, the caller posts a mutation to the owner
// and waits for it to be applied, so mutations are applied one at a time and
// in the order their calls resolved. The last resolved write wins.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/idilsaglam/todotable/internal/logging"
	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/remote"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store closed")

// mutation is a request to the owner goroutine. apply reports whether the
// state changed; done is closed once it ran.
type mutation struct {
	apply func(*State) bool
	done  chan struct{}
}

// Store is the state container.
type Store struct {
	client   remote.Client
	log      *slog.Logger
	listener func(State)

	queue     chan mutation
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = logging.Component(l, "store")
	}
}

// WithListener registers fn to be called with a copy of the state after
// every change. Calls come from the owner goroutine, in order, so fn must
// not call back into the Store.
func WithListener(fn func(State)) Option {
	return func(s *Store) {
		s.listener = fn
	}
}

// New creates a Store backed by client and starts its owner goroutine.
// Call Close to stop it.
func New(client remote.Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		log:     logging.Nop(),
		queue:   make(chan mutation),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	defer close(s.stopped)
	var state State
	for {
		select {
		case m := <-s.queue:
			changed := m.apply(&state)
			close(m.done)
			if changed && s.listener != nil {
				s.listener(state.clone())
			}
		case <-s.quit:
			return
		}
	}
}

// Close stops the owner goroutine. Later calls return ErrClosed.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.stopped
}

func (s *Store) submit(apply func(*State) bool) error {
	m := mutation{apply: apply, done: make(chan struct{})}
	select {
	case s.queue <- m:
	case <-s.quit:
		return ErrClosed
	}
	<-m.done
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	var out State
	if err := s.submit(func(st *State) bool {
		out = st.clone()
		return false
	}); err != nil {
		return State{}
	}
	return out
}

// Fetch loads the whole collection. Status goes to Loading, then to
// Succeeded with the collection replaced, or to Failed with the collection
// left as it was.
func (s *Store) Fetch(ctx context.Context) error {
	if err := s.submit(func(st *State) bool {
		st.Status = Loading
		return true
	}); err != nil {
		return err
	}

	todos, err := s.client.List(ctx)
	if err != nil {
		s.log.Error("fetch failed", "error", err)
		if serr := s.submit(func(st *State) bool {
			st.Status = Failed
			st.Err = err.Error()
			return true
		}); serr != nil {
			return serr
		}
		return err
	}

	s.log.Info("fetched todos", "count", len(todos))
	return s.submit(func(st *State) bool {
		st.Todos = todos
		st.Status = Succeeded
		st.Err = ""
		return true
	})
}

// Create sends t to the remote store and appends the stored record.
// On failure the collection is untouched and the error is returned.
//
// Ids stay unique: if the remote hands back an id already held (the public
// placeholder API answers 201 to every create), the held record is replaced.
func (s *Store) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	created, err := s.client.Create(ctx, t)
	if err != nil {
		s.log.Warn("create failed", "title", t.Title, "error", err)
		return model.Todo{}, err
	}
	if err := s.submit(func(st *State) bool {
		if i := st.index(created.ID); i >= 0 {
			s.log.Warn("remote reused an id, replacing held todo", "id", created.ID)
			st.Todos[i] = created
			return true
		}
		st.Todos = append(st.Todos, created)
		return true
	}); err != nil {
		return model.Todo{}, err
	}
	s.log.Info("created todo", "id", created.ID)
	return created, nil
}

// Update sends t to the remote store and replaces the record with the same
// id in place. If the id is no longer held, the collection is left as is.
func (s *Store) Update(ctx context.Context, t model.Todo) (model.Todo, error) {
	updated, err := s.client.Update(ctx, t.ID, t)
	if err != nil {
		s.log.Warn("update failed", "id", t.ID, "error", err)
		return model.Todo{}, err
	}
	if err := s.submit(func(st *State) bool {
		i := st.index(updated.ID)
		if i < 0 {
			s.log.Debug("updated todo not held", "id", updated.ID)
			return false
		}
		st.Todos[i] = updated
		return true
	}); err != nil {
		return model.Todo{}, err
	}
	return updated, nil
}

// Delete removes the todo remotely and then drops every record with that
// id from the collection.
func (s *Store) Delete(ctx context.Context, id int) (int, error) {
	removed, err := s.client.Delete(ctx, id)
	if err != nil {
		s.log.Warn("delete failed", "id", id, "error", err)
		return 0, err
	}
	if err := s.submit(func(st *State) bool {
		kept := make([]model.Todo, 0, len(st.Todos))
		for _, td := range st.Todos {
			if td.ID != removed {
				kept = append(kept, td)
			}
		}
		if len(kept) == len(st.Todos) {
			return false
		}
		st.Todos = kept
		return true
	}); err != nil {
		return 0, err
	}
	s.log.Info("deleted todo", "id", removed)
	return removed, nil
}
