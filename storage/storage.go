// Package storage holds the in-memory job store for the HTTP API. Jobs
// and their progress events live only as long as the process; the MP3 on
// disk is the sole durable artifact of a run.
package storage

import (
	"sync"

	"github.com/srgchrksv/echocast/models"
)

// eventBuffer bounds how many undelivered events a job can queue before
// new ones get dropped.
const eventBuffer = 500

type jobState struct {
	job    models.Job
	events chan models.ProgressEvent
	closed bool
}

type Store struct {
	mu   sync.Mutex
	jobs map[string]*jobState
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobState)}
}

// Create registers a new running job under the given id.
func (s *Store) Create(id string) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &jobState{
		job:    models.Job{ID: id, Status: models.JobRunning},
		events: make(chan models.ProgressEvent, eventBuffer),
	}
	s.jobs[id] = state
	return state.job
}

// Get returns a snapshot of the job.
func (s *Store) Get(id string) (models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return state.job, true
}

// Events returns the job's progress stream. The channel is closed when
// the job completes.
func (s *Store) Events(id string) (<-chan models.ProgressEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return state.events, true
}

// Publish queues a progress event for the job. Events published after
// completion, for unknown jobs, or past the buffer limit are dropped.
func (s *Store) Publish(id string, evt models.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.jobs[id]
	if !ok || state.closed {
		return
	}
	select {
	case state.events <- evt:
	default:
	}
}

// Complete marks the job done (or errored) and closes its event stream.
func (s *Store) Complete(id string, result string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.jobs[id]
	if !ok || state.closed {
		return
	}
	if err != nil {
		state.job.Status = models.JobError
		state.job.Error = err.Error()
	} else {
		state.job.Status = models.JobDone
		state.job.Result = result
	}
	state.closed = true
	close(state.events)
}
