package ui

import (
	"context"
	"time"

	"HandwritingBoard/internal/store"
)

const saveTimeout = 10 * time.Second

type projectStore interface {
	CreateProject(ctx context.Context, userID string, in store.ProjectInput) (string, error)
	UpdateProject(ctx context.Context, id string, patch store.ProjectPatch) error
}

type saveRequest struct {
	name string
	data []byte
}

// saver upserts one project off the UI thread. Only one write runs at a
// time: saves requested meanwhile collapse into a single follow-up carrying
// the newest data, so an unsaved project is created exactly once.
type saver struct {
	store projectStore
	uid   string
	id    string
	post  func(func())

	running bool
	queued  *saveRequest

	// onDone runs on the UI thread after every write.
	onDone func(id, name string, err error)
}

func (s *saver) save(name string, data []byte) {
	req := saveRequest{name: name, data: data}
	if s.running {
		s.queued = &req
		return
	}
	s.start(req)
}

func (s *saver) start(req saveRequest) {
	s.running = true
	id, uid, st := s.id, s.uid, s.store
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		var err error
		if id == "" {
			id, err = st.CreateProject(ctx, uid, store.ProjectInput{Name: req.name, Data: req.data})
		} else {
			err = st.UpdateProject(ctx, id, store.ProjectPatch{Name: &req.name, Data: req.data})
		}
		s.post(func() { s.finish(id, req.name, err) })
	}()
}

func (s *saver) finish(id, name string, err error) {
	s.running = false
	if err == nil {
		s.id = id
	}
	if s.onDone != nil {
		s.onDone(s.id, name, err)
	}
	if next := s.queued; next != nil {
		s.queued = nil
		s.start(*next)
	}
}
