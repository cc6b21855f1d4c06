package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HandwritingBoard/internal/store"
)

type fakeProjects struct {
	mu      sync.Mutex
	release chan struct{}
	creates []string
	updates map[string][]string
	failing bool
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{release: make(chan struct{}), updates: map[string][]string{}}
}

func (f *fakeProjects) CreateProject(_ context.Context, _ string, in store.ProjectInput) (string, error) {
	<-f.release
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return "", errors.New("disk full")
	}
	f.creates = append(f.creates, string(in.Data))
	return "p1", nil
}

func (f *fakeProjects) UpdateProject(_ context.Context, id string, patch store.ProjectPatch) error {
	<-f.release
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = append(f.updates[id], string(patch.Data))
	return nil
}

type doneCall struct {
	id  string
	err error
}

func newTestSaver(st projectStore) (*saver, chan func(), *[]doneCall) {
	queue := make(chan func(), 8)
	var done []doneCall
	s := &saver{
		store: st,
		uid:   "u1",
		post:  func(fn func()) { queue <- fn },
		onDone: func(id, _ string, err error) {
			done = append(done, doneCall{id: id, err: err})
		},
	}
	return s, queue, &done
}

func runPosted(t *testing.T, queue chan func()) {
	t.Helper()
	select {
	case fn := <-queue:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("no save finished")
	}
}

func TestSavesDuringCreateDoNotDuplicateProject(t *testing.T) {
	st := newFakeProjects()
	s, queue, done := newTestSaver(st)

	s.save("Sketch", []byte("v1"))
	s.save("Sketch", []byte("v2"))
	s.save("Sketch", []byte("v3"))
	close(st.release)

	runPosted(t, queue)
	assert.Equal(t, "p1", s.id)
	runPosted(t, queue)

	assert.Equal(t, []string{"v1"}, st.creates)
	assert.Equal(t, map[string][]string{"p1": {"v3"}}, st.updates, "queued saves collapse into the newest")
	require.Len(t, *done, 2)
	assert.Equal(t, "p1", (*done)[1].id)
	assert.False(t, s.running)
}

func TestFailedCreateIsRetriedAsCreate(t *testing.T) {
	st := newFakeProjects()
	st.failing = true
	close(st.release)
	s, queue, done := newTestSaver(st)

	s.save("Sketch", []byte("v1"))
	runPosted(t, queue)
	require.Len(t, *done, 1)
	assert.Error(t, (*done)[0].err)
	assert.Empty(t, s.id)

	st.mu.Lock()
	st.failing = false
	st.mu.Unlock()
	s.save("Sketch", []byte("v2"))
	runPosted(t, queue)
	assert.Equal(t, []string{"v2"}, st.creates)
	assert.Equal(t, "p1", s.id)
}
