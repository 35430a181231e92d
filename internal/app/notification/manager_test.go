package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/app/playback"
	"github.com/osa030/tunedeck/internal/domain/track"
)

type recordingStream struct {
	mu       sync.Mutex
	received []Notification
	err      error
	block    chan struct{}
}

func (s *recordingStream) Send(n Notification) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, n)
	return s.err
}

func (s *recordingStream) all() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.received...)
}

func progressEvent(index int) playback.Event {
	return playback.Event{
		Type: playback.EventProgress,
		Status: playback.Status{
			Track:    track.Track{Title: "T"},
			Index:    index,
			Progress: time.Second,
		},
	}
}

func TestManager_SubscribeAndBroadcast(t *testing.T) {
	m := NewManager()
	a, b := &recordingStream{}, &recordingStream{}

	idA := m.Subscribe(a)
	idB := m.Subscribe(b)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, 2, m.SubscriberCount())

	m.Broadcast(progressEvent(1))
	m.Broadcast(progressEvent(2))

	for _, s := range []*recordingStream{a, b} {
		got := s.all()
		require.Len(t, got, 2)
		assert.Equal(t, "progress", got[0].Event)
		assert.Equal(t, 1, got[0].Status.Index)
		assert.Equal(t, 2, got[1].Status.Index)
		assert.Less(t, got[0].SequenceNo, got[1].SequenceNo)
	}
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	id := m.Subscribe(s)

	m.Unsubscribe(id)
	m.Broadcast(progressEvent(0))

	assert.Equal(t, 0, m.SubscriberCount())
	assert.Empty(t, s.all())
}

func TestManager_FailingSubscriberDoesNotAffectOthers(t *testing.T) {
	m := NewManager()
	bad := &recordingStream{err: errors.New("broken pipe")}
	good := &recordingStream{}
	m.Subscribe(bad)
	m.Subscribe(good)

	m.Broadcast(progressEvent(0))

	assert.Len(t, good.all(), 1)
}

func TestManager_SlowSubscriberTimesOut(t *testing.T) {
	m := NewManager()
	m.sendTimeout = 20 * time.Millisecond
	slow := &recordingStream{block: make(chan struct{})}
	defer close(slow.block)
	fast := &recordingStream{}
	m.Subscribe(slow)
	m.Subscribe(fast)

	start := time.Now()
	m.Broadcast(progressEvent(0))

	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, fast.all(), 1)
}

func TestManager_SendAndSequence(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	id := m.Subscribe(s)

	first := m.NextSequenceNo()
	require.NoError(t, m.Send(id, Notification{SequenceNo: first, Event: EventInitialState}))
	require.NoError(t, m.Send("unknown", Notification{}))

	got := s.all()
	require.Len(t, got, 1)
	assert.Equal(t, EventInitialState, got[0].Event)
	assert.Equal(t, first+1, m.NextSequenceNo())
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{})
	m.Subscribe(&recordingStream{})

	m.Close()

	assert.Equal(t, 0, m.SubscriberCount())
}
