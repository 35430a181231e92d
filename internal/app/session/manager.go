// Package session provides the session manager.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/app/playback"
	"github.com/osa030/tunedeck/internal/domain/playlist"
	"github.com/osa030/tunedeck/internal/infra/config"
	"github.com/osa030/tunedeck/internal/infra/metadata"
)

var (
	ErrSessionNotRunning = errors.New("session is not running")
	ErrAlreadyStarted    = errors.New("session already started")
)

// Phase represents the session lifecycle phase.
type Phase int

const (
	PhaseWaiting    Phase = iota // Created, event loop not started
	PhaseActive                  // Publishing playback events
	PhaseTerminated              // Controller released
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Info describes the running session.
type Info struct {
	SessionID string
	Phase     Phase
	StartedAt *time.Time
}

// Manager owns the playback controller of one server run and fans its
// events out to status subscribers.
type Manager struct {
	mu sync.RWMutex

	sessionID string
	phase     Phase
	startedAt *time.Time

	// Components
	playback     *playback.Controller
	notification *notification.Manager

	// Channels
	loopDone  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager builds the playlist from the configured tracks and creates the
// controller that plays it through engines made by factory.
func NewManager(cfg *config.Config, factory playback.EngineFactory) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	tracks := metadata.EnrichAll(cfg.PlaylistTracks())
	controller, err := playback.NewController(playlist.New(tracks), factory, playback.Config{
		PollInterval: cfg.Playback.PollInterval(),
		EventBuffer:  cfg.Playback.EventBuffer,
		Autoplay:     cfg.Playback.Autoplay,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create playback controller")
	}

	m := &Manager{
		sessionID:    uuid.New().String(),
		phase:        PhaseWaiting,
		playback:     controller,
		notification: notification.NewManager(),
		loopDone:     make(chan struct{}),
		done:         make(chan struct{}),
	}
	zlog.Debug().Msgf("session: created: session_id=%s tracks=%d", m.sessionID, len(tracks))
	return m, nil
}

// Start starts forwarding playback events to subscribers. The loop ends
// when ctx is cancelled or the session is closed.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case PhaseActive:
		return ErrAlreadyStarted
	case PhaseTerminated:
		return ErrSessionNotRunning
	}

	now := time.Now()
	m.startedAt = &now
	m.phase = PhaseActive
	zlog.Info().Msgf("session: phase changed: phase=%s session_id=%s", m.phase, m.sessionID)

	go m.playbackLoop(ctx)
	return nil
}

// playbackLoop broadcasts controller events until the event channel closes.
func (m *Manager) playbackLoop(ctx context.Context) {
	defer close(m.loopDone)

	events := m.playback.Events()
	for {
		select {
		case <-ctx.Done():
			go m.Close()
			// Close waits for this loop, so keep draining until the
			// controller closes the channel
			for range events {
			}
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		}
	}
}

// handlePlaybackEvent handles playback events.
func (m *Manager) handlePlaybackEvent(event playback.Event) {
	switch event.Type {
	case playback.EventProgress:
		// Frequent; keep out of info logs
	case playback.EventEngineError:
		zlog.Warn().Err(event.Err).Msgf("session: engine error: index=%d", event.Status.Index)
	default:
		zlog.Info().Msgf("session: playback event: type=%s index=%d state=%s",
			event.Type, event.Status.Index, event.Status.State())
	}
	m.notification.Broadcast(event)
}

// Controller returns the playback controller.
func (m *Manager) Controller() *playback.Controller {
	return m.playback
}

// Notifications returns the notification manager.
func (m *Manager) Notifications() *notification.Manager {
	return m.notification
}

// GetInfo returns the session description.
func (m *Manager) GetInfo() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Info{
		SessionID: m.sessionID,
		Phase:     m.phase,
		StartedAt: m.startedAt,
	}
}

// Done returns a channel that is closed when the session is stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close releases the controller and drops all subscribers. It is safe to
// call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		wasActive := m.phase == PhaseActive
		m.phase = PhaseTerminated
		m.mu.Unlock()

		m.playback.Close()
		if wasActive {
			<-m.loopDone
		}
		m.notification.Close()
		close(m.done)
		zlog.Info().Msgf("session: phase changed: phase=%s session_id=%s", PhaseTerminated, m.sessionID)
	})
}
