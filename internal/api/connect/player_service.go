package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/app/playback"
	"github.com/osa030/tunedeck/internal/app/session"
	"github.com/osa030/tunedeck/internal/domain/track"
)

// PlayerServiceName is the fully-qualified name of the PlayerService.
const PlayerServiceName = "tunedeck.v1.PlayerService"

// Procedure paths of the PlayerService.
const (
	PlayerServicePlayProcedure        = "/" + PlayerServiceName + "/Play"
	PlayerServicePauseProcedure       = "/" + PlayerServiceName + "/Pause"
	PlayerServicePlayPauseProcedure   = "/" + PlayerServiceName + "/PlayPause"
	PlayerServiceNextProcedure        = "/" + PlayerServiceName + "/Next"
	PlayerServicePrevProcedure        = "/" + PlayerServiceName + "/Prev"
	PlayerServiceSelectTrackProcedure = "/" + PlayerServiceName + "/SelectTrack"
	PlayerServiceSeekStartProcedure   = "/" + PlayerServiceName + "/SeekStart"
	PlayerServiceSeekEndProcedure     = "/" + PlayerServiceName + "/SeekEnd"
	PlayerServiceGetStatusProcedure   = "/" + PlayerServiceName + "/GetStatus"
	PlayerServiceListTracksProcedure  = "/" + PlayerServiceName + "/ListTracks"
	PlayerServiceWatchStatusProcedure = "/" + PlayerServiceName + "/WatchStatus"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	session *session.Manager
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(session *session.Manager) *PlayerService {
	return &PlayerService{session: session}
}

// Play handles play requests.
func (s *PlayerService) Play(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().Play)
}

// Pause handles pause requests.
func (s *PlayerService) Pause(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().Pause)
}

// PlayPause handles toggle requests.
func (s *PlayerService) PlayPause(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().PlayPause)
}

// Next handles next-track requests.
func (s *PlayerService) Next(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().Next)
}

// Prev handles previous-track requests.
func (s *PlayerService) Prev(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().Prev)
}

// SelectTrack handles track selection requests.
func (s *PlayerService) SelectTrack(ctx context.Context, req *connect.Request[SelectTrackRequest]) (*connect.Response[StatusMessage], error) {
	return s.control(func() error {
		return s.session.Controller().SelectTrack(req.Msg.Index)
	})
}

// SeekStart handles seek requests. A request without seconds is a no-op.
func (s *PlayerService) SeekStart(ctx context.Context, req *connect.Request[SeekStartRequest]) (*connect.Response[StatusMessage], error) {
	return s.control(func() error {
		return s.session.Controller().SeekStart(req.Msg.position())
	})
}

// SeekEnd handles seek completion requests.
func (s *PlayerService) SeekEnd(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusMessage], error) {
	return s.control(s.session.Controller().SeekEnd)
}

// GetStatus returns the current status.
func (s *PlayerService) GetStatus(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[GetStatusResponse], error) {
	status := s.session.Controller().Status()
	return connect.NewResponse(toGetStatusResponse(s.session.GetInfo(), status)), nil
}

// ListTracks returns the playlist.
func (s *PlayerService) ListTracks(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListTracksResponse], error) {
	return connect.NewResponse(&ListTracksResponse{
		Tracks:  lo.Map(s.session.Controller().Tracks(), func(t track.Track, i int) TrackMessage { return toTrackMessage(i, t) }),
		Current: s.session.Controller().Status().Index,
	}), nil
}

// WatchStatus streams the current status followed by every published
// status until the client disconnects or the session ends.
func (s *PlayerService) WatchStatus(ctx context.Context, req *connect.Request[Empty], stream *connect.ServerStream[StatusNotification]) error {
	notifManager := s.session.Notifications()

	initial := notification.Notification{
		SequenceNo: notifManager.NextSequenceNo(),
		Event:      notification.EventInitialState,
		Status:     s.session.Controller().Status(),
	}
	if err := stream.Send(toStatusNotification(initial)); err != nil {
		return err
	}

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := notifManager.Subscribe(adapter)
	zlog.Debug().Msgf("api: status watcher subscribed: subscription=%s", subscriptionID)

	// Wait for context cancellation or session end
	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}

	// Unsubscribe when done
	notifManager.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("api: status watcher unsubscribed: subscription=%s", subscriptionID)

	return nil
}

// control runs a transport operation and answers with the resulting status.
func (s *PlayerService) control(op func() error) (*connect.Response[StatusMessage], error) {
	if err := op(); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toStatusMessage(s.session.Controller().Status())), nil
}

// toConnectError maps controller errors to RPC codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, playback.ErrIndexOutOfRange):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, playback.ErrClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[StatusNotification]
}

func (a *notificationStreamAdapter) Send(n notification.Notification) error {
	// A timed-out send may still be running when the next broadcast starts
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(toStatusNotification(n))
}

// NewPlayerServiceHandler builds an HTTP handler serving every PlayerService
// procedure. Transport calls require controlToken when it is non-empty;
// status reads are open. It returns the path to mount the handler on.
func NewPlayerServiceHandler(svc *PlayerService, controlToken string, opts ...connect.HandlerOption) (string, http.Handler) {
	readOpts := append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	controlOpts := append(append([]connect.HandlerOption{}, readOpts...),
		connect.WithInterceptors(NewControlAuthInterceptor(controlToken)))

	handlers := map[string]http.Handler{
		PlayerServicePlayProcedure:        connect.NewUnaryHandler(PlayerServicePlayProcedure, svc.Play, controlOpts...),
		PlayerServicePauseProcedure:       connect.NewUnaryHandler(PlayerServicePauseProcedure, svc.Pause, controlOpts...),
		PlayerServicePlayPauseProcedure:   connect.NewUnaryHandler(PlayerServicePlayPauseProcedure, svc.PlayPause, controlOpts...),
		PlayerServiceNextProcedure:        connect.NewUnaryHandler(PlayerServiceNextProcedure, svc.Next, controlOpts...),
		PlayerServicePrevProcedure:        connect.NewUnaryHandler(PlayerServicePrevProcedure, svc.Prev, controlOpts...),
		PlayerServiceSelectTrackProcedure: connect.NewUnaryHandler(PlayerServiceSelectTrackProcedure, svc.SelectTrack, controlOpts...),
		PlayerServiceSeekStartProcedure:   connect.NewUnaryHandler(PlayerServiceSeekStartProcedure, svc.SeekStart, controlOpts...),
		PlayerServiceSeekEndProcedure:     connect.NewUnaryHandler(PlayerServiceSeekEndProcedure, svc.SeekEnd, controlOpts...),
		PlayerServiceGetStatusProcedure:   connect.NewUnaryHandler(PlayerServiceGetStatusProcedure, svc.GetStatus, readOpts...),
		PlayerServiceListTracksProcedure:  connect.NewUnaryHandler(PlayerServiceListTracksProcedure, svc.ListTracks, readOpts...),
		PlayerServiceWatchStatusProcedure: connect.NewServerStreamHandler(PlayerServiceWatchStatusProcedure, svc.WatchStatus, readOpts...),
	}

	return "/" + PlayerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
