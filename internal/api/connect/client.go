package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client is a PlayerService client.
type Client struct {
	play        *connect.Client[Empty, StatusMessage]
	pause       *connect.Client[Empty, StatusMessage]
	playPause   *connect.Client[Empty, StatusMessage]
	next        *connect.Client[Empty, StatusMessage]
	prev        *connect.Client[Empty, StatusMessage]
	selectTrack *connect.Client[SelectTrackRequest, StatusMessage]
	seekStart   *connect.Client[SeekStartRequest, StatusMessage]
	seekEnd     *connect.Client[Empty, StatusMessage]
	getStatus   *connect.Client[Empty, GetStatusResponse]
	listTracks  *connect.Client[Empty, ListTracksResponse]
	watchStatus *connect.Client[Empty, StatusNotification]
}

// NewClient creates a PlayerService client for the server at baseURL.
// A non-empty controlToken is sent with every call.
func NewClient(httpClient connect.HTTPClient, baseURL, controlToken string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(newTokenHeaderInterceptor(controlToken)),
	}, opts...)

	return &Client{
		play:        connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServicePlayProcedure, opts...),
		pause:       connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServicePauseProcedure, opts...),
		playPause:   connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServicePlayPauseProcedure, opts...),
		next:        connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServiceNextProcedure, opts...),
		prev:        connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServicePrevProcedure, opts...),
		selectTrack: connect.NewClient[SelectTrackRequest, StatusMessage](httpClient, baseURL+PlayerServiceSelectTrackProcedure, opts...),
		seekStart:   connect.NewClient[SeekStartRequest, StatusMessage](httpClient, baseURL+PlayerServiceSeekStartProcedure, opts...),
		seekEnd:     connect.NewClient[Empty, StatusMessage](httpClient, baseURL+PlayerServiceSeekEndProcedure, opts...),
		getStatus:   connect.NewClient[Empty, GetStatusResponse](httpClient, baseURL+PlayerServiceGetStatusProcedure, opts...),
		listTracks:  connect.NewClient[Empty, ListTracksResponse](httpClient, baseURL+PlayerServiceListTracksProcedure, opts...),
		watchStatus: connect.NewClient[Empty, StatusNotification](httpClient, baseURL+PlayerServiceWatchStatusProcedure, opts...),
	}
}

func callEmpty[Res any](ctx context.Context, c *connect.Client[Empty, Res]) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(&Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Play starts playback.
func (c *Client) Play(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.play)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.pause)
}

// PlayPause toggles playback.
func (c *Client) PlayPause(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.playPause)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.next)
}

// Prev goes back to the previous track.
func (c *Client) Prev(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.prev)
}

// SelectTrack jumps to the track at index.
func (c *Client) SelectTrack(ctx context.Context, index int) (*StatusMessage, error) {
	resp, err := c.selectTrack.CallUnary(ctx, connect.NewRequest(&SelectTrackRequest{Index: index}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// SeekStart moves the playhead to seconds and holds it there until SeekEnd.
func (c *Client) SeekStart(ctx context.Context, seconds float64) (*StatusMessage, error) {
	resp, err := c.seekStart.CallUnary(ctx, connect.NewRequest(&SeekStartRequest{Seconds: &seconds}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// SeekEnd releases the playhead after SeekStart.
func (c *Client) SeekEnd(ctx context.Context) (*StatusMessage, error) {
	return callEmpty(ctx, c.seekEnd)
}

// Seek performs a complete seek.
func (c *Client) Seek(ctx context.Context, seconds float64) (*StatusMessage, error) {
	if _, err := c.SeekStart(ctx, seconds); err != nil {
		return nil, err
	}
	return c.SeekEnd(ctx)
}

// GetStatus returns the current status.
func (c *Client) GetStatus(ctx context.Context) (*GetStatusResponse, error) {
	return callEmpty(ctx, c.getStatus)
}

// ListTracks returns the playlist.
func (c *Client) ListTracks(ctx context.Context) (*ListTracksResponse, error) {
	return callEmpty(ctx, c.listTracks)
}

// WatchStatus calls fn for every status notification until ctx is done,
// the stream ends or fn returns an error.
func (c *Client) WatchStatus(ctx context.Context, fn func(*StatusNotification) error) error {
	stream, err := c.watchStatus.CallServerStream(ctx, connect.NewRequest(&Empty{}))
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Receive() {
		if err := fn(stream.Msg()); err != nil {
			return err
		}
	}
	return stream.Err()
}
