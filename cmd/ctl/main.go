// Package main provides the control CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/tunedeck/internal/api/connect"
)

var (
	app    = kingpin.New("tunedeck-ctl", "tunedeck playback control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set TUNEDECK_CONTROL_TOKEN env)").Envar("TUNEDECK_CONTROL_TOKEN").String()

	// status command
	statusCmd = app.Command("status", "Show playback status")

	// watch command
	watchCmd      = app.Command("watch", "Stream playback status changes")
	watchProgress = watchCmd.Flag("progress", "Also print progress updates").Bool()

	// transport commands
	playCmd   = app.Command("play", "Start playback")
	pauseCmd  = app.Command("pause", "Pause playback")
	toggleCmd = app.Command("toggle", "Toggle play/pause")
	nextCmd   = app.Command("next", "Skip to the next track").Alias("skip")
	prevCmd   = app.Command("prev", "Go back to the previous track")

	// select command
	selectCmd   = app.Command("select", "Play the track at an index")
	selectIndex = selectCmd.Arg("index", "Playlist index (0-based)").Required().Int()

	// seek command
	seekCmd     = app.Command("seek", "Move the playhead")
	seekSeconds = seekCmd.Arg("seconds", "Position in seconds").Required().Float64()

	// tracks command
	tracksCmd = app.Command("tracks", "List the playlist").Alias("list")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := apiconnect.NewClient(http.DefaultClient, *server, *token)

	ctx := context.Background()

	// Execute command
	var err error
	switch command {
	case statusCmd.FullCommand():
		err = status(ctx, client)
	case watchCmd.FullCommand():
		err = watch(ctx, client, *watchProgress)
	case playCmd.FullCommand():
		err = transport(client.Play(ctx))
	case pauseCmd.FullCommand():
		err = transport(client.Pause(ctx))
	case toggleCmd.FullCommand():
		err = transport(client.PlayPause(ctx))
	case nextCmd.FullCommand():
		err = transport(client.Next(ctx))
	case prevCmd.FullCommand():
		err = transport(client.Prev(ctx))
	case selectCmd.FullCommand():
		err = transport(client.SelectTrack(ctx, *selectIndex))
	case seekCmd.FullCommand():
		err = transport(client.Seek(ctx, *seekSeconds))
	case tracksCmd.FullCommand():
		err = tracks(ctx, client)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func status(ctx context.Context, client *apiconnect.Client) error {
	resp, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== CURRENT STATUS ===")
	fmt.Printf("Session ID: %s\n", resp.SessionID)
	fmt.Printf("Phase: %s\n", resp.Phase)
	if resp.StartedAt != "" {
		fmt.Printf("Started At: %s\n", resp.StartedAt)
	}
	fmt.Println()
	printStatus(os.Stdout, &resp.Status)
	fmt.Println()
	return nil
}

func transport(s *apiconnect.StatusMessage, err error) error {
	if err != nil {
		return err
	}
	printStatus(os.Stdout, s)
	return nil
}

func tracks(ctx context.Context, client *apiconnect.Client) error {
	resp, err := client.ListTracks(ctx)
	if err != nil {
		return err
	}
	printTracks(os.Stdout, resp)
	return nil
}

func watch(ctx context.Context, client *apiconnect.Client, progress bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching playback status. Press Ctrl+C to exit.")

	err := client.WatchStatus(ctx, func(n *apiconnect.StatusNotification) error {
		if n.Event == "progress" && !progress {
			return nil
		}
		printNotification(os.Stdout, n)
		return nil
	})
	if ctx.Err() != nil {
		fmt.Println("\nUnsubscribing...")
		return nil
	}
	return err
}

func printStatus(w io.Writer, s *apiconnect.StatusMessage) {
	fmt.Fprintf(w, "%s  [%d] %s\n", formatState(s.State), s.Index, formatTrack(&s.Track))
	fmt.Fprintf(w, "  %s / %s\n", formatSeconds(s.ProgressSeconds), formatSeconds(s.DurationSeconds))
}

func printTracks(w io.Writer, resp *apiconnect.ListTracksResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "#", "Title", "Artist", "Source"})

	for _, tr := range resp.Tracks {
		marker := ""
		if tr.Index == resp.Current {
			marker = "▶"
		}
		t.AppendRow(table.Row{marker, tr.Index, tr.Title, tr.Artist, tr.Source})
	}

	t.Render()
}

func printNotification(w io.Writer, n *apiconnect.StatusNotification) {
	// Print sequence number
	fmt.Fprintf(w, "[Sequence: %d] ", n.SequenceNo)

	// Print event type header
	switch n.Event {
	case "initial_state":
		fmt.Fprintln(w, "=== INITIAL STATE ===")
	case "track_changed":
		fmt.Fprintln(w, "=== TRACK CHANGED ===")
	case "state_changed":
		fmt.Fprintln(w, "=== STATE CHANGED ===")
	case "seeked":
		fmt.Fprintln(w, "=== SEEKED ===")
	case "progress":
		fmt.Fprintln(w, "=== PROGRESS ===")
	case "engine_error":
		fmt.Fprintln(w, "=== ENGINE ERROR ===")
	default:
		fmt.Fprintf(w, "=== UNKNOWN EVENT (%s) ===\n", n.Event)
	}
	printStatus(w, &n.Status)
}

func formatState(state string) string {
	switch state {
	case "playing":
		return "▶️  Playing"
	case "paused":
		return "⏸  Paused"
	default:
		return "❓ Unknown"
	}
}

func formatTrack(t *apiconnect.TrackMessage) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

func formatSeconds(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
