package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/infra/config"
)

func TestPrintTracks(t *testing.T) {
	cfg, err := config.Parse([]byte(`
tracks:
  - title: Intro
    artist: Band
    src: /music/intro.mp3
  - src: /music/untitled-demo.wav
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	printTracks(&buf, cfg)

	out := buf.String()
	assert.Contains(t, out, "Playlist")
	assert.Contains(t, out, "Band - Intro")
	assert.Contains(t, out, "untitled-demo")
	assert.Contains(t, out, "/music/untitled-demo.wav")
}

func TestExecuteHooks_Empty(t *testing.T) {
	assert.NotPanics(t, func() { executeHooks(nil, "on_started") })
}
