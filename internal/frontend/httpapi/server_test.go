package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"cadenza/internal/audio"
	"cadenza/internal/config"
	"cadenza/internal/core"
	"cadenza/internal/frontend/httpapi"
)

type fakeBackend struct {
	tracks []core.Track
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Tracks(context.Context) ([]core.Track, error) {
	return b.tracks, nil
}

func (b *fakeBackend) Close() error { return nil }

func startFrontend(t *testing.T, tracks []core.Track) (*httpapi.Frontend, *core.Coordinator) {
	t.Helper()

	engine, err := audio.StartEngine(audio.Settings{Output: "null", Volume: 50})
	if err != nil {
		t.Fatalf("start engine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	coord, err := core.StartCoordinator(engine, []core.Backend{&fakeBackend{tracks: tracks}})
	if err != nil {
		t.Fatalf("start coordinator: %v", err)
	}

	cfg := config.Default()
	cfg.HTTP.Bind = "127.0.0.1:0"
	frontend, err := httpapi.Class{}.Start(context.Background(), cfg, coord)
	if err != nil {
		t.Fatalf("start frontend: %v", err)
	}
	t.Cleanup(func() { frontend.Close() })
	return frontend, coord
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestStatusEndpoint(t *testing.T) {
	frontend, _ := startFrontend(t, nil)

	resp, err := http.Get(fmt.Sprintf("http://%s/api/status", frontend.Addr()))
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	var status core.Status
	decodeBody(t, resp, &status)
	if status.State != "stopped" {
		t.Fatalf("state = %q, want stopped", status.State)
	}
	if status.Volume != 50 {
		t.Fatalf("volume = %d, want 50", status.Volume)
	}
}

func TestLibraryEndpoint(t *testing.T) {
	frontend, _ := startFrontend(t, []core.Track{
		{URI: "local:track:a.flac", Title: "A", Source: "fake"},
		{URI: "local:track:b.flac", Title: "B", Source: "fake"},
	})

	resp, err := http.Get(fmt.Sprintf("http://%s/api/library", frontend.Addr()))
	if err != nil {
		t.Fatalf("get library: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Tracks []core.Track `json:"tracks"`
	}
	decodeBody(t, resp, &body)
	if len(body.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(body.Tracks))
	}
	if body.Tracks[0].URI != "local:track:a.flac" {
		t.Fatalf("first track = %q", body.Tracks[0].URI)
	}
}

func TestPlaybackEndpoints(t *testing.T) {
	frontend, coord := startFrontend(t, []core.Track{
		{URI: "local:track:a.flac", Title: "A", Source: "fake"},
	})

	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/playback", frontend.Addr()),
		"application/json",
		bytes.NewBufferString(`{"uri": "local:track:a.flac"}`),
	)
	if err != nil {
		t.Fatalf("post playback: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	var status core.Status
	decodeBody(t, resp, &status)
	if status.State != "playing" {
		t.Fatalf("state = %q, want playing", status.State)
	}
	if status.Track != "local:track:a.flac" {
		t.Fatalf("track = %q, want local:track:a.flac", status.Track)
	}

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("http://%s/api/playback", frontend.Addr()), nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete playback: %v", err)
	}
	decodeBody(t, resp, &status)
	if status.State != "stopped" {
		t.Fatalf("state after stop = %q, want stopped", status.State)
	}
	if got := coord.Status().State; got != "stopped" {
		t.Fatalf("coordinator state = %q, want stopped", got)
	}
}

func TestPlaybackUnknownURI(t *testing.T) {
	frontend, _ := startFrontend(t, nil)

	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/playback", frontend.Addr()),
		"application/json",
		bytes.NewBufferString(`{"uri": "local:track:missing.flac"}`),
	)
	if err != nil {
		t.Fatalf("post playback: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status code = %d, want 404", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestVolumeEndpoint(t *testing.T) {
	frontend, coord := startFrontend(t, nil)

	req, err := http.NewRequest(
		http.MethodPut,
		fmt.Sprintf("http://%s/api/volume", frontend.Addr()),
		bytes.NewBufferString(`{"volume": 80}`),
	)
	if err != nil {
		t.Fatalf("build put: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put volume: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	var status core.Status
	decodeBody(t, resp, &status)
	if status.Volume != 80 {
		t.Fatalf("volume = %d, want 80", status.Volume)
	}
	if got := coord.Volume(); got != 80 {
		t.Fatalf("coordinator volume = %d, want 80", got)
	}

	req, err = http.NewRequest(
		http.MethodPut,
		fmt.Sprintf("http://%s/api/volume", frontend.Addr()),
		bytes.NewBufferString(`{"volume": 150}`),
	)
	if err != nil {
		t.Fatalf("build put: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put volume: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	frontend, _ := startFrontend(t, nil)

	resp, err := http.Post(fmt.Sprintf("http://%s/api/status", frontend.Addr()), "application/json", nil)
	if err != nil {
		t.Fatalf("post status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d, want 405", resp.StatusCode)
	}
}
