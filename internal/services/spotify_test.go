package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/tfx/internal/report"
	"github.com/desertthunder/tfx/internal/shared"
)

// catalog is a stub Spotify API backing the tests: known tracks resolve,
// everything else comes back null per the real API's batch behavior.
type catalog struct {
	tracks       map[string]string // id -> name
	featuresFail bool
	requests     []string
}

func (c *catalog) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.requests = append(c.requests, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/tracks":
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			entries := make([]string, len(ids))
			for i, id := range ids {
				if name, ok := c.tracks[id]; ok {
					entries[i] = fmt.Sprintf(`{"id":%q,"name":%q,"artists":[{"id":"art1","name":"Artist One"}],"album":{"id":"alb1","name":"Album","release_date":"2020-01-01","total_tracks":10},"duration_ms":200000,"explicit":false,"popularity":50,"track_number":1,"disc_number":1}`, id, name)
				} else {
					entries[i] = "null"
				}
			}
			fmt.Fprintf(w, `{"tracks":[%s]}`, strings.Join(entries, ","))

		case r.URL.Path == "/audio-features":
			if c.featuresFail {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"error":{"status":403,"message":"audio features deprecated"}}`)
				return
			}
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			entries := make([]string, len(ids))
			for i, id := range ids {
				if _, ok := c.tracks[id]; ok {
					entries[i] = fmt.Sprintf(`{"id":%q,"danceability":0.5,"energy":0.6,"key":7,"loudness":-6.1,"mode":1,"speechiness":0.03,"acousticness":0.2,"instrumentalness":0.0,"liveness":0.1,"valence":0.4,"tempo":118.5,"duration_ms":200000,"time_signature":4}`, id)
				} else {
					entries[i] = "null"
				}
			}
			fmt.Fprintf(w, `{"audio_features":[%s]}`, strings.Join(entries, ","))

		case strings.HasSuffix(r.URL.Path, "/top-tracks"):
			fmt.Fprint(w, `{"tracks":[{"id":"top1","name":"Hit One","artists":[{"id":"art1","name":"Artist One"}],"popularity":80},{"id":"top2","name":"Hit Two","artists":[{"id":"art1","name":"Artist One"}],"popularity":75}]}`)

		case strings.HasPrefix(r.URL.Path, "/albums/") && strings.HasSuffix(r.URL.Path, "/tracks"):
			fmt.Fprint(w, `{"items":[{"id":"alb-track1","name":"Album Cut","artists":[{"id":"art1","name":"Artist One"}]}]}`)

		case strings.HasPrefix(r.URL.Path, "/artists/") && strings.HasSuffix(r.URL.Path, "/albums"):
			fmt.Fprint(w, `{"items":[{"id":"alb2","name":"Other Album"}]}`)

		case strings.HasPrefix(r.URL.Path, "/tracks/"):
			id := strings.TrimPrefix(r.URL.Path, "/tracks/")
			fmt.Fprintf(w, `{"id":%q,"name":"Single","artists":[{"id":"art1","name":"Artist One"}],"popularity":42}`, id)

		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"not found"}}`)
		}
	})
}

func newTestService(t *testing.T, c *catalog) *SpotifyService {
	t.Helper()
	srv := httptest.NewServer(c.handler())
	t.Cleanup(srv.Close)
	return NewSpotifyService(SpotifyOpts{
		Token:   "test-token",
		BaseURL: srv.URL,
		Logger:  shared.NewLogger(nil),
	})
}

func TestSeveralTracks(t *testing.T) {
	t.Run("returns tracks in request order with nulls for unknown IDs", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"good": "Song"}})

		tracks, err := svc.SeveralTracks(context.Background(), []string{"bad", "good"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(tracks))
		}
		if tracks[0] != nil {
			t.Error("expected nil entry for unknown ID")
		}
		if tracks[1] == nil || tracks[1].Name != "Song" {
			t.Errorf("expected Song, got %+v", tracks[1])
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		svc := newTestService(t, &catalog{})
		if _, err := svc.SeveralTracks(context.Background(), nil); err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		svc := newTestService(t, &catalog{})
		ids := make([]string, BatchLimit+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("id%d", i)
		}
		if _, err := svc.SeveralTracks(context.Background(), ids); err == nil {
			t.Error("expected error for oversized batch")
		}
	})

	t.Run("surfaces API error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"status":401,"message":"The access token expired"}}`)
		}))
		defer srv.Close()

		svc := NewSpotifyService(SpotifyOpts{Token: "t", BaseURL: srv.URL})
		_, err := svc.SeveralTracks(context.Background(), []string{"x"})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "The access token expired") {
			t.Errorf("expected API message in error, got %v", err)
		}
	})

	t.Run("sends bearer token", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"tracks":[null]}`)
		}))
		defer srv.Close()

		svc := NewSpotifyService(SpotifyOpts{Token: "secret-token", BaseURL: srv.URL})
		if _, err := svc.SeveralTracks(context.Background(), []string{"x"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "Bearer secret-token" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})
}

func TestFetch(t *testing.T) {
	t.Run("mixed batch preserves order and records per-ID outcomes", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"Y": "Valid Song"}})

		results := svc.Fetch(context.Background(), []string{"X", "Y"}, FetchOpts{})

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].TrackID != "X" || results[0].Status != report.StatusFailed {
			t.Errorf("expected X failed, got %+v", results[0])
		}
		if results[0].Error == "" {
			t.Error("expected human-readable error for failed track")
		}
		if results[1].TrackID != "Y" || results[1].Status != report.StatusRetrieved {
			t.Errorf("expected Y retrieved, got %+v", results[1])
		}
		if results[1].Name != "Valid Song" {
			t.Errorf("expected name populated, got %q", results[1].Name)
		}
		if len(results[1].Artists) != 1 || results[1].Artists[0] != "Artist One" {
			t.Errorf("expected artists populated, got %v", results[1].Artists)
		}
	})

	t.Run("populates album and track details", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"Y": "Valid Song"}})

		results := svc.Fetch(context.Background(), []string{"Y"}, FetchOpts{})

		if results[0].Album == nil || results[0].Album.Name != "Album" {
			t.Errorf("expected album populated, got %+v", results[0].Album)
		}
		if results[0].Details == nil || results[0].Details.DurationMS != 200000 {
			t.Errorf("expected details populated, got %+v", results[0].Details)
		}
	})

	t.Run("attaches audio features to retrieved tracks", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"Y": "Valid Song"}})

		results := svc.Fetch(context.Background(), []string{"X", "Y"}, FetchOpts{Features: true})

		if results[0].AudioFeatures != nil {
			t.Error("failed track must not carry audio features")
		}
		if results[1].AudioFeatures == nil {
			t.Fatal("expected audio features on retrieved track")
		}
		if results[1].AudioFeatures.Tempo != 118.5 {
			t.Errorf("expected tempo 118.5, got %v", results[1].AudioFeatures.Tempo)
		}
	})

	t.Run("feature endpoint failure degrades without failing tracks", func(t *testing.T) {
		svc := newTestService(t, &catalog{
			tracks:       map[string]string{"Y": "Valid Song"},
			featuresFail: true,
		})

		results := svc.Fetch(context.Background(), []string{"Y"}, FetchOpts{Features: true})

		if results[0].Status != report.StatusRetrieved {
			t.Errorf("expected retrieved despite feature failure, got %s", results[0].Status)
		}
		if results[0].AudioFeatures != nil {
			t.Error("expected audio features omitted on endpoint failure")
		}
		if results[0].Error != "" {
			t.Errorf("expected no error on track, got %q", results[0].Error)
		}
	})

	t.Run("batch call failure marks every ID failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		svc := NewSpotifyService(SpotifyOpts{Token: "t", BaseURL: srv.URL})
		results := svc.Fetch(context.Background(), []string{"a", "b"}, FetchOpts{})

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		for _, r := range results {
			if r.Status != report.StatusFailed || r.Error == "" {
				t.Errorf("expected failed with message, got %+v", r)
			}
		}
	})

	t.Run("discovers similar tracks when requested", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"Y": "Valid Song"}})

		results := svc.Fetch(context.Background(), []string{"Y"}, FetchOpts{Similar: true})

		if len(results[0].SimilarTracks) == 0 {
			t.Fatal("expected similar tracks")
		}

		sources := map[string]bool{}
		for _, s := range results[0].SimilarTracks {
			sources[s.Source] = true
			if s.ID == "Y" {
				t.Error("similar tracks must exclude the original")
			}
		}
		for _, want := range []string{"artist_top_tracks", "same_album", "other_album"} {
			if !sources[want] {
				t.Errorf("expected a %s suggestion", want)
			}
		}
	})
}

func TestAudioFeatures(t *testing.T) {
	t.Run("maps features by track ID", func(t *testing.T) {
		svc := newTestService(t, &catalog{tracks: map[string]string{"a": "A", "b": "B"}})

		features, err := svc.AudioFeatures(context.Background(), []string{"a", "missing", "b"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(features) != 2 {
			t.Errorf("expected 2 feature blocks, got %d", len(features))
		}
		if _, ok := features["missing"]; ok {
			t.Error("unknown ID must not appear in feature map")
		}
	})

	t.Run("empty input short-circuits", func(t *testing.T) {
		svc := NewSpotifyService(SpotifyOpts{Token: "t", BaseURL: "http://127.0.0.1:0"})
		features, err := svc.AudioFeatures(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(features) != 0 {
			t.Errorf("expected empty map, got %v", features)
		}
	})
}
