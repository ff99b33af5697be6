// Spotify API implementation of [TrackService]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tfx/internal/report"
	"github.com/desertthunder/tfx/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// BatchLimit is the largest ID list accepted by the batched track endpoint.
const BatchLimit = 100

// SpotifyArtist represents a Spotify artist reference on a track.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	Popularity  int             `json:"popularity"`
	PreviewURL  string          `json:"preview_url"`
	TrackNumber int             `json:"track_number"`
	DiscNumber  int             `json:"disc_number"`
}

// spotifyAudioFeatures pairs the feature block with the track it belongs to.
type spotifyAudioFeatures struct {
	ID string `json:"id"`
	report.AudioFeatures
}

// SpotifyService implements [TrackService] against the Spotify Web API using
// a bearer token obtained from the auth provider.
type SpotifyService struct {
	baseURL string
	client  *http.Client
	token   string
	market  string
	logger  *log.Logger
}

// SpotifyOpts contains configuration options for creating a [SpotifyService].
type SpotifyOpts struct {
	Token      string
	HTTPClient *http.Client
	Logger     *log.Logger

	// BaseURL overrides the API base URL, for tests.
	BaseURL string
	// Market scopes lookups to a country catalog. Defaults to US.
	Market string
}

// NewSpotifyService creates a Spotify service around an access token.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Market == "" {
		opts.Market = "US"
	}

	return &SpotifyService{
		baseURL: opts.BaseURL,
		client:  opts.HTTPClient,
		token:   opts.Token,
		market:  opts.Market,
		logger:  opts.Logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the API and decodes the
// JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Status  int    `json:"status"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SeveralTracks retrieves up to [BatchLimit] tracks in one call. The response
// preserves request order; unknown IDs come back as nil entries.
func (s *SpotifyService) SeveralTracks(ctx context.Context, trackIDs []string) ([]*SpotifyTrack, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("no track IDs provided")
	}
	if len(trackIDs) > BatchLimit {
		return nil, fmt.Errorf("maximum %d track IDs allowed", BatchLimit)
	}

	endpoint := fmt.Sprintf("/tracks?ids=%s&market=%s",
		url.QueryEscape(strings.Join(trackIDs, ",")), s.market)

	var response struct {
		Tracks []*SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Tracks, nil
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s?market=%s", trackID, s.market)
	if err := s.doRequest(ctx, endpoint, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// AudioFeatures retrieves feature blocks for up to [BatchLimit] tracks.
// Unknown IDs come back as nil entries. The endpoint is deprecated upstream,
// so callers must treat any error here as a degradation, not a failure.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]*report.AudioFeatures, error) {
	if len(trackIDs) == 0 {
		return map[string]*report.AudioFeatures{}, nil
	}
	if len(trackIDs) > BatchLimit {
		return nil, fmt.Errorf("maximum %d track IDs allowed", BatchLimit)
	}

	endpoint := fmt.Sprintf("/audio-features?ids=%s",
		url.QueryEscape(strings.Join(trackIDs, ",")))

	var response struct {
		AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	features := make(map[string]*report.AudioFeatures, len(response.AudioFeatures))
	for _, f := range response.AudioFeatures {
		if f == nil {
			continue
		}
		af := f.AudioFeatures
		features[f.ID] = &af
	}

	return features, nil
}

// ArtistTopTracks retrieves an artist's most popular tracks.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID string) ([]*SpotifyTrack, error) {
	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", artistID, s.market)

	var response struct {
		Tracks []*SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Tracks, nil
}

// AlbumTracks retrieves the simplified track listing of an album.
func (s *SpotifyService) AlbumTracks(ctx context.Context, albumID string, limit int) ([]*SpotifyTrack, error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d&market=%s", albumID, limit, s.market)

	var response struct {
		Items []*SpotifyTrack `json:"items"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// ArtistAlbums retrieves an artist's albums and singles.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, artistID string, limit int) ([]*SpotifyAlbum, error) {
	endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=album,single&limit=%d&market=%s",
		artistID, limit, s.market)

	var response struct {
		Items []*SpotifyAlbum `json:"items"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// Fetch implements [TrackService]. One batched lookup covers the whole input
// list; each ID maps to exactly one result in input order. A failed ID is
// recorded and the batch continues.
func (s *SpotifyService) Fetch(ctx context.Context, ids []string, opts FetchOpts) []report.TrackResult {
	results := make([]report.TrackResult, len(ids))

	tracks, err := s.SeveralTracks(ctx, ids)
	if err != nil {
		s.logger.Warnf("batch track lookup failed: %v", err)
		for i, id := range ids {
			results[i] = report.Failed(id, err.Error())
		}
		return results
	}

	for i, id := range ids {
		var track *SpotifyTrack
		if i < len(tracks) {
			track = tracks[i]
		}
		if track == nil {
			results[i] = report.Failed(id, shared.ErrTrackNotFound.Error())
			continue
		}

		result := report.Retrieved(id)
		result.ActualTrackID = track.ID
		result.Name = track.Name
		result.Artists = artistNames(track.Artists)
		result.Album = &report.Album{
			Name:        track.Album.Name,
			ReleaseDate: track.Album.ReleaseDate,
			TotalTracks: track.Album.TotalTracks,
		}
		result.Details = &report.TrackDetails{
			DurationMS:  track.DurationMS,
			Explicit:    track.Explicit,
			Popularity:  track.Popularity,
			PreviewURL:  track.PreviewURL,
			TrackNumber: track.TrackNumber,
			DiscNumber:  track.DiscNumber,
		}
		results[i] = result
	}

	if opts.Features {
		s.attachFeatures(ctx, results)
	}
	if opts.Similar {
		s.attachSimilar(ctx, tracks, results)
	}

	return results
}

// attachFeatures populates audio_features on retrieved results. Any failure
// is logged and swallowed so a deprecated or unavailable endpoint never
// demotes a successful metadata lookup.
func (s *SpotifyService) attachFeatures(ctx context.Context, results []report.TrackResult) {
	var ids []string
	for _, r := range results {
		if r.Status == report.StatusRetrieved && r.ActualTrackID != "" {
			ids = append(ids, r.ActualTrackID)
		}
	}
	if len(ids) == 0 {
		return
	}

	features, err := s.AudioFeatures(ctx, ids)
	if err != nil {
		s.logger.Warnf("audio features unavailable, omitting: %v", err)
		return
	}

	for i := range results {
		if results[i].Status != report.StatusRetrieved {
			continue
		}
		if f, ok := features[results[i].ActualTrackID]; ok {
			results[i].AudioFeatures = f
		}
	}
}

// attachSimilar populates similar_tracks on retrieved results. Failures
// degrade per-track to an absent block.
func (s *SpotifyService) attachSimilar(ctx context.Context, tracks []*SpotifyTrack, results []report.TrackResult) {
	for i := range results {
		if results[i].Status != report.StatusRetrieved || i >= len(tracks) || tracks[i] == nil {
			continue
		}
		similar, err := s.SimilarTracks(ctx, tracks[i])
		if err != nil {
			s.logger.Warnf("similar track discovery failed for %s: %v", results[i].TrackID, err)
			continue
		}
		results[i].SimilarTracks = similar
	}
}

// SimilarTracks discovers related tracks for a retrieved track: the primary
// artist's top tracks, other tracks on the same album, and one track from
// each of the artist's other recent albums.
func (s *SpotifyService) SimilarTracks(ctx context.Context, track *SpotifyTrack) ([]report.SimilarTrack, error) {
	if len(track.Artists) == 0 {
		return nil, nil
	}
	artistID := track.Artists[0].ID

	var similar []report.SimilarTrack

	top, err := s.ArtistTopTracks(ctx, artistID)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, t := range top {
		if t == nil || t.ID == track.ID || count >= 3 {
			continue
		}
		similar = append(similar, toSimilar(t, "artist_top_tracks"))
		count++
	}

	albumTracks, err := s.AlbumTracks(ctx, track.Album.ID, 10)
	if err != nil {
		s.logger.Debugf("album track lookup failed for %s: %v", track.Album.ID, err)
	} else {
		count = 0
		for _, t := range albumTracks {
			if t == nil || t.ID == track.ID || count >= 2 {
				continue
			}
			// Simplified album tracks carry no popularity; fill it in from
			// the full track object when available.
			if full, err := s.Track(ctx, t.ID); err == nil {
				t.Popularity = full.Popularity
			}
			similar = append(similar, toSimilar(t, "same_album"))
			count++
		}
	}

	albums, err := s.ArtistAlbums(ctx, artistID, 2)
	if err != nil {
		s.logger.Debugf("artist album lookup failed for %s: %v", artistID, err)
		return similar, nil
	}
	for _, album := range albums {
		if album == nil || album.ID == track.Album.ID {
			continue
		}
		tracks, err := s.AlbumTracks(ctx, album.ID, 1)
		if err != nil || len(tracks) == 0 || tracks[0] == nil {
			continue
		}
		t := tracks[0]
		if full, err := s.Track(ctx, t.ID); err == nil {
			t.Popularity = full.Popularity
		}
		similar = append(similar, toSimilar(t, "other_album"))
	}

	return similar, nil
}

func toSimilar(t *SpotifyTrack, source string) report.SimilarTrack {
	return report.SimilarTrack{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    artistNames(t.Artists),
		Popularity: t.Popularity,
		Source:     source,
	}
}

func artistNames(artists []SpotifyArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}
