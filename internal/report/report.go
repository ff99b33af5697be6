// package report defines the output document written at the end of a fetch
// run and its collision-safe file writer.
package report

// Track result status values.
const (
	StatusRetrieved = "retrieved"
	StatusFailed    = "failed"
)

// Report is the top-level output document. TrackCount always equals
// len(Tracks), and Tracks preserves the order of the deduplicated input IDs.
type Report struct {
	TrackCount int           `json:"track_count"`
	Tracks     []TrackResult `json:"tracks"`
}

// New builds a Report from results, setting TrackCount from the slice length.
func New(tracks []TrackResult) *Report {
	return &Report{TrackCount: len(tracks), Tracks: tracks}
}

// TrackResult records the outcome for a single input ID. Either the metadata
// fields (status "retrieved") or Error (status "failed") are populated,
// never both. AudioFeatures is optional even on success: the upstream
// endpoint is deprecated and its absence must not fail the track.
type TrackResult struct {
	TrackID       string         `json:"track_id"`
	ActualTrackID string         `json:"actual_track_id,omitempty"`
	Status        string         `json:"status"`
	Name          string         `json:"name,omitempty"`
	Artists       []string       `json:"artists,omitempty"`
	Album         *Album         `json:"album,omitempty"`
	Details       *TrackDetails  `json:"track_details,omitempty"`
	AudioFeatures *AudioFeatures `json:"audio_features,omitempty"`
	SimilarTracks []SimilarTrack `json:"similar_tracks,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Retrieved constructs a successful result shell for the given input ID.
func Retrieved(trackID string) TrackResult {
	return TrackResult{TrackID: trackID, Status: StatusRetrieved}
}

// Failed constructs a failed result carrying a human-readable error.
func Failed(trackID, errMsg string) TrackResult {
	return TrackResult{TrackID: trackID, Status: StatusFailed, Error: errMsg}
}

// Album carries album metadata for a retrieved track.
type Album struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date,omitempty"`
	TotalTracks int    `json:"total_tracks,omitempty"`
}

// TrackDetails carries secondary track metadata.
type TrackDetails struct {
	DurationMS  int    `json:"duration_ms"`
	Explicit    bool   `json:"explicit"`
	Popularity  int    `json:"popularity"`
	PreviewURL  string `json:"preview_url,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`
}

// AudioFeatures is the fixed set of numeric descriptors from the
// audio-features endpoint.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	DurationMS       int     `json:"duration_ms"`
	TimeSignature    int     `json:"time_signature"`
}

// SimilarTrack is a related-track suggestion discovered through the artist's
// top tracks and album catalog.
type SimilarTrack struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Popularity int      `json:"popularity"`
	Source     string   `json:"source"`
}
