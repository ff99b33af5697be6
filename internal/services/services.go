// package services defines the TrackService interface for remote track
// metadata lookups and its Spotify implementation.
package services

import (
	"context"

	"github.com/desertthunder/tfx/internal/report"
)

// FetchOpts controls the optional sub-steps of a fetch run.
type FetchOpts struct {
	// Features requests audio features for retrieved tracks. Lookup failure
	// degrades to reports without the audio_features block; it never fails
	// the track.
	Features bool
	// Similar discovers related tracks through the artist's top tracks and
	// album catalog.
	Similar bool
}

// TrackService fetches metadata for batches of track IDs.
type TrackService interface {
	// Fetch returns one result per input ID, in input order. Per-ID failures
	// are recorded in the result; the batch itself never aborts.
	Fetch(ctx context.Context, ids []string, opts FetchOpts) []report.TrackResult

	// Name returns the name of the backing service (e.g. "Spotify").
	Name() string
}
