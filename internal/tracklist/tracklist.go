// package tracklist resolves CLI input into an ordered list of track IDs.
package tracklist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/tfx/internal/shared"
)

// MaxTracks is the largest accepted input list. It matches the batch limit of
// the track lookup endpoint so a single API call covers the whole run.
// Larger inputs are rejected rather than truncated: silently dropping IDs
// would discard user intent.
const MaxTracks = 100

// Resolve parses source as either a path to a newline-delimited ID file or a
// comma-separated ID string, returning an ordered, deduplicated list of track
// IDs. Returns an error wrapping [shared.ErrInvalidInput] when the file is
// unreadable, no IDs remain after trimming, or the list exceeds [MaxTracks].
func Resolve(source string) ([]string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty input", shared.ErrInvalidInput)
	}

	var raw []string
	var err error

	if info, statErr := os.Stat(source); statErr == nil && !info.IsDir() {
		raw, err = readLines(source)
		if err != nil {
			return nil, err
		}
	} else {
		raw = strings.Split(source, ",")
	}

	ids := Dedupe(raw)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidInput, shared.ErrNoTracks)
	}
	if len(ids) > MaxTracks {
		return nil, fmt.Errorf("%w: %s: got %d, maximum is %d",
			shared.ErrInvalidInput, shared.ErrTooManyTracks, len(ids), MaxTracks)
	}

	return ids, nil
}

// Dedupe trims and normalizes raw entries, drops blanks, and removes
// duplicates while preserving first-seen order.
func Dedupe(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))

	for _, entry := range raw {
		id := Normalize(entry)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// Normalize trims whitespace and reduces Spotify URIs
// (spotify:track:<id>) and share URLs (open.spotify.com/track/<id>) to the
// bare track ID.
func Normalize(entry string) string {
	id := strings.TrimSpace(entry)

	if strings.Contains(id, "open.spotify.com/track/") {
		_, rest, _ := strings.Cut(id, "open.spotify.com/track/")
		id = rest
		if i := strings.IndexAny(id, "?#"); i >= 0 {
			id = id[:i]
		}
	}

	if strings.Contains(id, ":") {
		parts := strings.Split(id, ":")
		id = parts[len(parts)-1]
	}

	return strings.TrimSpace(id)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrInvalidInput, path, err)
	}

	return lines, nil
}
