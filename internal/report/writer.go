package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tfx/internal/shared"
)

// DefaultBaseName is used when the input was a comma-separated argument
// rather than a file.
const DefaultBaseName = "trackinfo.json"

// BaseName derives the report filename from the input source: a file input
// echoes its stem with a .json extension, anything else uses
// [DefaultBaseName].
func BaseName(source string) string {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return stem + ".json"
	}
	return DefaultBaseName
}

// Write serializes the report as indented UTF-8 JSON at base, resolving name
// collisions by appending an incrementing numeric suffix (out.json →
// out_1.json) so an existing report is never overwritten. The document is
// written to a temporary file in the target directory and renamed into
// place, so a crash mid-write cannot leave a truncated report behind.
// Returns the path actually written.
func Write(rep *Report, base string) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}
	data = append(data, '\n')

	path, err := availablePath(base)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tfx-*.json")
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}

	return path, nil
}

// availablePath returns base if free, otherwise the first suffixed variant
// (stem_1.json, stem_2.json, ...) that does not exist yet.
func availablePath(base string) (string, error) {
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for counter := 1; counter < 10000; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: no free filename for %s", shared.ErrWriteFailed, base)
}
