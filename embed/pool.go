package embed

import (
	"io/ioutil"
	"path"
	"sort"
	"strings"
	"time"

	"parshealth.com/triage/logger"
)

// LoadPool reads every *.json encoder artifact in dirPath, in file
// name order so the pool ordering is stable across restarts. Artifacts
// that fail to load are skipped with a logged error; an empty pool is
// a valid (degraded) outcome, not an error.
func LoadPool(dirPath string) ([]*Encoder, error) {
	parsLogger := logger.NewLogger("Embedding pool")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	pool := make([]*Encoder, 0, len(names))
	for _, name := range names {
		filePath := path.Join(dirPath, name)
		encoder, err := LoadEncoder(filePath)
		if err != nil {
			parsLogger.Err(err).Str("file_path", filePath).Msg("Failed to load encoder artifact, skipping")
			continue
		}
		parsLogger.Info().
			Str("encoder", encoder.Name).
			Int("dim", encoder.Dim).
			Msg("Loaded encoder artifact")
		pool = append(pool, encoder)
	}
	return pool, nil
}

// DefaultBucketSeconds is the rotation window: one encoder serves all
// requests for twenty minutes before the pool advances.
const DefaultBucketSeconds = 1200

// ActiveIndex selects the pool member serving requests at the given
// time. Pure function of its arguments: the same timestamp always
// yields the same index, so classification is deterministic within a
// rotation window.
func ActiveIndex(poolSize int, bucketSeconds int64, now time.Time) int {
	if poolSize <= 0 {
		return -1
	}
	if bucketSeconds <= 0 {
		bucketSeconds = DefaultBucketSeconds
	}
	bucket := now.Unix() / bucketSeconds
	return int(bucket % int64(poolSize))
}
