package dept

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"parshealth.com/triage/embed"
	"parshealth.com/triage/logger"
	"parshealth.com/triage/types"
)

// Classifier maps a free-text complaint to a department. Semantic
// matching runs first when an encoder pool is loaded; any semantic
// failure degrades to the keyword matcher, so classification itself
// never fails.
type Classifier struct {
	taxonomy   types.Taxonomy
	semantic   *semanticMatcher
	parsLogger *zerolog.Logger
}

// minComplaintLen guards against inputs too short to carry any signal.
const minComplaintLen = 3

func NewClassifier(taxonomy types.Taxonomy, pool []*embed.Encoder, bucketSeconds int64) (*Classifier, error) {
	parsLogger := logger.NewLogger("Department classifier")

	var semantic *semanticMatcher
	if len(pool) > 0 {
		var err error
		semantic, err = newSemanticMatcher(taxonomy, pool, bucketSeconds)
		if err != nil {
			return nil, err
		}
		parsLogger.Info().Int("pool_size", len(pool)).Msg("Semantic matching enabled")
	} else {
		parsLogger.Warn().Msg("No encoders loaded, keyword matching only")
	}

	return &Classifier{
		taxonomy:   taxonomy,
		semantic:   semantic,
		parsLogger: &parsLogger,
	}, nil
}

// Classify resolves the department for a complaint at the given time.
// The timestamp only matters for encoder rotation; within one rotation
// window the same text always yields the same department.
func (c *Classifier) Classify(complaint string, now time.Time) types.Department {
	complaint = strings.ToLower(strings.TrimSpace(complaint))
	if len(complaint) < minComplaintLen {
		return types.DefaultDepartment
	}

	if c.semantic != nil {
		outcome := c.semantic.match(complaint, now)
		if outcome.OK() {
			c.parsLogger.Debug().
				Str("department", string(outcome.Department)).
				Str("encoder", outcome.Encoder).
				Float64("similarity", outcome.Similarity).
				Msg("Semantic match")
			return outcome.Department
		}
		c.parsLogger.Warn().
			Err(outcome.Err).
			Str("encoder", outcome.Encoder).
			Msg("Semantic match failed, falling back to keywords")
	}

	return matchKeywords(c.taxonomy, complaint)
}
