package doctors

import (
	"context"
	"errors"

	"parshealth.com/triage/types"
)

// UnavailableStore stands in when the roster database cannot be
// reached at startup. Every lookup fails, which the referral resolver
// turns into its placeholder entry, so triage keeps answering.
type UnavailableStore struct{}

var errStoreUnavailable = errors.New("doctor store is unavailable")

func (UnavailableStore) ByDepartment(ctx context.Context, department types.Department) ([]types.Doctor, error) {
	return nil, errStoreUnavailable
}

func (UnavailableStore) Close() {}
