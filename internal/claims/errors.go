package claims

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid claim")
	// ErrSameImageResubmitted rejects a resubmission carrying the image the
	// claim already has, or the first image it ever carried.
	ErrSameImageResubmitted = errors.New("resubmitted image matches previous evidence")
	// ErrNotAwaitingInfo rejects a resubmission on a claim that is not in the
	// more_info_requested state.
	ErrNotAwaitingInfo = errors.New("claim is not awaiting more information")
)
