package insight

import "errors"

var (
	// ErrNotFound means no data category knows the parcel identifier.
	// Terminal; retrying will not help.
	ErrNotFound = errors.New("insight: property not found")

	// ErrDataUnavailable means every category fetch failed for reasons
	// other than missing data, e.g. the warehouse is unreachable.
	// Terminal for this request; safe to retry later.
	ErrDataUnavailable = errors.New("insight: property data unavailable")
)
