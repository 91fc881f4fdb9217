package battle

import "errors"

// ErrInvalidProfile reports a missing profile, missing attribute data, or
// attribute key sets that differ between the two competitors.
var ErrInvalidProfile = errors.New("invalid profile")
