package dashboard

import "errors"

// ErrRefreshThrottled indicates a refresh arrived before the minimum interval.
var ErrRefreshThrottled = errors.New("refresh throttled")
