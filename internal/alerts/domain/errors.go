package alerts

import "errors"

// ErrNilAlert is returned when a nil alert is appended.
var ErrNilAlert = errors.New("alert: nil alert")
