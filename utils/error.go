package utils

import "errors"

// ErrorRecordNotFound is the not-found sentinel surfaced to handlers; they map
// it to a 404 instead of logging it as a failure.
var ErrorRecordNotFound = errors.New("record not found")
