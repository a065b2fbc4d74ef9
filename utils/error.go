package utils

import "errors"

// ErrorRecordNotFound covers both missing rows and tenant mismatches: a
// document that belongs to another store is indistinguishable from one that
// does not exist.
var ErrorRecordNotFound = errors.New("record not found")

// DuplicateValueError reports a value that collides with an existing row on a
// unique column.
type DuplicateValueError struct {
	Column string
}

func (e *DuplicateValueError) Error() string {
	return "duplicate " + e.Column
}
