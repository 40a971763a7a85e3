package asset

import "errors"

var (
	ErrRecordNotFound = errors.New("asset record not found")
	ErrDatabaseError  = errors.New("database error")
)
