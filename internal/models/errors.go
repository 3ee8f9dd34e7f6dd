package models

import "errors"

// ErrNotFound is returned by providers when an account does not exist
var ErrNotFound = errors.New("not found")
