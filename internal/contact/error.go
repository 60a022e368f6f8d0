package contact

import "errors"

var (
	ErrMissingField    = errors.New("required field missing")
	ErrMessageNotFound = errors.New("message not found")
)
