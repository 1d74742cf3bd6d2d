package activity

import "errors"

// ErrInvalidInput indicates an activity entry missing its actor or action.
var ErrInvalidInput = errors.New("invalid activity input")
