package template

import "errors"

var (
	// ErrTemplateNotFound indicates the template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInvalidInput indicates invalid template input.
	ErrInvalidInput = errors.New("invalid template input")
)
