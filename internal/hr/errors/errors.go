package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrInvalidEnum  = fmt.Errorf("invalid enum value")
	ErrUnavailable  = fmt.Errorf("store not available")
)
