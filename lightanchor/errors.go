package lightanchor

import "github.com/pkg/errors"

var (
	// ErrBufferCapacity is returned when brightness buffer can't be allocated with requested capacity
	ErrBufferCapacity = errors.New("brightness buffer capacity must be positive")
	// ErrCodeWidth is returned when registered code does not fit into matcher's logical width
	ErrCodeWidth = errors.New("code does not fit into code width")
	// ErrCodeCollision is returned when registered code is indistinguishable from already registered one
	ErrCodeCollision = errors.New("code collides with already registered code")
	// ErrEmptyCodeTable is returned when there is no code to recognize
	ErrEmptyCodeTable = errors.New("code table is empty")
	// ErrBadOptions is returned when tracker options are inconsistent
	ErrBadOptions = errors.New("bad tracker options")
)
