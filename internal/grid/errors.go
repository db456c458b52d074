package grid

import "errors"

// Grid errors. Geometry failures leave the board untouched; callers match them
// with errors.Is.
var (
	ErrParse         = errors.New("malformed grid span")
	ErrOutOfBounds   = errors.New("rectangle outside grid bounds")
	ErrCollision     = errors.New("rectangle overlaps another item")
	ErrNoFreeSlot    = errors.New("no free slot in grid")
	ErrItemNotFound  = errors.New("item not found")
	ErrDuplicateID   = errors.New("duplicate item id")
	ErrInvalidConfig = errors.New("invalid grid config")
	ErrInvalidEvent  = errors.New("malformed drag event")
	ErrGestureActive = errors.New("another gesture is active")
	ErrNoGesture     = errors.New("no active gesture")
)
