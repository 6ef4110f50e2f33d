package firmware

import (
	"errors"
	"fmt"
)

// ErrImageTooShort is matched by ImageTooShortError via errors.Is.
var ErrImageTooShort = errors.New("firmware image too short")

// ImageTooShortError reports an input that cannot hold a vector table header.
type ImageTooShortError struct {
	// Size is the length of the rejected image in bytes
	Size int
}

func (e *ImageTooShortError) Error() string {
	return fmt.Sprintf("firmware image is %d bytes; at least %d are needed for a vector table",
		e.Size, VectorHeaderSize)
}

func (e *ImageTooShortError) Is(target error) bool {
	return target == ErrImageTooShort
}
