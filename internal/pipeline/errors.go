package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrPropertyVanished is returned when property found by url is gone before it's updated.
	ErrPropertyVanished  = errors.New("property no longer exists")
	// ErrEmptyScrapeResult is reported when scraper returns neither result nor error.
	ErrEmptyScrapeResult = errors.New("empty result")
)

type translationPanicError struct {
	value any
}

func (e *translationPanicError) Error() string {
	return fmt.Sprintf("translation panicked: %v", e.value)
}
