package scraper

import "errors"

// ErrUnknownSite is returned when no feed is registered for a site.
var ErrUnknownSite = errors.New("unknown site")
