package decoder

import "errors"

// ErrMissingURL is returned for feed items without link, which identifies a listing.
var ErrMissingURL = errors.New("listing has no link")
