package translation

import "errors"

// ErrEmptyTranslation is returned when provider answers without translated text.
var ErrEmptyTranslation = errors.New("provider returned empty translation")
