package font

import "errors"

var (
	// ErrNoFamily is returned when a resolve request has an empty family name.
	ErrNoFamily = errors.New("font: family name required")

	// ErrNoFontSource is returned when the provider stylesheet contains no src url.
	ErrNoFontSource = errors.New("font: stylesheet contains no font source")
)
