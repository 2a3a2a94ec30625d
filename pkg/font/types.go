package font

import (
	"fmt"
	"time"
)

// Style indicates the slant variant of a font face.
type Style string

const (
	StyleNormal Style = "normal"
	StyleItalic Style = "italic"
)

// Defaults for the resolver's descriptor cache.
const (
	DefaultCacheSize = 30
	DefaultCacheTTL  = 30 * time.Minute
)

// Descriptor is a resolved font face: its identity plus the raw font
// file bytes, ready to hand to a layout engine.
type Descriptor struct {
	Family string
	Weight int
	Style  Style
	Data   []byte
}

// Key joins a font request into the cache key token, e.g. "Inter:700:normal".
func Key(family string, weight int, style Style) string {
	return fmt.Sprintf("%s:%d:%s", family, weight, style)
}
