package font

import "context"

// Default is the process-wide resolver shared by everything that does
// not construct its own. It is built once with the documented defaults
// and is never recreated.
var Default = NewResolver(Config{})

// Resolve resolves a face through the Default resolver.
func Resolve(ctx context.Context, family string, weight int, style Style) (Descriptor, error) {
	return Default.Resolve(ctx, family, weight, style)
}

// ResetCache clears the Default resolver's descriptor cache. Intended
// for test isolation.
func ResetCache() {
	Default.ClearCache()
}
