package builtin

import "github.com/ambarahq/ambara/filter"

// All returns one fresh instance of every built-in filter, in catalog
// order. Filter instances are immutable and stateless, so callers may
// share these across many graph nodes.
func All() []filter.Filter {
	return []filter.Filter{
		NewLoad(),
		NewSave(),
		NewGrayscale(),
		NewBrightness(),
		NewGaussianBlur(),
		NewResize(),
	}
}
