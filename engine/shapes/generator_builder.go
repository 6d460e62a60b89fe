package shapes

// GeneratorOption configures the tessellation used by GenerateMesh.
type GeneratorOption func(*generatorConfig)

// WithSegments sets the number of radial segments of cylinders and sectors of spheres.
//
// Parameters:
//   - n: the segment count, at least 3
//
// Returns:
//   - GeneratorOption: a function that sets the segment count
func WithSegments(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.segments = n
	}
}

// WithRings sets the number of stacks of spheres.
//
// Parameters:
//   - n: the stack count, at least 2
//
// Returns:
//   - GeneratorOption: a function that sets the stack count
func WithRings(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.rings = n
	}
}
