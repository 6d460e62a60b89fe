package shapes

// MaterialStride is the number of u32 values stored per instance in the material
// array: the instance's transform index followed by its texture id.
const MaterialStride = 2

// PackInstanceData flattens the batches into the per-instance storage buffers.
// Both arrays are filled in one pass over batches then transforms, so instance k
// of the transform array and instance k of the material array always describe
// the same object.
//
// Parameters:
//   - batches: the batches in emission order
//
// Returns:
//   - []float32: 16 floats per instance, column-major
//   - []uint32: MaterialStride values per instance (transform index, texture id)
func PackInstanceData(batches []Batch) ([]float32, []uint32) {
	n := InstanceCount(batches)
	transforms := make([]float32, 0, 16*n)
	materials := make([]uint32, 0, MaterialStride*n)
	var k uint32
	for _, b := range batches {
		id := b.Texture.ID()
		for _, t := range b.Transforms {
			transforms = append(transforms, t[:]...)
			materials = append(materials, k, id)
			k++
		}
	}
	return transforms, materials
}

// PackInstanceColors returns the palette colour of every instance, co-indexed with
// the transform array of PackInstanceData. Used when shading with flat colours
// instead of textures.
//
// Parameters:
//   - batches: the batches in emission order
//
// Returns:
//   - []float32: 4 floats (RGBA) per instance
func PackInstanceColors(batches []Batch) []float32 {
	colors := make([]float32, 0, 4*InstanceCount(batches))
	for _, b := range batches {
		c := b.Texture.Color()
		for range b.Transforms {
			colors = append(colors, c[:]...)
		}
	}
	return colors
}
