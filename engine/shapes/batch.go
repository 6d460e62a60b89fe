package shapes

import "fmt"

// SceneObject is one drawable instance: a mesh, a material and a column-major
// model matrix.
type SceneObject struct {
	Mesh      MeshType
	Texture   TextureType
	Transform [16]float32
}

// BatchKey identifies the batch an object belongs to.
type BatchKey struct {
	Mesh    MeshType
	Texture TextureType
}

// Batch holds every instance sharing one mesh and one material. The position of
// a transform in Transforms is its instance index within the batch.
type Batch struct {
	Mesh       MeshType
	Texture    TextureType
	Transforms [][16]float32
}

// Key returns the (mesh, texture) pair identifying the batch.
func (b Batch) Key() BatchKey {
	return BatchKey{Mesh: b.Mesh, Texture: b.Texture}
}

// InstanceCount returns the number of instances in the batch.
func (b Batch) InstanceCount() uint32 {
	return uint32(len(b.Transforms))
}

// GroupIntoBatches groups objects by (mesh, texture). Batches appear in the order
// their key is first seen and keep their objects in input order.
// An object with an unknown mesh or texture type panics.
//
// Parameters:
//   - objects: the scene objects to group
//
// Returns:
//   - []Batch: the batches in first-seen order
func GroupIntoBatches(objects []SceneObject) []Batch {
	var batches []Batch
	index := make(map[BatchKey]int)
	for _, o := range objects {
		if !o.Mesh.Valid() || !o.Texture.Valid() {
			panic(fmt.Sprintf("shapes: object with unknown mesh %s or texture %s", o.Mesh, o.Texture))
		}
		key := BatchKey{Mesh: o.Mesh, Texture: o.Texture}
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, Batch{Mesh: o.Mesh, Texture: o.Texture})
		}
		batches[i].Transforms = append(batches[i].Transforms, o.Transform)
	}
	return batches
}

// NewBatches accepts batches declared directly by the caller. Transforms are
// copied so later changes to the caller's slices do not leak into the batches.
//
// Parameters:
//   - batches: the declared batches, in emission order
//
// Returns:
//   - []Batch: the validated batches
//   - error: error if a key repeats or a mesh or texture type is unknown
func NewBatches(batches ...Batch) ([]Batch, error) {
	seen := make(map[BatchKey]bool, len(batches))
	out := make([]Batch, 0, len(batches))
	for i, b := range batches {
		if !b.Mesh.Valid() {
			return nil, fmt.Errorf("batch %d: unknown mesh type %s", i, b.Mesh)
		}
		if !b.Texture.Valid() {
			return nil, fmt.Errorf("batch %d: unknown texture type %s", i, b.Texture)
		}
		if seen[b.Key()] {
			return nil, fmt.Errorf("batch %d: duplicate batch for %s/%s", i, b.Mesh, b.Texture)
		}
		seen[b.Key()] = true
		out = append(out, Batch{
			Mesh:       b.Mesh,
			Texture:    b.Texture,
			Transforms: append([][16]float32(nil), b.Transforms...),
		})
	}
	return out, nil
}

// ObjectsFromBatches flattens batches back into scene objects in instance order.
//
// Parameters:
//   - batches: the batches to flatten
//
// Returns:
//   - []SceneObject: one object per instance
func ObjectsFromBatches(batches []Batch) []SceneObject {
	objects := make([]SceneObject, 0, InstanceCount(batches))
	for _, b := range batches {
		for _, t := range b.Transforms {
			objects = append(objects, SceneObject{Mesh: b.Mesh, Texture: b.Texture, Transform: t})
		}
	}
	return objects
}

// InstanceCount returns the total number of instances across all batches.
func InstanceCount(batches []Batch) int {
	var n int
	for _, b := range batches {
		n += len(b.Transforms)
	}
	return n
}

// NonEmpty returns the batches that hold at least one instance, in order.
func NonEmpty(batches []Batch) []Batch {
	out := make([]Batch, 0, len(batches))
	for _, b := range batches {
		if len(b.Transforms) > 0 {
			out = append(out, b)
		}
	}
	return out
}
