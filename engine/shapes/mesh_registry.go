package shapes

import "fmt"

type meshRegistryImpl struct {
	order     []MeshType
	meshes    map[MeshType]Mesh
	generator map[MeshType][]GeneratorOption
}

// MeshRegistry owns the generated mesh of every registered mesh type and knows
// where each one lands in the merged index buffer. Offsets are always computed
// by walking the registry's explicit order.
type MeshRegistry interface {
	// Order returns the mesh types in buffer layout order.
	//
	// Returns:
	//   - []MeshType: a copy of the layout order
	Order() []MeshType

	// Mesh returns the mesh registered for t.
	//
	// Parameters:
	//   - t: the mesh type
	//
	// Returns:
	//   - Mesh: the registered mesh
	//   - bool: false if t is not registered
	Mesh(t MeshType) (Mesh, bool)

	// IndexCount returns the number of indices of the mesh registered for t.
	// Panics if t is not registered.
	//
	// Parameters:
	//   - t: the mesh type
	//
	// Returns:
	//   - uint32: the index count
	IndexCount(t MeshType) uint32

	// IndexOffset returns the first index of t within the merged index buffer:
	// the sum of the index counts of every mesh type ordered before it.
	// Panics if t is not registered.
	//
	// Parameters:
	//   - t: the mesh type
	//
	// Returns:
	//   - uint32: the first index of t
	IndexOffset(t MeshType) uint32

	// Offsets returns the index range of every registered mesh type.
	//
	// Returns:
	//   - OffsetTable: first index and index count per mesh type
	Offsets() OffsetTable

	// Merge concatenates the registered meshes in layout order.
	//
	// Returns:
	//   - MergedGeometry: the combined vertex and index buffers
	Merge() MergedGeometry
}

var _ MeshRegistry = &meshRegistryImpl{}

// NewMeshRegistry generates every mesh of the registry's order. By default the
// order is AllMeshTypes() with default tessellation.
//
// Parameters:
//   - options: optional MeshRegistryBuilderOption values
//
// Returns:
//   - MeshRegistry: the populated registry
func NewMeshRegistry(options ...MeshRegistryBuilderOption) MeshRegistry {
	r := &meshRegistryImpl{
		order:     AllMeshTypes(),
		meshes:    make(map[MeshType]Mesh),
		generator: make(map[MeshType][]GeneratorOption),
	}
	for _, opt := range options {
		opt(r)
	}

	seen := make(map[MeshType]bool, len(r.order))
	for _, t := range r.order {
		if seen[t] {
			panic(fmt.Sprintf("shapes: mesh type %s listed twice in registry order", t))
		}
		seen[t] = true
		if _, ok := r.meshes[t]; !ok {
			r.meshes[t] = GenerateMesh(t, r.generator[t]...)
		}
	}
	for t := range r.meshes {
		if !seen[t] {
			delete(r.meshes, t)
		}
	}
	return r
}

func (r *meshRegistryImpl) Order() []MeshType {
	out := make([]MeshType, len(r.order))
	copy(out, r.order)
	return out
}

func (r *meshRegistryImpl) Mesh(t MeshType) (Mesh, bool) {
	m, ok := r.meshes[t]
	return m, ok
}

func (r *meshRegistryImpl) IndexCount(t MeshType) uint32 {
	m, ok := r.meshes[t]
	if !ok {
		panic(fmt.Sprintf("shapes: mesh type %s is not registered", t))
	}
	return m.IndexCount()
}

func (r *meshRegistryImpl) IndexOffset(t MeshType) uint32 {
	var offset uint32
	for _, o := range r.order {
		if o == t {
			return offset
		}
		offset += r.meshes[o].IndexCount()
	}
	panic(fmt.Sprintf("shapes: mesh type %s is not registered", t))
}

func (r *meshRegistryImpl) Offsets() OffsetTable {
	table := make(OffsetTable, len(r.order))
	var offset uint32
	for _, t := range r.order {
		count := r.meshes[t].IndexCount()
		table[t] = MeshRange{FirstIndex: offset, IndexCount: count}
		offset += count
	}
	return table
}

func (r *meshRegistryImpl) Merge() MergedGeometry {
	meshes := make([]Mesh, len(r.order))
	for i, t := range r.order {
		meshes[i] = r.meshes[t]
	}
	return MergeGeometry(meshes)
}
