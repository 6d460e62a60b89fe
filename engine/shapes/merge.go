package shapes

import "fmt"

// MeshRange locates one mesh's indices inside the merged index buffer.
type MeshRange struct {
	FirstIndex uint32
	IndexCount uint32
}

// OffsetTable maps every merged mesh type to its index range.
type OffsetTable map[MeshType]MeshRange

// Range returns the index range of t and panics if t was never merged.
func (o OffsetTable) Range(t MeshType) MeshRange {
	r, ok := o[t]
	if !ok {
		panic(fmt.Sprintf("shapes: mesh type %s is not part of the merged geometry", t))
	}
	return r
}

// MergedGeometry is one vertex buffer and one index buffer holding several meshes
// back to back. Indices are already re-based onto the combined vertex buffer, so
// every draw uses a base vertex of zero.
type MergedGeometry struct {
	Vertices []Vertex
	Indices  []uint16
	Offsets  OffsetTable
	Order    []MeshType
}

// MergeGeometry concatenates meshes in the given order. Each mesh's indices are
// shifted by the number of vertices appended before it.
//
// Merging a mesh type twice, or exceeding MaxVertices in total, panics.
//
// Parameters:
//   - meshes: the meshes to merge, in buffer layout order
//
// Returns:
//   - MergedGeometry: the combined buffers and the per-mesh offset table
func MergeGeometry(meshes []Mesh) MergedGeometry {
	var vertexCount, indexCount int
	for _, m := range meshes {
		vertexCount += len(m.Vertices)
		indexCount += len(m.Indices)
	}
	if vertexCount > MaxVertices {
		panic(fmt.Sprintf("shapes: merged geometry has %d vertices, more than 16-bit indices can address", vertexCount))
	}

	merged := MergedGeometry{
		Vertices: make([]Vertex, 0, vertexCount),
		Indices:  make([]uint16, 0, indexCount),
		Offsets:  make(OffsetTable, len(meshes)),
		Order:    make([]MeshType, 0, len(meshes)),
	}
	for _, m := range meshes {
		if _, dup := merged.Offsets[m.Type]; dup {
			panic(fmt.Sprintf("shapes: mesh type %s merged twice", m.Type))
		}
		base := uint16(len(merged.Vertices))
		merged.Offsets[m.Type] = MeshRange{
			FirstIndex: uint32(len(merged.Indices)),
			IndexCount: uint32(len(m.Indices)),
		}
		merged.Order = append(merged.Order, m.Type)
		merged.Vertices = append(merged.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			merged.Indices = append(merged.Indices, idx+base)
		}
	}
	return merged
}
