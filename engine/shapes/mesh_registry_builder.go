package shapes

type MeshRegistryBuilderOption func(*meshRegistryImpl)

// WithMeshOrder sets the mesh types held by the registry and their buffer layout order.
//
// Parameters:
//   - types: the mesh types in layout order
//
// Returns:
//   - MeshRegistryBuilderOption: a function that sets the layout order
func WithMeshOrder(types ...MeshType) MeshRegistryBuilderOption {
	return func(r *meshRegistryImpl) {
		r.order = append([]MeshType(nil), types...)
	}
}

// WithGeneratorOptions sets the tessellation options used to generate one mesh type.
//
// Parameters:
//   - t: the mesh type
//   - options: the GeneratorOption values passed to GenerateMesh
//
// Returns:
//   - MeshRegistryBuilderOption: a function that stores the generator options
func WithGeneratorOptions(t MeshType, options ...GeneratorOption) MeshRegistryBuilderOption {
	return func(r *meshRegistryImpl) {
		r.generator[t] = options
	}
}

// WithTessellation applies the same tessellation options to every generated mesh.
//
// Parameters:
//   - options: the GeneratorOption values passed to GenerateMesh
//
// Returns:
//   - MeshRegistryBuilderOption: a function that stores the generator options
func WithTessellation(options ...GeneratorOption) MeshRegistryBuilderOption {
	return func(r *meshRegistryImpl) {
		for _, t := range AllMeshTypes() {
			r.generator[t] = options
		}
	}
}

// WithMesh registers pre-built geometry for a mesh type instead of generating it.
// The mesh is validated and panics if any index is out of range.
//
// Parameters:
//   - m: the mesh to register
//
// Returns:
//   - MeshRegistryBuilderOption: a function that registers the mesh
func WithMesh(m Mesh) MeshRegistryBuilderOption {
	return func(r *meshRegistryImpl) {
		if err := ValidateMesh(m); err != nil {
			panic("shapes: " + err.Error())
		}
		r.meshes[m.Type] = m
	}
}
