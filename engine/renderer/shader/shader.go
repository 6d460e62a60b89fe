package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

// Visibility returns the shader stage flag matching the shader type.
func (t ShaderType) Visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames     map[int]map[int]string
	vertexLayouts    []wgpu.VertexBufferLayout
}

// Shader is a WGSL shader stage together with the layout information reflected
// from its source: entry point, vertex buffer layouts and bind group layouts.
type Shader interface {
	// Key retrieves the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// ShaderType returns the stage the shader was loaded for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the name of the entry point function for the shader's stage.
	//
	// Returns:
	//   - string: the entry point name, or empty if the source has none
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor holding the WGSL code
	Module() *wgpu.ShaderModuleDescriptor

	// BindGroupLayoutDescriptor retrieves the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves every reflected bind group layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: layouts keyed by @group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindingName returns the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or empty if nothing is declared there
	BindingName(group, binding int) string

	// BindingFromName returns the binding index of a named resource variable.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	BindingFromName(group int, name string) (int, bool)

	// VertexLayouts returns one vertex buffer layout per vertex input struct,
	// in declaration order. Buffer slot i uses layout i.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader loads a WGSL file and reflects it for the given stage. A file may
// hold both stages; load it once per stage. Panics if the file cannot be read,
// matching how the renderer treats missing pipeline assets.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - sourcePath: the file path to read WGSL source from
//
// Returns:
//   - Shader: the reflected shader
func NewShader(key string, shaderType ShaderType, sourcePath string) Shader {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to read source file %q: %v", sourcePath, err))
	}
	return NewShaderFromSource(key, shaderType, string(data))
}

// NewShaderFromSource reflects WGSL source held in memory.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the reflected shader
func NewShaderFromSource(key string, shaderType ShaderType, source string) Shader {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)

	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		entryPoint: parseEntryPoint(cleaned, shaderType),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(structs)
	}
	s.bindGroupLayouts, s.bindingNames = parseBindGroupLayouts(cleaned, structs, shaderType.Visibility())
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[group][binding]
}

func (s *shader) BindingFromName(group int, name string) (int, bool) {
	for binding, n := range s.bindingNames[group] {
		if n == name {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

// MergeBindGroupLayouts combines the bind group layouts of several stages of one
// pipeline. Bindings declared by more than one stage get the union of their
// visibilities; entries of each group are sorted by binding index.
//
// Parameters:
//   - shaders: the pipeline's shader stages
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group index
func MergeBindGroupLayouts(shaders ...Shader) map[int]wgpu.BindGroupLayoutDescriptor {
	groups := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, s := range shaders {
		if s == nil {
			continue
		}
		for g, desc := range s.BindGroupLayoutDescriptors() {
			if groups[g] == nil {
				groups[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if existing, ok := groups[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					groups[g][e.Binding] = existing
					continue
				}
				groups[g][e.Binding] = e
			}
		}
	}

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: sortedEntries(entries)}
	}
	return merged
}
