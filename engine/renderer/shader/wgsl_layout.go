package shader

import (
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type typeLayout struct {
	size  uint64
	align uint64
}

// Sizes and alignments from the WGSL memory layout rules.
var primitiveLayouts = map[string]typeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4},
	"vec2<f32>": {8, 8}, "vec2f": {8, 8}, "vec2<u32>": {8, 8}, "vec2u": {8, 8}, "vec2<i32>": {8, 8}, "vec2i": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16}, "vec3<u32>": {12, 16}, "vec3u": {12, 16}, "vec3<i32>": {12, 16}, "vec3i": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16}, "vec4<u32>": {16, 16}, "vec4u": {16, 16}, "vec4<i32>": {16, 16}, "vec4i": {16, 16},
	"mat3x3<f32>": {48, 16}, "mat3x3f": {48, 16},
	"mat4x4<f32>": {64, 16}, "mat4x4f": {64, 16},
}

var sampledTextureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":             wgpu.TextureViewDimension2D,
	"texture_2d_array":       wgpu.TextureViewDimension2DArray,
	"texture_cube":           wgpu.TextureViewDimensionCube,
	"texture_depth_2d":       wgpu.TextureViewDimension2D,
	"texture_depth_2d_array": wgpu.TextureViewDimension2DArray,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// resolveTypeLayout returns the layout of a primitive, a known struct or an array.
// A runtime-sized array reports the stride of one element, the smallest binding
// that is still usable.
func resolveTypeLayout(typeName string, structs map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := structs[typeName]; ok {
		return l, true
	}
	if !strings.HasPrefix(typeName, "array<") || !strings.HasSuffix(typeName, ">") {
		return typeLayout{}, false
	}

	elemName, count, sized := strings.Cut(typeName[len("array<"):len(typeName)-1], ",")
	elem, ok := resolveTypeLayout(strings.TrimSpace(elemName), structs)
	if !ok {
		return typeLayout{}, false
	}
	stride := common.AlignUp(elem.align, elem.size)
	if !sized {
		return typeLayout{stride, elem.align}, true
	}
	n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{n * stride, elem.align}, true
}

// computeStructLayouts resolves struct sizes, repeating until nested struct
// members stop resolving.
func computeStructLayouts(structs []parsedStruct) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, ps := range structs {
			if _, done := resolved[ps.name]; done {
				continue
			}
			if l, ok := structLayout(ps, resolved); ok {
				resolved[ps.name] = l
				progress = true
			}
		}
	}
	return resolved
}

func structLayout(ps parsedStruct, known map[string]typeLayout) (typeLayout, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		l, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = common.AlignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayout{common.AlignUp(maxAlign, offset), maxAlign}, true
}

// classifyResource builds the layout entry of one declared resource from its
// address space ("uniform", "storage, read") or, for handle types, its type name.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = sampledTextureDimensions[typeName]
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		entry.Texture.ViewDimension = sampledTextureDimensions[base]
		entry.Texture.SampleType = sampleTypes[strings.TrimSuffix(strings.TrimSpace(param), ">")]
	}
	return entry
}
