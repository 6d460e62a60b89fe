package shapes

import (
	"fmt"
	"strings"
)

// MeshType identifies one of the procedurally generated meshes.
type MeshType uint8

const (
	MeshTypeCube MeshType = iota
	MeshTypeCylinder
	MeshTypeSphere
)

var meshTypeNames = [...]string{
	MeshTypeCube:     "cube",
	MeshTypeCylinder: "cylinder",
	MeshTypeSphere:   "sphere",
}

// AllMeshTypes returns every mesh type in the canonical buffer layout order.
// The merged index buffer is always laid out in this order unless a registry is
// given an explicit order of its own.
//
// Returns:
//   - []MeshType: cube, cylinder, sphere
func AllMeshTypes() []MeshType {
	return []MeshType{MeshTypeCube, MeshTypeCylinder, MeshTypeSphere}
}

// Valid reports whether m is one of the declared mesh types.
func (m MeshType) Valid() bool {
	return int(m) < len(meshTypeNames)
}

func (m MeshType) String() string {
	if !m.Valid() {
		return fmt.Sprintf("MeshType(%d)", uint8(m))
	}
	return meshTypeNames[m]
}

// ParseMeshType converts a case-insensitive mesh name into a MeshType.
//
// Parameters:
//   - s: the mesh name, e.g. "cube"
//
// Returns:
//   - MeshType: the parsed mesh type
//   - error: error if the name is not a known mesh type
func ParseMeshType(s string) (MeshType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range meshTypeNames {
		if n == name {
			return MeshType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mesh type %q", s)
}

// TextureType identifies the material an instance is shaded with.
// Its ID doubles as the layer index in the texture array.
type TextureType uint8

const (
	TextureTypeBlue TextureType = iota
	TextureTypeRed
	TextureTypeYellow
	TextureTypeWater
	TextureTypeGrass
)

var textureTypeNames = [...]string{
	TextureTypeBlue:   "blue",
	TextureTypeRed:    "red",
	TextureTypeYellow: "yellow",
	TextureTypeWater:  "water",
	TextureTypeGrass:  "grass",
}

var textureTypeColors = [...][4]uint8{
	TextureTypeBlue:   {0, 0, 255, 255},
	TextureTypeRed:    {255, 0, 0, 255},
	TextureTypeYellow: {255, 255, 0, 255},
	TextureTypeWater:  {1, 41, 95, 255},
	TextureTypeGrass:  {52, 140, 49, 255},
}

// AllTextureTypes returns every texture type ordered by ID.
//
// Returns:
//   - []TextureType: blue, red, yellow, water, grass
func AllTextureTypes() []TextureType {
	return []TextureType{TextureTypeBlue, TextureTypeRed, TextureTypeYellow, TextureTypeWater, TextureTypeGrass}
}

// Valid reports whether t is one of the declared texture types.
func (t TextureType) Valid() bool {
	return int(t) < len(textureTypeNames)
}

// ID returns the material code uploaded to the GPU for this texture type.
func (t TextureType) ID() uint32 {
	return uint32(t)
}

// RGBA returns the flat palette colour of the texture type as 8-bit channels.
func (t TextureType) RGBA() [4]uint8 {
	if !t.Valid() {
		panic(fmt.Sprintf("shapes: unknown texture type %d", uint8(t)))
	}
	return textureTypeColors[t]
}

// Color returns the flat palette colour of the texture type normalised to [0, 1].
func (t TextureType) Color() [4]float32 {
	c := t.RGBA()
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

func (t TextureType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TextureType(%d)", uint8(t))
	}
	return textureTypeNames[t]
}

// ParseTextureType converts a case-insensitive texture name into a TextureType.
//
// Parameters:
//   - s: the texture name, e.g. "water"
//
// Returns:
//   - TextureType: the parsed texture type
//   - error: error if the name is not a known texture type
func ParseTextureType(s string) (TextureType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range textureTypeNames {
		if n == name {
			return TextureType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown texture type %q", s)
}
