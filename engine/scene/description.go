package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/camera"
	"github.com/Carmen-Shannon/oxy-examples/engine/shapes"
	"gopkg.in/yaml.v3"
)

//go:embed assets/default_scene.yaml
var defaultSceneYAML []byte

// ShadingMode selects how the GPU driven scene colours its instances.
type ShadingMode string

const (
	// ShadingTexture samples the texture array layer given by the instance material.
	ShadingTexture ShadingMode = "texture"
	// ShadingColor uses the per-instance palette colour buffer.
	ShadingColor ShadingMode = "color"
)

// DrawMode selects how the indirect descriptors are submitted.
type DrawMode string

const (
	// DrawModeSingle submits every descriptor from one indirect buffer.
	DrawModeSingle DrawMode = "single"
	// DrawModePerTexture keeps one indirect buffer per texture type.
	DrawModePerTexture DrawMode = "per_texture"
)

// CameraDescription is the look-at camera of a scene file.
type CameraDescription struct {
	Eye        [3]float32 `yaml:"eye"`
	Target     [3]float32 `yaml:"target"`
	Up         [3]float32 `yaml:"up"`
	FovDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// Options converts the description into camera builder options.
func (c CameraDescription) Options() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithEye(c.Eye),
		camera.WithTarget(c.Target),
		camera.WithUp(c.Up),
		camera.WithFovDegrees(c.FovDegrees),
		camera.WithDepthRange(c.Near, c.Far),
	}
}

// Tessellation sets the generator resolution of the round meshes.
type Tessellation struct {
	Segments int `yaml:"segments"`
	Rings    int `yaml:"rings"`
}

// TransformDescription is a translation, Euler rotation in degrees and scale.
// A missing scale means 1 on every axis.
type TransformDescription struct {
	Translation     [3]float32  `yaml:"translation"`
	RotationDegrees [3]float32  `yaml:"rotation_degrees"`
	Scale           *[3]float32 `yaml:"scale"`
}

// Matrix returns the column-major model matrix of the transform.
func (t TransformDescription) Matrix() [16]float32 {
	scale := [3]float32{1, 1, 1}
	if t.Scale != nil {
		scale = *t.Scale
	}
	rot := [3]float32{
		common.Radians(t.RotationDegrees[0]),
		common.Radians(t.RotationDegrees[1]),
		common.Radians(t.RotationDegrees[2]),
	}
	return common.ModelMatrix(t.Translation, rot, scale)
}

// BatchDescription pre-declares a batch and its instances.
type BatchDescription struct {
	Mesh       string                 `yaml:"mesh"`
	Texture    string                 `yaml:"texture"`
	Transforms []TransformDescription `yaml:"transforms"`
}

// ObjectDescription is one object of the flat object list.
type ObjectDescription struct {
	Mesh                 string `yaml:"mesh"`
	Texture              string `yaml:"texture"`
	TransformDescription `yaml:",inline"`
}

// Description is a scene file: a camera, shading options and the objects to draw,
// given as pre-declared batches, a flat object list or both.
type Description struct {
	Title        string              `yaml:"title"`
	Camera       CameraDescription   `yaml:"camera"`
	Shading      ShadingMode         `yaml:"shading"`
	DrawMode     DrawMode            `yaml:"draw_mode"`
	Tessellation Tessellation        `yaml:"tessellation"`
	Declared     []BatchDescription  `yaml:"batches"`
	Objects      []ObjectDescription `yaml:"objects"`
}

// ParseDescription decodes a YAML scene, fills defaults and validates it.
// Defaults: Z up, 45 degree field of view, texture shading, single draw mode and
// the generator's default tessellation.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Description: the parsed scene
//   - error: a decode or validation error
func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode scene description: %w", err)
	}
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDescription reads and parses a YAML scene file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Description: the parsed scene
//   - error: a read, decode or validation error
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene description %s: %w", path, err)
	}
	d, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// DefaultDescription returns the built-in scene: two blue cubes at x=3 and x=-3, a red
// cylinder at the origin and a yellow sphere at x=6.
func DefaultDescription() *Description {
	d, err := ParseDescription(defaultSceneYAML)
	if err != nil {
		panic(fmt.Sprintf("scene: embedded default description is invalid: %v", err))
	}
	return d
}

func (d *Description) applyDefaults() {
	if d.Camera.Up == ([3]float32{}) {
		d.Camera.Up = [3]float32{0, 0, 1}
	}
	if d.Camera.FovDegrees == 0 {
		d.Camera.FovDegrees = 45
	}
	if d.Shading == "" {
		d.Shading = ShadingTexture
	}
	if d.DrawMode == "" {
		d.DrawMode = DrawModeSingle
	}
	if d.Tessellation.Segments == 0 {
		d.Tessellation.Segments = shapes.DefaultSegments
	}
	if d.Tessellation.Rings == 0 {
		d.Tessellation.Rings = shapes.DefaultRings
	}
}

// Validate checks names, modes, the camera depth range and the tessellation.
//
// Returns:
//   - error: every problem found, joined
func (d *Description) Validate() error {
	var errs []error

	if d.Camera.Near <= 0 {
		errs = append(errs, fmt.Errorf("camera near %v must be positive", d.Camera.Near))
	}
	if d.Camera.Far <= d.Camera.Near {
		errs = append(errs, fmt.Errorf("camera far %v must exceed near %v", d.Camera.Far, d.Camera.Near))
	}
	if d.Camera.Eye == d.Camera.Target {
		errs = append(errs, errors.New("camera eye and target coincide"))
	}
	switch d.Shading {
	case ShadingTexture, ShadingColor:
	default:
		errs = append(errs, fmt.Errorf("unknown shading %q", d.Shading))
	}
	switch d.DrawMode {
	case DrawModeSingle, DrawModePerTexture:
	default:
		errs = append(errs, fmt.Errorf("unknown draw mode %q", d.DrawMode))
	}
	if d.Tessellation.Segments < 3 {
		errs = append(errs, fmt.Errorf("tessellation segments %d must be at least 3", d.Tessellation.Segments))
	}
	if d.Tessellation.Rings < 2 {
		errs = append(errs, fmt.Errorf("tessellation rings %d must be at least 2", d.Tessellation.Rings))
	}
	if n := d.vertexCount(); n > shapes.MaxVertices {
		errs = append(errs, fmt.Errorf("tessellation %dx%d needs %d merged vertices, at most %d fit 16-bit indices",
			d.Tessellation.Segments, d.Tessellation.Rings, n, shapes.MaxVertices))
	}

	for i, b := range d.Declared {
		if _, err := parseKey(b.Mesh, b.Texture); err != nil {
			errs = append(errs, fmt.Errorf("batch %d: %w", i, err))
		}
	}
	for i, o := range d.Objects {
		if _, err := parseKey(o.Mesh, o.Texture); err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid scene description: %w", err)
	}
	return nil
}

// vertexCount is the merged vertex count of every mesh type at this tessellation.
func (d *Description) vertexCount() int {
	total := 0
	for _, t := range shapes.AllMeshTypes() {
		total += shapes.VertexCount(t, d.GeneratorOptions()...)
	}
	return total
}

func parseKey(mesh, texture string) (shapes.BatchKey, error) {
	m, err := shapes.ParseMeshType(mesh)
	if err != nil {
		return shapes.BatchKey{}, err
	}
	t, err := shapes.ParseTextureType(texture)
	if err != nil {
		return shapes.BatchKey{}, err
	}
	return shapes.BatchKey{Mesh: m, Texture: t}, nil
}

// GeneratorOptions returns the generator options matching the tessellation.
func (d *Description) GeneratorOptions() []shapes.GeneratorOption {
	return []shapes.GeneratorOption{
		shapes.WithSegments(d.Tessellation.Segments),
		shapes.WithRings(d.Tessellation.Rings),
	}
}

// SceneObjects converts the flat object list.
//
// Returns:
//   - []shapes.SceneObject: the objects in file order
//   - error: an unknown mesh or texture name
func (d *Description) SceneObjects() ([]shapes.SceneObject, error) {
	objects := make([]shapes.SceneObject, 0, len(d.Objects))
	for i, o := range d.Objects {
		key, err := parseKey(o.Mesh, o.Texture)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objects = append(objects, shapes.SceneObject{Mesh: key.Mesh, Texture: key.Texture, Transform: o.Matrix()})
	}
	return objects, nil
}

// Batches builds the ordered batch list. Pre-declared batches come first, in file
// order, and are checked by shapes.NewBatches. Objects then join the batch with their
// key, or open new batches in first-seen order. Without pre-declared batches the
// objects are grouped by shapes.GroupIntoBatches.
//
// Returns:
//   - []shapes.Batch: the batches in draw order
//   - error: an unknown name or a duplicate pre-declared batch
func (d *Description) Batches() ([]shapes.Batch, error) {
	objects, err := d.SceneObjects()
	if err != nil {
		return nil, err
	}
	if len(d.Declared) == 0 {
		return shapes.GroupIntoBatches(objects), nil
	}

	declared := make([]shapes.Batch, 0, len(d.Declared))
	for i, b := range d.Declared {
		key, err := parseKey(b.Mesh, b.Texture)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		transforms := make([][16]float32, len(b.Transforms))
		for j, t := range b.Transforms {
			transforms[j] = t.Matrix()
		}
		declared = append(declared, shapes.Batch{Mesh: key.Mesh, Texture: key.Texture, Transforms: transforms})
	}

	batches, err := shapes.NewBatches(declared...)
	if err != nil {
		return nil, fmt.Errorf("invalid batches: %w", err)
	}

	index := make(map[shapes.BatchKey]int, len(batches))
	for i, b := range batches {
		index[b.Key()] = i
	}
	for _, g := range shapes.GroupIntoBatches(objects) {
		if i, ok := index[g.Key()]; ok {
			batches[i].Transforms = append(batches[i].Transforms, g.Transforms...)
			continue
		}
		batches = append(batches, g)
	}
	return batches, nil
}
