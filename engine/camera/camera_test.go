package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraTargetProjectsToCenter(t *testing.T) {
	c := NewCamera(
		WithEye([3]float32{5, -11, 3}),
		WithTarget([3]float32{1.5, 0, 0}),
		WithUp([3]float32{0, 0, 1}),
		WithFovDegrees(45),
		WithAspect(4.0/3.0),
		WithDepthRange(1, 20),
	)

	target := c.Target()
	clip := common.MulVec4(c.ViewProjectionMatrix(), [4]float32{target[0], target[1], target[2], 1})
	require.Greater(t, clip[3], float32(0))
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)

	depth := clip[2] / clip[3]
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))
}

func TestCameraUpIsScreenUp(t *testing.T) {
	c := NewCamera(
		WithEye([3]float32{1.5, -5, 3}),
		WithUp([3]float32{0, 0, 1}),
		WithDepthRange(1, 10),
	)

	above := common.MulVec4(c.ViewProjectionMatrix(), [4]float32{0, 0, 1, 1})
	assert.Greater(t, above[1]/above[3], float32(0))
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()

	c.SetAspect(2)
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	c.SetAspect(0)
	assert.Equal(t, float32(2), c.Aspect())
}

func TestCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithEye([3]float32{1, 2, 3}))
	u := c.Uniform()
	buf := u.Marshal()

	require.Len(t, buf, GPUCameraUniformSize)
	assert.Equal(t, c.ViewProjectionMatrix(), common.Mat4(u.ViewProj))
	for i, want := range []float32{1, 2, 3} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[64+i*4:]))
		assert.Equal(t, want, got)
	}
}

func TestCameraUniformMatchesWGSLLayout(t *testing.T) {
	src := GPUCameraUniformWGSL + `
@group(0) @binding(0) var<uniform> camera: Camera;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(camera.position, 1.0);
}`
	s := shader.NewShaderFromSource("camera_layout", shader.ShaderTypeVertex, src)
	entries := s.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(GPUCameraUniformSize), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, "camera", s.BindingName(0, 0))
}

func TestCameraProvidersAreDistinct(t *testing.T) {
	a := NewCamera()
	b := NewCamera()
	assert.NotEqual(t, a.BindGroupProvider().Label(), b.BindGroupProvider().Label())
	assert.Equal(t, 0, a.BindGroupProvider().Group())
}
