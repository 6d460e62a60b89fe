package camera

import (
	"encoding/binary"
	"math"
)

// GPUCameraUniformSize is the byte size of GPUCameraUniform and of the WGSL struct it mirrors.
const GPUCameraUniformSize = 80

// GPUCameraUniformWGSL is the WGSL declaration matching GPUCameraUniform.
const GPUCameraUniformWGSL = `struct Camera {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
    _pad: f32,
};`

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space eye position (vec3<f32>)
	_pad           float32     // offset 76: padding to 80 bytes
}

// Marshal serializes the uniform into little-endian bytes ready for a queue write.
//
// Returns:
//   - []byte: the 80-byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
