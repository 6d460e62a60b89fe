// package common contains common types that are used throughout the examples. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Validate checks that the pixel buffer holds exactly Width*Height RGBA texels.
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture size %dx%d is empty", t.Width, t.Height)
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return fmt.Errorf("texture %dx%d needs %d bytes of RGBA pixels, got %d", t.Width, t.Height, want, len(t.Pixels))
	}
	return nil
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to clamp-to-edge addressing and linear filtering.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// TextureSource is an image to be decoded into a texture, either from raw
// encoded bytes or from a file on disk.
type TextureSource struct {
	// Name identifies the texture in logs and errors.
	Name string

	// Path is the file path of the encoded image (ignored when Data is set).
	Path string

	// Data contains encoded image bytes (PNG/JPEG).
	Data []byte
}

// Decode decodes the texture to raw RGBA pixel data. When width and height are
// non-zero the image is scaled to that size with nearest-neighbour sampling, which
// keeps the hard texel edges of small pixel-art textures.
//
// Parameters:
//   - width, height: target size in pixels, or 0 to keep the source size
//
// Returns:
//   - TextureStagingData: RGBA pixels ready for upload
//   - error: error if reading or decoding fails
func (t TextureSource) Decode(width, height uint32) (TextureStagingData, error) {
	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image %s: %w", t.Name, err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return TextureStagingData{}, fmt.Errorf("texture %s has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	if width == 0 || height == 0 {
		width, height = uint32(bounds.Dx()), uint32(bounds.Dy())
	}

	rgba := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	if bounds.Dx() == int(width) && bounds.Dy() == int(height) {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return TextureStagingData{Pixels: rgba.Pix, Width: width, Height: height}, nil
}

// SolidTexture returns a width x height texture filled with one RGBA colour.
func SolidTexture(width, height uint32, rgba [4]uint8) TextureStagingData {
	pixels := make([]byte, 4*width*height)
	for i := 0; i < len(pixels); i += 4 {
		copy(pixels[i:i+4], rgba[:])
	}
	return TextureStagingData{Pixels: pixels, Width: width, Height: height}
}
