package material

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-examples/common"
	"github.com/Carmen-Shannon/oxy-examples/engine/shapes"
)

// DefaultLayerSize is the edge length in texels of each layer when no size is configured.
const DefaultLayerSize = 8

// textureSet is the implementation of the TextureSet interface.
type textureSet struct {
	width, height uint32
	workers       int
	sources       map[shapes.TextureType]common.TextureSource

	layers []common.TextureStagingData
}

// TextureSet is the surface material of the textured examples: one equally sized RGBA
// layer per shapes.TextureType, stored so that layer i belongs to the texture whose
// ID is i. It is uploaded with Renderer.InitTextureArray and sampled from a
// texture_2d_array using the material index of each instance.
type TextureSet interface {
	// Layers returns every layer in TextureType.ID order.
	//
	// Returns:
	//   - []common.TextureStagingData: the layers ready for upload
	Layers() []common.TextureStagingData

	// Layer returns the pixels of one texture.
	//
	// Parameters:
	//   - t: the texture type
	//
	// Returns:
	//   - common.TextureStagingData: the layer of t
	Layer(t shapes.TextureType) common.TextureStagingData

	// Size returns the common layer size in texels.
	Size() (uint32, uint32)
}

var _ TextureSet = &textureSet{}

// newWorkerPool builds the decode pool. It is a variable so tests can wrap the pool.
var newWorkerPool = worker.NewDynamicWorkerPool

// NewTextureSet builds a layer for every texture type. Layers with a configured image
// are decoded and scaled to the layer size on a worker pool; the others are filled
// with the texture's palette colour.
//
// Parameters:
//   - options: a variadic list of TextureSetBuilderOption functions
//
// Returns:
//   - TextureSet: the loaded layers
//   - error: every decode failure joined together, or nil
func NewTextureSet(options ...TextureSetBuilderOption) (TextureSet, error) {
	ts := &textureSet{
		width:   DefaultLayerSize,
		height:  DefaultLayerSize,
		workers: 4,
		sources: make(map[shapes.TextureType]common.TextureSource),
	}
	for _, opt := range options {
		opt(ts)
	}
	if ts.width == 0 || ts.height == 0 {
		return nil, fmt.Errorf("texture set layer size %dx%d is empty", ts.width, ts.height)
	}

	types := shapes.AllTextureTypes()
	ts.layers = make([]common.TextureStagingData, len(types))
	errs := make([]error, len(types))

	pool := newWorkerPool(ts.workers, len(types), 1*time.Second)
	defer pool.Stop()
	var wg sync.WaitGroup
	for _, t := range types {
		wg.Add(1)
		tCap := t
		pool.SubmitTask(worker.Task{
			ID: int(tCap.ID()),
			Do: func() (any, error) {
				defer wg.Done()
				// Each task owns exactly one slot, so completion order cannot reorder layers.
				ts.layers[tCap.ID()], errs[tCap.ID()] = ts.loadLayer(tCap)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	log.Printf("[Material] loaded %d texture layers at %dx%d", len(ts.layers), ts.width, ts.height)
	return ts, nil
}

func (ts *textureSet) loadLayer(t shapes.TextureType) (common.TextureStagingData, error) {
	src, ok := ts.sources[t]
	if !ok {
		return common.SolidTexture(ts.width, ts.height, t.RGBA()), nil
	}
	if src.Name == "" {
		src.Name = t.String()
	}
	data, err := src.Decode(ts.width, ts.height)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("texture %s: %w", t, err)
	}
	return data, nil
}

func (ts *textureSet) Layers() []common.TextureStagingData {
	out := make([]common.TextureStagingData, len(ts.layers))
	copy(out, ts.layers)
	return out
}

func (ts *textureSet) Layer(t shapes.TextureType) common.TextureStagingData {
	return ts.layers[t.ID()]
}

func (ts *textureSet) Size() (uint32, uint32) {
	return ts.width, ts.height
}
