package postprocess

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-examples/engine/renderer"
)

// Chain runs a sequence of effects over an offscreen scene image. Intermediate images
// alternate between two render targets and the last effect writes the window surface.
type Chain interface {
	// SceneTarget returns the target the scene is rendered into before Resolve.
	SceneTarget() renderer.RenderTarget

	// Effects returns the effects in the order they run.
	Effects() []Effect

	// Resolve encodes every effect pass into the current frame. Call it between
	// BeginFrame and EndFrame, after the scene has been drawn into SceneTarget.
	//
	// Returns:
	//   - error: the first error encountered
	Resolve() error

	// Resize recreates the scene and intermediate targets at the new size and rebinds
	// every effect to them.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: an error if a target or bind group could not be recreated
	Resize(width, height int) error

	// Release frees the effects and every target, including the scene target.
	Release()
}

// chain is the implementation of the Chain interface.
type chain struct {
	r           renderer.Renderer
	scene       renderer.RenderTarget
	effects     []Effect
	targets     []renderer.RenderTarget
	inputs      []int
	outputs     []int
	sceneTarget string
}

var _ Chain = &chain{}

// NewChain creates a Chain that takes ownership of sceneTarget. When the last effect is
// not a FinalSample one is appended so the result always reaches the surface through a
// plain copy.
//
// Parameters:
//   - r: the renderer owning the GPU device
//   - sceneTarget: the offscreen target the scene is drawn into
//   - effects: the effects in the order they run
//
// Returns:
//   - Chain: the initialized chain
//   - error: an error if a target or effect could not be initialized
func NewChain(r renderer.Renderer, sceneTarget renderer.RenderTarget, effects ...Effect) (Chain, error) {
	if sceneTarget == nil {
		return nil, errors.New("postprocess: scene target is required")
	}
	c := &chain{
		r:           r,
		scene:       sceneTarget,
		effects:     withFinalSample(effects),
		sceneTarget: sceneTarget.Label(),
	}
	c.inputs, c.outputs = pingPong(len(c.effects))

	w, h := sceneTarget.Size()
	if err := c.build(w, h); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// withFinalSample returns effects with a FinalSample appended when the last effect is not one.
func withFinalSample(effects []Effect) []Effect {
	out := make([]Effect, 0, len(effects)+1)
	out = append(out, effects...)
	if len(out) == 0 || out[len(out)-1].Type() != EffectFinalSample {
		out = append(out, NewFinalSample())
	}
	return out
}

// pingPong assigns each of n effects an input and an output slot. Slot -1 is the scene
// target for inputs and the surface for outputs; slots 0 and 1 are the two
// intermediate targets, alternated so no effect reads the image it writes.
func pingPong(n int) (inputs, outputs []int) {
	inputs = make([]int, n)
	outputs = make([]int, n)
	for i := 0; i < n; i++ {
		inputs[i] = -1
		if i > 0 {
			inputs[i] = outputs[i-1]
		}
		outputs[i] = i % 2
		if i == n-1 {
			outputs[i] = -1
		}
	}
	return inputs, outputs
}

// intermediateCount returns how many intermediate targets n effects need.
func intermediateCount(n int) int {
	return min(n-1, 2)
}

func (c *chain) build(width, height int) error {
	for i := 0; i < intermediateCount(len(c.effects)); i++ {
		target, err := c.r.CreateRenderTarget(fmt.Sprintf("postprocess %d", i), width, height)
		if err != nil {
			return fmt.Errorf("postprocess target %d: %w", i, err)
		}
		c.targets = append(c.targets, target)
	}
	for i, e := range c.effects {
		if err := e.Init(c.r, c.slot(c.inputs[i], c.scene)); err != nil {
			return fmt.Errorf("postprocess effect %d: %w", i, err)
		}
	}
	return nil
}

// slot resolves a ping-pong slot, returning fallback for -1.
func (c *chain) slot(i int, fallback renderer.RenderTarget) renderer.RenderTarget {
	if i < 0 {
		return fallback
	}
	return c.targets[i]
}

func (c *chain) SceneTarget() renderer.RenderTarget {
	return c.scene
}

func (c *chain) Effects() []Effect {
	return c.effects
}

func (c *chain) Resolve() error {
	for i, e := range c.effects {
		if err := e.Resolve(c.r, c.slot(c.outputs[i], nil)); err != nil {
			return fmt.Errorf("postprocess effect %d: %w", i, err)
		}
	}
	return nil
}

func (c *chain) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	scene, err := c.r.CreateRenderTarget(c.sceneTarget, width, height)
	if err != nil {
		return fmt.Errorf("postprocess scene target: %w", err)
	}
	c.releaseTargets()
	c.scene = scene
	if err := c.build(width, height); err != nil {
		return err
	}
	log.Printf("[PostProcess] resized %d effects to %dx%d", len(c.effects), width, height)
	return nil
}

func (c *chain) releaseTargets() {
	for _, t := range c.targets {
		t.Release()
	}
	c.targets = nil
	if c.scene != nil {
		c.scene.Release()
		c.scene = nil
	}
}

func (c *chain) Release() {
	for _, e := range c.effects {
		e.Release()
	}
	c.releaseTargets()
}
