package bind_group_provider

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoBuffer is returned by BufferWrite.Target when the binding has no buffer.
var ErrNoBuffer = errors.New("no buffer at binding")

// BufferWrite is one queued upload of Data into the buffer at Binding on Provider,
// starting Offset bytes in. Offset and len(Data) must be multiples of 4.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Write returns a BufferWrite replacing a binding's contents from offset 0.
//
// Parameters:
//   - provider: the provider owning the buffer
//   - binding: the binding index of the buffer
//   - data: the bytes to upload
//
// Returns:
//   - BufferWrite: the write
func Write(provider BindGroupProvider, binding int, data []byte) BufferWrite {
	return BufferWrite{Provider: provider, Binding: binding, Data: data}
}

// Target resolves the destination buffer and checks the write's alignment.
//
// Returns:
//   - *wgpu.Buffer: the buffer to write into
//   - error: ErrNoBuffer, or an alignment error
func (w BufferWrite) Target() (*wgpu.Buffer, error) {
	if w.Provider == nil {
		return nil, fmt.Errorf("binding %d: %w", w.Binding, ErrNoBuffer)
	}
	buf := w.Provider.Buffer(w.Binding)
	if buf == nil {
		return nil, fmt.Errorf("%s binding %d: %w", w.Provider.Label(), w.Binding, ErrNoBuffer)
	}
	if w.Offset%4 != 0 || len(w.Data)%4 != 0 {
		return nil, fmt.Errorf("%s binding %d: offset %d and size %d must be 4-byte aligned",
			w.Provider.Label(), w.Binding, w.Offset, len(w.Data))
	}
	return buf, nil
}
