package shapes

import (
	"encoding/binary"
	"sort"
)

// IndirectDrawDescriptorSize is the size in bytes of one indexed indirect draw record.
const IndirectDrawDescriptorSize = 20

// IndirectDrawDescriptor is the argument record of an indexed indirect draw.
// Field order and width match the GPU wire format.
type IndirectDrawDescriptor struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    uint32
	FirstInstance uint32
}

// Bytes encodes the descriptor as five little-endian u32 values.
func (d IndirectDrawDescriptor) Bytes() []byte {
	b := make([]byte, IndirectDrawDescriptorSize)
	d.put(b)
	return b
}

func (d IndirectDrawDescriptor) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], d.IndexCount)
	binary.LittleEndian.PutUint32(b[4:], d.InstanceCount)
	binary.LittleEndian.PutUint32(b[8:], d.FirstIndex)
	binary.LittleEndian.PutUint32(b[12:], d.BaseVertex)
	binary.LittleEndian.PutUint32(b[16:], d.FirstInstance)
}

// DescriptorsToBytes encodes descriptors back to back, ready for an indirect buffer.
func DescriptorsToBytes(descriptors []IndirectDrawDescriptor) []byte {
	out := make([]byte, len(descriptors)*IndirectDrawDescriptorSize)
	for i, d := range descriptors {
		d.put(out[i*IndirectDrawDescriptorSize:])
	}
	return out
}

// EmitIndirectDescriptors produces one draw descriptor per non-empty batch.
// firstInstance is the running total of the instances emitted before the batch,
// which matches the instance layout of PackInstanceData. Batches without
// instances are skipped. A batch whose mesh is missing from offsets panics.
//
// Parameters:
//   - batches: the batches in emission order
//   - offsets: index ranges of the merged geometry
//
// Returns:
//   - []IndirectDrawDescriptor: the descriptors in batch order
func EmitIndirectDescriptors(batches []Batch, offsets OffsetTable) []IndirectDrawDescriptor {
	descriptors := make([]IndirectDrawDescriptor, 0, len(batches))
	var firstInstance uint32
	for _, b := range batches {
		if len(b.Transforms) == 0 {
			continue
		}
		r := offsets.Range(b.Mesh)
		descriptors = append(descriptors, IndirectDrawDescriptor{
			IndexCount:    r.IndexCount,
			InstanceCount: b.InstanceCount(),
			FirstIndex:    r.FirstIndex,
			BaseVertex:    0,
			FirstInstance: firstInstance,
		})
		firstInstance += b.InstanceCount()
	}
	return descriptors
}

// TextureDrawList is the subset of descriptors drawn with one texture bound.
type TextureDrawList struct {
	Texture     TextureType
	Descriptors []IndirectDrawDescriptor
}

// GroupDescriptorsByTexture splits descriptors into one list per texture type,
// ordered by texture id. Descriptors keep their global firstInstance, so the
// instance buffers are shared by every list. Batches and descriptors are paired
// by position after empty batches are dropped.
//
// Parameters:
//   - batches: the batches passed to EmitIndirectDescriptors
//   - descriptors: the descriptors it returned
//
// Returns:
//   - []TextureDrawList: one list per texture type in use
func GroupDescriptorsByTexture(batches []Batch, descriptors []IndirectDrawDescriptor) []TextureDrawList {
	batches = NonEmpty(batches)
	if len(batches) != len(descriptors) {
		panic("shapes: batch and descriptor counts differ")
	}
	lists := make(map[TextureType]*TextureDrawList)
	for i, b := range batches {
		l, ok := lists[b.Texture]
		if !ok {
			l = &TextureDrawList{Texture: b.Texture}
			lists[b.Texture] = l
		}
		l.Descriptors = append(l.Descriptors, descriptors[i])
	}
	out := make([]TextureDrawList, 0, len(lists))
	for _, l := range lists {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Texture < out[j].Texture })
	return out
}
