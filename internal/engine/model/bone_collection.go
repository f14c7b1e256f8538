package model

import (
	"fmt"
	"iter"
)

// BoneCollection is a read-only, ordered view of bones.
type BoneCollection struct {
	bones []*Bone
}

// newBoneCollection copies src so later appends to it are not observed.
func newBoneCollection(src []*Bone) BoneCollection {
	bones := make([]*Bone, len(src))
	copy(bones, src)
	return BoneCollection{bones: bones}
}

// Len returns the number of bones.
func (c BoneCollection) Len() int {
	return len(c.bones)
}

// At returns the i-th bone.
func (c BoneCollection) At(i int) *Bone {
	return c.bones[i]
}

// All iterates bones in order.
func (c BoneCollection) All() iter.Seq2[int, *Bone] {
	return func(yield func(int, *Bone) bool) {
		for i, b := range c.bones {
			if !yield(i, b) {
				return
			}
		}
	}
}

// TryGet returns the first bone named name.
func (c BoneCollection) TryGet(name string) (*Bone, bool) {
	for _, b := range c.bones {
		if b.name == name {
			return b, true
		}
	}
	return nil, false
}

// Get returns the first bone named name or an error naming the bone.
func (c BoneCollection) Get(name string) (*Bone, error) {
	if b, ok := c.TryGet(name); ok {
		return b, nil
	}
	return nil, fmt.Errorf("model: no bone named %q", name)
}

// Slice returns a copy of the bones.
func (c BoneCollection) Slice() []*Bone {
	out := make([]*Bone, len(c.bones))
	copy(out, c.bones)
	return out
}
