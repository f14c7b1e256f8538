// Package model holds the rigid bone hierarchy of a loaded model and the
// meshes attached to it.
//
// Bones are created empty by the loader, populated in a single pass and
// only grow afterwards: there is no removal. The loader is trusted to
// produce an acyclic tree; nothing here checks for cycles.
package model

import (
	"errors"

	"github.com/Faultbox/fnago/pkg/math"
)

// ErrBoneNotLoaded is the panic value when a bone's index is read before
// the loader assigned it.
var ErrBoneNotLoaded = errors.New("model: bone index read before the loader assigned it")

const unsetIndex = -1

// Bone is a named transform node. Its Transform is relative to the parent
// bone.
type Bone struct {
	// Transform places the bone relative to its parent.
	Transform math.Mat4

	index  int
	name   string
	parent *Bone // not owning; the Model owns every bone

	children    []*Bone
	publication BoneCollection
	meshes      []*Mesh
}

// NewBone returns an empty bone with an identity transform, no parent and
// no assigned index.
func NewBone() *Bone {
	return &Bone{
		Transform: math.Identity(),
		index:     unsetIndex,
	}
}

// Index returns the bone's position in its model's bone list. It panics
// with ErrBoneNotLoaded if the loader never assigned one.
func (b *Bone) Index() int {
	if b.index == unsetIndex {
		panic(ErrBoneNotLoaded)
	}
	return b.index
}

// HasIndex reports whether the loader assigned an index.
func (b *Bone) HasIndex() bool {
	return b.index != unsetIndex
}

// SetIndex assigns the bone's index. Only loaders call it, once per bone.
func (b *Bone) SetIndex(i int) {
	b.index = i
}

// Name returns the bone's name.
func (b *Bone) Name() string {
	return b.name
}

// SetName sets the bone's name during load.
func (b *Bone) SetName(name string) {
	b.name = name
}

// Parent returns the parent bone, or nil for a root.
func (b *Bone) Parent() *Bone {
	return b.parent
}

// Children returns the current child snapshot. A snapshot never changes;
// AddChild publishes a new one instead.
func (b *Bone) Children() BoneCollection {
	return b.publication
}

// AddChild appends child and makes b its parent.
func (b *Bone) AddChild(child *Bone) {
	b.children = append(b.children, child)
	b.publication = newBoneCollection(b.children)
	child.parent = b
}

// AddMesh records that mesh is attached to b. The mesh stays owned by the
// model.
func (b *Bone) AddMesh(mesh *Mesh) {
	b.meshes = append(b.meshes, mesh)
}

// Meshes returns the attached meshes in attachment order.
func (b *Bone) Meshes() []*Mesh {
	out := make([]*Mesh, len(b.meshes))
	copy(out, b.meshes)
	return out
}

// AbsoluteTransform composes b's transform with every ancestor's, giving
// b's placement in the model's root frame.
func AbsoluteTransform(b *Bone) math.Mat4 {
	abs := b.Transform
	for p := b.parent; p != nil; p = p.parent {
		abs = p.Transform.Mul(abs)
	}
	return abs
}
