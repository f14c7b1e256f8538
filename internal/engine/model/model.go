package model

import (
	"fmt"

	"github.com/Faultbox/fnago/pkg/math"
)

// Model owns a flat bone list and the meshes attached to it. Bones refer to
// each other through the model; disposing the model releases all of them.
type Model struct {
	bones  []*Bone
	meshes []*Mesh
	root   *Bone
}

// NewModel creates a model from fully linked bones and meshes. bones[i]
// must carry index i.
func NewModel(bones []*Bone, meshes []*Mesh, root *Bone) *Model {
	return &Model{bones: bones, meshes: meshes, root: root}
}

// Root returns the root bone.
func (m *Model) Root() *Bone {
	return m.root
}

// Bones returns every bone in index order.
func (m *Model) Bones() BoneCollection {
	return newBoneCollection(m.bones)
}

// Meshes returns every mesh in load order.
func (m *Model) Meshes() []*Mesh {
	out := make([]*Mesh, len(m.meshes))
	copy(out, m.meshes)
	return out
}

// CopyAbsoluteBoneTransformsTo writes each bone's absolute transform to
// dst, indexed by bone index.
func (m *Model) CopyAbsoluteBoneTransformsTo(dst []math.Mat4) error {
	if len(dst) < len(m.bones) {
		return fmt.Errorf("model: destination holds %d transforms, need %d", len(dst), len(m.bones))
	}
	for i, b := range m.bones {
		dst[i] = AbsoluteTransform(b)
	}
	return nil
}

// CopyBoneTransformsTo writes each bone's local transform to dst.
func (m *Model) CopyBoneTransformsTo(dst []math.Mat4) error {
	if len(dst) < len(m.bones) {
		return fmt.Errorf("model: destination holds %d transforms, need %d", len(dst), len(m.bones))
	}
	for i, b := range m.bones {
		dst[i] = b.Transform
	}
	return nil
}

// CopyBoneTransformsFrom replaces each bone's local transform from src.
func (m *Model) CopyBoneTransformsFrom(src []math.Mat4) error {
	if len(src) < len(m.bones) {
		return fmt.Errorf("model: source holds %d transforms, need %d", len(src), len(m.bones))
	}
	for i, b := range m.bones {
		b.Transform = src[i]
	}
	return nil
}
