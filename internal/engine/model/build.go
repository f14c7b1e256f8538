package model

import (
	"fmt"

	"github.com/Faultbox/fnago/pkg/formats"
	"github.com/Faultbox/fnago/pkg/math"
)

// Build turns a parsed bone container into a linked model. Parent links
// come from each record's parent reference and child order from its child
// list, as the XNA model reader does. References the container cannot
// satisfy are loader errors.
func Build(src *formats.Bones) (*Model, error) {
	bones := make([]*Bone, len(src.Bones))
	for i, rec := range src.Bones {
		b := NewBone()
		b.SetIndex(i)
		b.SetName(rec.Name)
		b.Transform = math.Mat4(rec.Transform)
		bones[i] = b
	}

	lookup := func(ref int, what string) (*Bone, error) {
		if ref == formats.NoBone {
			return nil, nil
		}
		if ref < 0 || ref >= len(bones) {
			return nil, fmt.Errorf("%s references bone %d of %d", what, ref, len(bones))
		}
		return bones[ref], nil
	}

	for i, rec := range src.Bones {
		for _, ref := range rec.Children {
			child, err := lookup(ref, fmt.Sprintf("child of bone %d", i))
			if err != nil {
				return nil, err
			}
			if child == nil || child == bones[i] {
				return nil, fmt.Errorf("bone %d lists invalid child %d", i, ref)
			}
			bones[i].AddChild(child)
		}
	}

	// The stored parent reference is authoritative over child lists.
	for i, rec := range src.Bones {
		parent, err := lookup(rec.Parent, fmt.Sprintf("parent of bone %d", i))
		if err != nil {
			return nil, err
		}
		if parent == bones[i] {
			return nil, fmt.Errorf("bone %d is its own parent", i)
		}
		bones[i].parent = parent
	}

	meshes := make([]*Mesh, len(src.Meshes))
	for i, rec := range src.Meshes {
		parent, err := lookup(rec.ParentBone, fmt.Sprintf("mesh %q", rec.Name))
		if err != nil {
			return nil, err
		}
		mesh := &Mesh{
			Name:       rec.Name,
			ParentBone: parent,
			BoundingSphere: BoundingSphere{
				Center: math.Vec3{X: rec.SphereCenter[0], Y: rec.SphereCenter[1], Z: rec.SphereCenter[2]},
				Radius: rec.SphereRadius,
			},
			Handle: Handle(i),
		}
		if parent != nil {
			parent.AddMesh(mesh)
		}
		meshes[i] = mesh
	}

	root, err := lookup(src.Root, "root")
	if err != nil {
		return nil, err
	}
	return NewModel(bones, meshes, root), nil
}
