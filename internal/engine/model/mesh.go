package model

import "github.com/Faultbox/fnago/pkg/math"

// Handle identifies a mesh payload owned outside the hierarchy, such as a
// vertex buffer on the graphics device. The model never interprets it.
type Handle uint64

// BoundingSphere bounds a mesh in its bone's space.
type BoundingSphere struct {
	Center math.Vec3
	Radius float32
}

// Mesh is a renderable attached to a bone.
type Mesh struct {
	Name           string
	ParentBone     *Bone
	BoundingSphere BoundingSphere
	Handle         Handle
	Tag            any
}
