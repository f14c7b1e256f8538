package model

import (
	"errors"
	"testing"

	"github.com/Faultbox/fnago/pkg/math"
)

func TestNewBone(t *testing.T) {
	b := NewBone()
	if b.Parent() != nil {
		t.Error("new bone should have no parent")
	}
	if b.Children().Len() != 0 {
		t.Errorf("new bone has %d children", b.Children().Len())
	}
	if len(b.Meshes()) != 0 {
		t.Errorf("new bone has %d meshes", len(b.Meshes()))
	}
	if !b.Transform.IsIdentity() {
		t.Error("new bone transform should be identity")
	}
	if b.HasIndex() {
		t.Error("new bone should have no index")
	}
}

func TestBoneIndexUnsetPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrBoneNotLoaded) {
			t.Errorf("recover() = %v, want ErrBoneNotLoaded", r)
		}
	}()
	NewBone().Index()
}

func TestAddChild(t *testing.T) {
	root := NewBone()
	child := NewBone()
	root.AddChild(child)

	kids := root.Children()
	if kids.Len() != 1 || kids.At(0) != child {
		t.Fatalf("Children() = %v, want [child]", kids.Slice())
	}
	if child.Parent() != root {
		t.Error("child.Parent() should be root")
	}
}

func TestChildrenSnapshotIsStable(t *testing.T) {
	root := NewBone()
	first := NewBone()
	second := NewBone()

	root.AddChild(first)
	before := root.Children()
	root.AddChild(second)

	if before.Len() != 1 || before.At(0) != first {
		t.Errorf("earlier snapshot changed: %v", before.Slice())
	}
	after := root.Children()
	if after.Len() != 2 || after.At(0) != first || after.At(1) != second {
		t.Errorf("new snapshot = %v, want [first second]", after.Slice())
	}

	// Mutating a copied slice does not leak into the snapshot.
	s := after.Slice()
	s[0] = nil
	if root.Children().At(0) != first {
		t.Error("Slice() exposed the snapshot's backing array")
	}
}

func TestChildrenOrder(t *testing.T) {
	root := NewBone()
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		c := NewBone()
		c.SetName(n)
		root.AddChild(c)
	}
	for i, b := range root.Children().All() {
		if b.Name() != names[i] {
			t.Errorf("child %d = %q, want %q", i, b.Name(), names[i])
		}
	}
}

func TestAddMesh(t *testing.T) {
	b := NewBone()
	m1 := &Mesh{Name: "m1"}
	m2 := &Mesh{Name: "m2"}
	b.AddMesh(m1)
	b.AddMesh(m2)

	got := b.Meshes()
	if len(got) != 2 || got[0] != m1 || got[1] != m2 {
		t.Errorf("Meshes() = %v, want [m1 m2]", got)
	}
}

func TestAbsoluteTransformTranslations(t *testing.T) {
	root := NewBone()
	a := NewBone()
	b := NewBone()
	root.Transform = math.Translate(1, 0, 0)
	a.Transform = math.Translate(0, 2, 0)
	b.Transform = math.Translate(0, 0, 3)
	root.AddChild(a)
	a.AddChild(b)

	got := AbsoluteTransform(b).Translation()
	if got != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("AbsoluteTransform(B) translation = %v, want (1, 2, 3)", got)
	}
	if AbsoluteTransform(root) != root.Transform {
		t.Error("root absolute transform should equal its local transform")
	}
}

func TestAbsoluteTransformChildInParentSpace(t *testing.T) {
	// Parent scales by 2; the child's translation is scaled with it.
	root := NewBone()
	root.Transform = math.Scale(2, 2, 2)
	child := NewBone()
	child.Transform = math.Translate(1, 0, 0)
	root.AddChild(child)

	p := AbsoluteTransform(child).TransformPoint(math.Vec3{})
	if p != (math.Vec3{X: 2, Y: 0, Z: 0}) {
		t.Errorf("child origin in root frame = %v, want (2, 0, 0)", p)
	}
}

func TestBoneCollectionLookup(t *testing.T) {
	root := NewBone()
	for _, n := range []string{"hip", "spine", "hip"} {
		c := NewBone()
		c.SetName(n)
		root.AddChild(c)
	}
	kids := root.Children()

	b, ok := kids.TryGet("hip")
	if !ok || b != kids.At(0) {
		t.Error("TryGet should return the first match")
	}
	if _, ok := kids.TryGet("tail"); ok {
		t.Error("TryGet found a missing bone")
	}
	if _, err := kids.Get("tail"); err == nil {
		t.Error("Get should fail for a missing bone")
	}

	count := 0
	for range kids.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("All() did not stop early, visited %d", count)
	}
}
