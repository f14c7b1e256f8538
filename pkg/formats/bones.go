package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Bone container errors.
var (
	ErrInvalidBonesMagic       = errors.New("invalid bone container magic: expected 'XBON'")
	ErrUnsupportedBonesVersion = errors.New("unsupported bone container version")
	ErrTruncatedBonesData      = errors.New("truncated bone container data")
	ErrInvalidBoneCount        = errors.New("invalid bone count")
	ErrInvalidBoneReference    = errors.New("invalid bone reference")
	ErrInvalidString           = errors.New("invalid string")
)

// BonesMagic starts every bone container.
const BonesMagic = "XBON"

// BonesVersion is the only container version understood.
const BonesVersion uint8 = 1

const maxBones = 1 << 16

// NoBone is the decoded value of a null bone reference.
const NoBone = -1

// BoneRecord is one bone as stored in the container. Parent and Children
// hold decoded bone indices; Parent is NoBone for a root.
type BoneRecord struct {
	Name      string
	Transform [16]float32 // M11..M44
	Parent    int
	Children  []int
}

// MeshRecord is the bone attachment of one mesh. The mesh payload itself
// lives elsewhere in the content.
type MeshRecord struct {
	Name         string
	ParentBone   int
	SphereCenter [3]float32
	SphereRadius float32
}

// Bones is a parsed bone container.
type Bones struct {
	Version uint8
	Bones   []BoneRecord
	Meshes  []MeshRecord
	Root    int
}

// The layout follows the XNA model reader:
//
//	magic "XBON", version u8
//	u32 bone count, then per bone: name (7-bit length string), 16 x f32
//	per bone: parent ref, u32 child count, child refs
//	u32 mesh count, then per mesh: name, parent ref, 4 x f32 sphere
//	root ref
//
// A bone reference is index+1 (0 means none), stored in a byte when there
// are fewer than 255 bones and in a u32 otherwise.

// ParseBones parses a bone container from a byte slice.
func ParseBones(data []byte) (*Bones, error) {
	if len(data) < 9 {
		return nil, ErrTruncatedBonesData
	}
	return ReadBones(bytes.NewReader(data))
}

// ReadBones parses a bone container from r.
func ReadBones(r io.Reader) (*Bones, error) {
	br := &bonesReader{r: bufio.NewReader(r)}

	magic := make([]byte, 4)
	if _, err := io.ReadFull(br.r, magic); err != nil {
		return nil, ErrTruncatedBonesData
	}
	if string(magic) != BonesMagic {
		return nil, ErrInvalidBonesMagic
	}

	b := &Bones{}
	b.Version = br.u8()
	if br.err == nil && b.Version != BonesVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBonesVersion, b.Version)
	}

	count := br.u32()
	if br.err != nil {
		return nil, br.err
	}
	if count > maxBones {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBoneCount, count)
	}
	n := int(count)

	b.Bones = make([]BoneRecord, n)
	for i := range b.Bones {
		b.Bones[i].Name = br.str()
		br.read(&b.Bones[i].Transform)
		if br.err != nil {
			return nil, fmt.Errorf("reading bone %d: %w", i, br.err)
		}
	}

	for i := range b.Bones {
		bone := &b.Bones[i]
		bone.Parent = br.boneRef(n)
		childCount := br.u32()
		if br.err != nil {
			return nil, fmt.Errorf("reading hierarchy of bone %d: %w", i, br.err)
		}
		if childCount > count {
			return nil, fmt.Errorf("bone %d: %w: %d children", i, ErrInvalidBoneCount, childCount)
		}
		bone.Children = make([]int, 0, childCount)
		for j := uint32(0); j < childCount; j++ {
			child := br.boneRef(n)
			if br.err == nil && child == NoBone {
				br.err = fmt.Errorf("%w: null child", ErrInvalidBoneReference)
			}
			bone.Children = append(bone.Children, child)
		}
		if br.err != nil {
			return nil, fmt.Errorf("reading hierarchy of bone %d: %w", i, br.err)
		}
	}

	meshCount := br.u32()
	if br.err != nil {
		return nil, br.err
	}
	if meshCount > maxBones {
		return nil, fmt.Errorf("invalid mesh count: %d", meshCount)
	}
	b.Meshes = make([]MeshRecord, meshCount)
	for i := range b.Meshes {
		m := &b.Meshes[i]
		m.Name = br.str()
		m.ParentBone = br.boneRef(n)
		br.read(&m.SphereCenter)
		br.read(&m.SphereRadius)
		if br.err != nil {
			return nil, fmt.Errorf("reading mesh %d: %w", i, br.err)
		}
	}

	b.Root = br.boneRef(n)
	if br.err != nil {
		return nil, br.err
	}
	return b, nil
}

// bonesReader keeps the first error, like bufio.Scanner.
type bonesReader struct {
	r   *bufio.Reader
	err error
}

func (br *bonesReader) read(v any) {
	if br.err != nil {
		return
	}
	if err := binary.Read(br.r, binary.LittleEndian, v); err != nil {
		br.err = truncated(err)
	}
}

func (br *bonesReader) u8() uint8 {
	var v uint8
	br.read(&v)
	return v
}

func (br *bonesReader) u32() uint32 {
	var v uint32
	br.read(&v)
	return v
}

// str reads a string with a 7-bit encoded length prefix.
func (br *bonesReader) str() string {
	if br.err != nil {
		return ""
	}
	length, err := binary.ReadUvarint(br.r)
	if err != nil {
		br.err = truncated(err)
		return ""
	}
	if length > 1<<16 {
		br.err = fmt.Errorf("%w: length %d", ErrInvalidString, length)
		return ""
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = truncated(err)
		return ""
	}
	if !utf8.Valid(buf) {
		br.err = fmt.Errorf("%w: not UTF-8", ErrInvalidString)
		return ""
	}
	return string(buf)
}

func (br *bonesReader) boneRef(count int) int {
	var ref uint32
	if count < 255 {
		ref = uint32(br.u8())
	} else {
		ref = br.u32()
	}
	if br.err != nil {
		return NoBone
	}
	if ref == 0 {
		return NoBone
	}
	if int(ref) > count {
		br.err = fmt.Errorf("%w: %d of %d", ErrInvalidBoneReference, ref-1, count)
		return NoBone
	}
	return int(ref) - 1
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedBonesData
	}
	return err
}

// WriteBones encodes b in the container layout read by ReadBones.
func WriteBones(w io.Writer, b *Bones) error {
	bw := bufio.NewWriter(w)
	n := len(b.Bones)

	bw.WriteString(BonesMagic)
	bw.WriteByte(BonesVersion)
	binary.Write(bw, binary.LittleEndian, uint32(n))

	for i := range b.Bones {
		writeString(bw, b.Bones[i].Name)
		binary.Write(bw, binary.LittleEndian, b.Bones[i].Transform)
	}
	for i := range b.Bones {
		writeBoneRef(bw, n, b.Bones[i].Parent)
		binary.Write(bw, binary.LittleEndian, uint32(len(b.Bones[i].Children)))
		for _, c := range b.Bones[i].Children {
			writeBoneRef(bw, n, c)
		}
	}

	binary.Write(bw, binary.LittleEndian, uint32(len(b.Meshes)))
	for _, m := range b.Meshes {
		writeString(bw, m.Name)
		writeBoneRef(bw, n, m.ParentBone)
		binary.Write(bw, binary.LittleEndian, m.SphereCenter)
		binary.Write(bw, binary.LittleEndian, m.SphereRadius)
	}
	writeBoneRef(bw, n, b.Root)

	return bw.Flush()
}

func writeString(w *bufio.Writer, s string) {
	var buf [binary.MaxVarintLen64]byte
	k := binary.PutUvarint(buf[:], uint64(len(s)))
	w.Write(buf[:k])
	w.WriteString(s)
}

func writeBoneRef(w *bufio.Writer, count, index int) {
	ref := uint32(index + 1) // NoBone encodes as 0
	if count < 255 {
		w.WriteByte(byte(ref))
		return
	}
	binary.Write(w, binary.LittleEndian, ref)
}
