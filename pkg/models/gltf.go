package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/cubist/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// BakeNodes applies node transforms so the mesh matches the scene
	// layout. When false every mesh is taken in its own space.
	BakeNodes bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{BakeNodes: true}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a single merged Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument converts an already decoded document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	b := &meshBuilder{mesh: NewMesh(name)}

	roots := sceneRoots(doc)
	if !l.BakeNodes || len(roots) == 0 {
		for _, m := range doc.Meshes {
			if err := b.addMesh(doc, m, math3d.Identity()); err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
		}
	} else {
		for _, idx := range roots {
			if err := b.addNode(doc, idx, math3d.Identity(), 0); err != nil {
				return nil, err
			}
		}
	}

	mesh := b.finish()
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// sceneRoots returns the root node indices of the default scene, falling
// back to the first scene.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	scene := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		scene = *doc.Scene
	}
	return doc.Scenes[scene].Nodes
}

// nodeMatrix returns the local matrix of a node, from its explicit matrix
// or from its TRS properties.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.MatrixOrDefault())
	if m != math3d.Identity() {
		return m
	}
	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
	s := n.ScaleOrDefault()
	return math3d.TRS(t, n.RotationOrDefault(), math3d.V3(s[0], s[1], s[2]))
}

// maxNodeDepth bounds recursion on malformed (cyclic) node graphs.
const maxNodeDepth = 64

type meshBuilder struct {
	mesh     *Mesh
	textured bool
}

func (b *meshBuilder) addNode(doc *gltf.Document, idx int, parent math3d.Mat4, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxNodeDepth)
	}
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(node))

	if node.Mesh != nil && *node.Mesh < len(doc.Meshes) {
		m := doc.Meshes[*node.Mesh]
		if err := b.addMesh(doc, m, world); err != nil {
			return fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	for _, child := range node.Children {
		if err := b.addNode(doc, child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// addMesh appends every triangle primitive of m, transformed by mat.
func (b *meshBuilder) addMesh(doc *gltf.Document, m *gltf.Mesh, mat math3d.Mat4) error {
	flip := mat.Determinant3() < 0

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
			b.textured = true
		}

		base := len(b.mesh.Points)
		for i, p := range positions {
			b.mesh.Points = append(b.mesh.Points, mat.MulPoint(p))
			var uv math3d.Vec2
			if i < len(uvs) {
				// GLTF already puts V=0 at the top of the image.
				uv = uvs[i]
			}
			b.mesh.UVs = append(b.mesh.UVs, uv)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			tri := [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]}
			if flip {
				tri[1], tri[2] = tri[2], tri[1]
			}
			b.mesh.Triangles = append(b.mesh.Triangles, tri)
		}
	}
	return nil
}

// finish drops UVs when no primitive had any. Points and UVs are
// parallel, so the UV map is the triangle list itself.
func (b *meshBuilder) finish() *Mesh {
	if !b.textured {
		b.mesh.UVs = nil
		return b.mesh
	}
	b.mesh.UVMap = append([][3]int(nil), b.mesh.Triangles...)
	return b.mesh
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(f[0], f[1], f[2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(f[0], f[1])
	}
	return result, nil
}

// readFloatAccessor reads float32 vectors of width n.
func readFloatAccessor(doc *gltf.Document, accessorIdx int, typ gltf.AccessorType, n int) ([][3]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != typ {
		return nil, fmt.Errorf("expected %v, got %v", typ, accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, n*4)
	if err != nil {
		return nil, err
	}

	result := make([][3]float64, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		if offset+n*4 > len(data) {
			return nil, fmt.Errorf("accessor %d: data truncated", accessorIdx)
		}
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[offset+j*4:])
			result[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("accessor %d: data truncated", accessorIdx)
		}
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		default:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's bytes starting at its first element
// and the stride between elements.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		// External buffers are resolved by gltf.Open; an empty one here
		// means the file was decoded without them.
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	if start > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor offset %d beyond buffer", start)
	}
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return buffer.Data[start:], stride, nil
}

// LoadGLTFWithTextures loads a GLTF file and extracts embedded textures.
// Returns the mesh and a map of image index to encoded image data.
func LoadGLTFWithTextures(path string) (*Mesh, map[int][]byte, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil {
				start := bv.ByteOffset
				end := start + bv.ByteLength
				textures[i] = buf.Data[start:end]
			}
		} else if img.URI != "" {
			data, err := os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
			if err == nil {
				textures[i] = data
			}
		}
	}

	return mesh, textures, nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable texture, which may be nil.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, textures, err := LoadGLTFWithTextures(path)
	if err != nil {
		return nil, nil, err
	}

	for _, i := range slices.Sorted(maps.Keys(textures)) {
		data := textures[i]
		if len(data) == 0 {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return mesh, img, nil
		}
	}
	return mesh, nil, nil
}
