package puppet

import "fmt"

// Topology is the immutable description of a mesh: origin point positions,
// flattened triangle indices, and the texture slot the mesh samples. A
// Topology never changes after construction; multiple meshes may share one.
// To change a mesh's topology, build a new Topology and call Mesh.Rebuffer.
type Topology struct {
	origin   []Vec2
	indices  []uint16
	slot     int
	textures TextureSet
}

// NewTopology validates and builds a topology snapshot. The input slices are
// copied, so callers may reuse them. Index values must all reference a valid
// origin point and the index count must be a multiple of three (flattened
// triangles).
func NewTopology(origin []Vec2, indices []uint16, slot int, textures TextureSet) (*Topology, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("puppet: index count %d is not a multiple of 3", len(indices))
	}
	n := len(origin)
	for i, idx := range indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("puppet: index %d at position %d out of range (point count %d)", idx, i, n)
		}
	}

	t := &Topology{
		origin:   make([]Vec2, len(origin)),
		indices:  make([]uint16, len(indices)),
		slot:     slot,
		textures: textures,
	}
	copy(t.origin, origin)
	copy(t.indices, indices)
	return t, nil
}

// PointCount returns the number of origin points.
func (t *Topology) PointCount() int {
	return len(t.origin)
}

// OriginPoints returns a copy of the origin point positions. Mutating the
// returned slice never affects the topology.
func (t *Topology) OriginPoints() []Vec2 {
	out := make([]Vec2, len(t.origin))
	copy(out, t.origin)
	return out
}

// Indices returns a copy of the flattened triangle index list.
func (t *Topology) Indices() []uint16 {
	out := make([]uint16, len(t.indices))
	copy(out, t.indices)
	return out
}

// TextureSlot returns the slot this topology's texture is looked up at.
func (t *Topology) TextureSlot() int {
	return t.slot
}

// Texture returns the texture this topology samples, or nil when the slot is
// unbound (the mesh then draws untextured).
func (t *Topology) Texture() Texture {
	return t.textures.Lookup(t.slot)
}

// UVs generates texture coordinates for the origin points, in texture pixel
// space. Points are mapped onto the texture through their bounding box:
// the box's top-left corner maps to (0, 0) and its bottom-right corner to
// (texW, texH). With no bound texture every point maps to (0.5, 0.5), the
// center of an untextured 1x1 fill.
func (t *Topology) UVs() []Vec2 {
	uvs := make([]Vec2, len(t.origin))

	tex := t.Texture()
	if tex == nil {
		for i := range uvs {
			uvs[i] = Vec2{X: 0.5, Y: 0.5}
		}
		return uvs
	}

	bounds := computeBounds(t.origin)
	w, h := tex.Size()
	for i, p := range t.origin {
		var u, v float64
		if bounds.Width > 0 {
			u = (p.X - bounds.X) / bounds.Width * float64(w)
		}
		if bounds.Height > 0 {
			v = (p.Y - bounds.Y) / bounds.Height * float64(h)
		}
		uvs[i] = Vec2{X: u, Y: v}
	}
	return uvs
}

// GridTopology builds a regular grid topology covering width x height, with
// cols x rows cells (vertices = (cols+1) * (rows+1), two triangles per cell).
// Useful as a starting point for free-form deformation over an image.
func GridTopology(cols, rows int, width, height float64, slot int, textures TextureSet) (*Topology, error) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	vcols := cols + 1
	vrows := rows + 1
	if vcols*vrows > 65536 {
		return nil, fmt.Errorf("puppet: grid %dx%d exceeds uint16 index range", cols, rows)
	}

	points := make([]Vec2, vcols*vrows)
	cellW := width / float64(cols)
	cellH := height / float64(rows)
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			points[r*vcols+c] = Vec2{X: float64(c) * cellW, Y: float64(r) * cellH}
		}
	}

	indices := make([]uint16, 0, cols*rows*6)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint16(r*vcols + c)
			tr := tl + 1
			bl := uint16((r+1)*vcols + c)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}

	return NewTopology(points, indices, slot, textures)
}
