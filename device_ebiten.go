package puppet

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageTexture adapts an ebiten image to the Texture interface.
type ImageTexture struct {
	Image *ebiten.Image
}

// Size returns the image dimensions in pixels. A nil image is 0x0.
func (t *ImageTexture) Size() (w, h int) {
	if t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// ebitenProgram is a Program for the ebiten backend: a flat tint plus an
// antialias switch. The MVP "uniform" is applied CPU-side per vertex at
// submission, the same way ebiten itself consumes geometry.
type ebitenProgram struct {
	tint      Color
	antialias bool
}

func (p *ebitenProgram) Use() error {
	return nil
}

// EbitenDevice is the production Device, rendering through ebiten's
// DrawTriangles. Buffers live CPU-side (ebiten re-submits vertex data every
// draw); the dirty-sync protocol still pays off because vertex packing and
// upload copies only happen when a mesh actually changed.
//
// Call SetTarget with the frame's destination image before drawing meshes.
type EbitenDevice struct {
	target *ebiten.Image

	defaultProg *ebitenProgram
	debugProg   *ebitenProgram

	debug bool
	stats FrameStats

	verts   []ebiten.Vertex // triangle scratch, high-water mark
	expVert []ebiten.Vertex // point/line expansion scratch
	expInd  []uint16
}

// NewEbitenDevice creates a device with a white default program and a green
// debug program. Program creation cannot fail on this backend, so defaults
// are always ready before the first draw.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{
		defaultProg: &ebitenProgram{tint: ColorWhite},
		debugProg:   &ebitenProgram{tint: Color{R: 0.2, G: 1, B: 0.4, A: 1}},
	}
}

// SetTarget sets the destination image for subsequent draws and starts a new
// stats frame. In debug mode the previous frame's stats are logged first.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	if d.debug {
		d.logStats()
	}
	d.target = img
	d.stats = FrameStats{}
}

// DefaultProgram returns the program meshes use when not overridden.
func (d *EbitenDevice) DefaultProgram() Program {
	return d.defaultProg
}

// DebugProgram returns the program DrawDebug renders with.
func (d *EbitenDevice) DebugProgram() Program {
	return d.debugProg
}

// NewProgram creates a flat-tint program, usable as a Mesh.Program override.
func (d *EbitenDevice) NewProgram(tint Color, antialias bool) Program {
	return &ebitenProgram{tint: tint, antialias: antialias}
}

// NewFloatBuffer allocates a float attribute buffer.
func (d *EbitenDevice) NewFloatBuffer() (FloatBuffer, error) {
	return &ebitenFloatBuffer{dev: d}, nil
}

// NewIndexBuffer allocates an index buffer.
func (d *EbitenDevice) NewIndexBuffer() (IndexBuffer, error) {
	return &ebitenIndexBuffer{dev: d}, nil
}

// ebitenFloatBuffer stores attribute data CPU-side. Upload copies into a
// high-water-mark backing array.
type ebitenFloatBuffer struct {
	dev      *EbitenDevice
	data     []float32
	released bool
}

func (b *ebitenFloatBuffer) Upload(data []float32) error {
	if b.released {
		return fmt.Errorf("upload to released buffer")
	}
	if cap(b.data) < len(data) {
		b.data = make([]float32, len(data))
	}
	b.data = b.data[:len(data)]
	copy(b.data, data)
	b.dev.stats.Uploads++
	return nil
}

func (b *ebitenFloatBuffer) Release() {
	b.released = true
	b.data = nil
}

type ebitenIndexBuffer struct {
	dev      *EbitenDevice
	data     []uint16
	released bool
}

func (b *ebitenIndexBuffer) Upload(data []uint16) error {
	if b.released {
		return fmt.Errorf("upload to released buffer")
	}
	if cap(b.data) < len(data) {
		b.data = make([]uint16, len(data))
	}
	b.data = b.data[:len(data)]
	copy(b.data, data)
	b.dev.stats.Uploads++
	return nil
}

func (b *ebitenIndexBuffer) Release() {
	b.released = true
	b.data = nil
}

// --- White pixel singleton (lazy — never touches ebiten unless drawn) ---

var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}

// Draw submits one indexed draw. Triangle mode samples the call's texture;
// point and line modes synthesize solid-color quads from the index data.
func (d *EbitenDevice) Draw(call DrawCall) error {
	if d.target == nil {
		return fmt.Errorf("no render target (call SetTarget first)")
	}

	pos, ok := call.Positions.(*ebitenFloatBuffer)
	if !ok || pos.released {
		return fmt.Errorf("invalid position buffer")
	}
	uv, ok := call.UVs.(*ebitenFloatBuffer)
	if !ok || uv.released {
		return fmt.Errorf("invalid uv buffer")
	}
	idx, ok := call.Indices.(*ebitenIndexBuffer)
	if !ok || idx.released {
		return fmt.Errorf("invalid index buffer")
	}

	if len(uv.data) != len(pos.data) {
		return fmt.Errorf("attribute length mismatch: %d position floats vs %d uv floats", len(pos.data), len(uv.data))
	}
	n := len(pos.data) / 2
	for _, i := range idx.data {
		if int(i) >= n {
			return fmt.Errorf("index %d out of range (vertex count %d)", i, n)
		}
	}

	prog, ok := call.Program.(*ebitenProgram)
	if !ok {
		return fmt.Errorf("program belongs to another device")
	}

	d.assemble(pos.data, uv.data, call.MVP, prog.tint)

	opts := &ebiten.DrawTrianglesOptions{AntiAlias: prog.antialias}
	switch call.Mode {
	case PrimTriangles:
		d.target.DrawTriangles(d.verts, idx.data, d.textureImage(call.Texture), opts)
		d.stats.DrawCalls++
	case PrimPoints:
		for _, b := range debugBatches(len(idx.data), debugBatchQuads) {
			d.expandPoints(idx.data[b[0]:b[1]], call.Size)
			d.target.DrawTriangles(d.expVert, d.expInd, ensureWhitePixel(), opts)
			d.stats.DrawCalls++
		}
	case PrimLines:
		even := len(idx.data) &^ 1 // a trailing unpaired index is ignored
		for _, b := range debugBatches(even, debugBatchQuads*2) {
			d.expandLines(idx.data[b[0]:b[1]], call.Size)
			d.target.DrawTriangles(d.expVert, d.expInd, ensureWhitePixel(), opts)
			d.stats.DrawCalls++
		}
	default:
		return fmt.Errorf("unknown primitive mode %d", call.Mode)
	}

	return nil
}

// debugBatchQuads caps one debug expansion batch: 16384 quads = 65536
// vertices, the most a uint16 index list can address. Larger index lists
// (GridTopology alone permits hundreds of thousands of entries) are split
// into multiple DrawTriangles submissions.
const debugBatchQuads = 16384

// debugBatches returns [start, end) ranges covering n index entries, at
// most per entries each.
func debugBatches(n, per int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// textureImage resolves a Texture to the image DrawTriangles samples,
// falling back to the shared 1x1 white pixel for untextured draws.
func (d *EbitenDevice) textureImage(t Texture) *ebiten.Image {
	if it, ok := t.(*ImageTexture); ok && it.Image != nil {
		return it.Image
	}
	return ensureWhitePixel()
}

// assemble fills the vertex scratch buffer: positions transformed by the MVP
// affine, UVs passed through, tint premultiplied into the vertex colors.
func (d *EbitenDevice) assemble(pos, uv []float32, mvp Affine, tint Color) {
	n := len(pos) / 2
	if cap(d.verts) < n {
		d.verts = make([]ebiten.Vertex, n)
	}
	d.verts = d.verts[:n]

	cr := float32(tint.R * tint.A)
	cg := float32(tint.G * tint.A)
	cb := float32(tint.B * tint.A)
	ca := float32(tint.A)

	for i := 0; i < n; i++ {
		x, y := mvp.Apply(float64(pos[i*2]), float64(pos[i*2+1]))
		d.verts[i] = ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   uv[i*2],
			SrcY:   uv[i*2+1],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
}

// expandPoints builds a size x size screen-space quad for every index entry,
// reusing the colors of the already-assembled vertices. indices must hold at
// most debugBatchQuads entries so every quad index fits in uint16.
func (d *EbitenDevice) expandPoints(indices []uint16, size float64) {
	half := float32(math.Max(size, 1) / 2)

	numVerts := len(indices) * 4
	numInds := len(indices) * 6
	d.growExpansion(numVerts, numInds)

	for k, idx := range indices {
		v := d.verts[idx]
		base := k * 4
		d.expVert[base+0] = quadCorner(v, -half, -half)
		d.expVert[base+1] = quadCorner(v, half, -half)
		d.expVert[base+2] = quadCorner(v, -half, half)
		d.expVert[base+3] = quadCorner(v, half, half)
		ii := k * 6
		d.expInd[ii+0] = uint16(base)
		d.expInd[ii+1] = uint16(base + 1)
		d.expInd[ii+2] = uint16(base + 2)
		d.expInd[ii+3] = uint16(base + 1)
		d.expInd[ii+4] = uint16(base + 3)
		d.expInd[ii+5] = uint16(base + 2)
	}
}

// expandLines builds a width-"size" ribbon quad for every consecutive index
// pair. A trailing unpaired index is ignored, as is a zero-length segment.
// indices must hold at most 2*debugBatchQuads entries so every quad index
// fits in uint16.
func (d *EbitenDevice) expandLines(indices []uint16, size float64) {
	half := math.Max(size, 1) / 2
	segs := len(indices) / 2
	d.growExpansion(segs*4, segs*6)
	d.expVert = d.expVert[:0]
	d.expInd = d.expInd[:0]

	for k := 0; k < segs; k++ {
		a := d.verts[indices[k*2]]
		b := d.verts[indices[k*2+1]]

		dx := float64(b.DstX - a.DstX)
		dy := float64(b.DstY - a.DstY)
		ln := math.Sqrt(dx*dx + dy*dy)
		if ln < 1e-10 {
			continue
		}
		// Unit left-perpendicular of the segment.
		nx := float32(-dy / ln * half)
		ny := float32(dx / ln * half)

		base := uint16(len(d.expVert))
		d.expVert = append(d.expVert,
			quadCorner(a, nx, ny),
			quadCorner(a, -nx, -ny),
			quadCorner(b, nx, ny),
			quadCorner(b, -nx, -ny),
		)
		d.expInd = append(d.expInd,
			base, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
}

// growExpansion resizes the expansion scratch buffers to a high-water mark.
func (d *EbitenDevice) growExpansion(numVerts, numInds int) {
	if cap(d.expVert) < numVerts {
		d.expVert = make([]ebiten.Vertex, numVerts)
	}
	d.expVert = d.expVert[:numVerts]
	if cap(d.expInd) < numInds {
		d.expInd = make([]uint16, numInds)
	}
	d.expInd = d.expInd[:numInds]
}

// quadCorner returns v offset by (dx, dy) in screen space, sampling the
// center of the white pixel.
func quadCorner(v ebiten.Vertex, dx, dy float32) ebiten.Vertex {
	v.DstX += dx
	v.DstY += dy
	v.SrcX = 0.5
	v.SrcY = 0.5
	return v
}
