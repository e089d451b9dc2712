package puppet

// PrimitiveMode selects how a draw call assembles primitives from the
// index buffer.
type PrimitiveMode uint8

const (
	// PrimTriangles assembles index triples into filled triangles.
	PrimTriangles PrimitiveMode = iota
	// PrimPoints renders every index entry as an individual point.
	PrimPoints
	// PrimLines assembles consecutive index pairs into line segments.
	PrimLines
)

// FloatBuffer is device-side storage for per-vertex float attributes
// (positions and UVs, two floats per vertex).
type FloatBuffer interface {
	// Upload replaces the buffer's entire contents.
	Upload(data []float32) error
	// Release frees the buffer. Using a released buffer is an error.
	Release()
}

// IndexBuffer is device-side storage for vertex indices.
type IndexBuffer interface {
	Upload(data []uint16) error
	Release()
}

// Program is a handle to a compiled rendering program. Uniform upload happens
// inside Device.Draw, which receives the composed MVP matrix.
type Program interface {
	// Use activates the program for subsequent draws.
	Use() error
}

// Texture is a handle to a device-side texture image.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (w, h int)
}

// TextureSet is the fixed set of textures a mesh's topology may bind,
// addressed by slot index.
type TextureSet []Texture

// Lookup returns the texture at the given slot, or nil if the slot is out
// of range.
func (s TextureSet) Lookup(slot int) Texture {
	if slot < 0 || slot >= len(s) {
		return nil
	}
	return s[slot]
}

// DrawCall describes one indexed draw submission.
type DrawCall struct {
	Program   Program
	Texture   Texture // nil draws untextured
	MVP       Affine  // view matrix composed with the model matrix
	Positions FloatBuffer
	UVs       FloatBuffer
	Indices   IndexBuffer
	Mode      PrimitiveMode
	// Size is the point size (PrimPoints) or line width (PrimLines) in
	// screen pixels. Ignored for PrimTriangles.
	Size float64
}

// Device abstracts the GPU: buffer allocation, program ownership, and draw
// submission. EbitenDevice is the production implementation; tests provide
// their own with instrumented buffers.
//
// A Device owns one default program and one debug program, created with the
// device itself. This keeps program initialization explicit: a mesh built
// without an override uses DefaultProgram, and there is no hidden global
// that must be initialized first.
type Device interface {
	NewFloatBuffer() (FloatBuffer, error)
	NewIndexBuffer() (IndexBuffer, error)
	DefaultProgram() Program
	DebugProgram() Program
	Draw(call DrawCall) error
}
