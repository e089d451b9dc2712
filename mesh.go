package puppet

import "errors"

var errMeshReleased = errors.New("mesh released")

// Mesh is a deformable mesh instance: an immutable Topology plus a live,
// per-instance point buffer that deformation operations mutate. Device-side
// position data is re-uploaded lazily, at most once per change, at the start
// of the next draw.
//
// A Mesh is exclusively owned by one caller and must only be used from the
// game's update/draw goroutine.
type Mesh struct {
	// Transform is the model transform composed with the view matrix at
	// draw time. Never nil after New.
	Transform *Transform

	// Program is the rendering program used by Draw. Set to
	// Device.DefaultProgram by New; callers may override it. DrawDebug
	// always uses the device's debug program instead.
	Program Program

	dev  Device
	topo *Topology

	points []Vec2
	dirty  bool

	posBuf FloatBuffer
	uvBuf  FloatBuffer
	idxBuf IndexBuffer

	packBuf []float32 // upload scratch, high-water mark
}

// New builds a mesh from a topology snapshot: the point buffer starts as a
// copy of the origin points, device buffers are allocated, and index, UV,
// and initial position data are uploaded immediately. Returns a
// ResourceError if any device call fails; partially created buffers are
// released before returning.
func New(dev Device, topo *Topology) (*Mesh, error) {
	m := &Mesh{
		Transform: NewTransform(),
		Program:   dev.DefaultProgram(),
		dev:       dev,
		topo:      topo,
		points:    topo.OriginPoints(),
		dirty:     true,
	}

	var err error
	if m.posBuf, err = dev.NewFloatBuffer(); err != nil {
		return nil, &ResourceError{Op: "create position buffer", Err: err}
	}
	if m.uvBuf, err = dev.NewFloatBuffer(); err != nil {
		m.Release()
		return nil, &ResourceError{Op: "create uv buffer", Err: err}
	}
	if m.idxBuf, err = dev.NewIndexBuffer(); err != nil {
		m.Release()
		return nil, &ResourceError{Op: "create index buffer", Err: err}
	}

	if err := m.uploadStatic(); err != nil {
		m.Release()
		return nil, err
	}
	if err := m.posBuf.Upload(m.pack(m.points)); err != nil {
		m.Release()
		return nil, &ResourceError{Op: "upload initial positions", Err: err}
	}
	return m, nil
}

// uploadStatic pushes the topology-derived index and UV data to the device.
// Called at construction and on Rebuffer; never per frame.
func (m *Mesh) uploadStatic() error {
	if err := m.idxBuf.Upload(m.topo.indices); err != nil {
		return &ResourceError{Op: "upload index buffer", Err: err}
	}
	if err := m.uvBuf.Upload(m.pack(m.topo.UVs())); err != nil {
		return &ResourceError{Op: "upload uv buffer", Err: err}
	}
	return nil
}

// Rebuffer replaces the mesh's topology. The point buffer is reset to the new
// origin points (equivalent to ResetDeform) and index/UV data are rebuilt and
// uploaded. The position upload itself is deferred to the next draw through
// the dirty flag.
func (m *Mesh) Rebuffer(topo *Topology) error {
	m.topo = topo
	m.ResetDeform()
	return m.uploadStatic()
}

// ResetDeform discards all deformation, restoring every point to its origin
// position, and marks the mesh dirty.
func (m *Mesh) ResetDeform() {
	need := m.topo.PointCount()
	if cap(m.points) < need {
		m.points = make([]Vec2, need)
	}
	m.points = m.points[:need]
	copy(m.points, m.topo.origin)
	m.dirty = true
}

// Topology returns the mesh's current topology snapshot.
func (m *Mesh) Topology() *Topology {
	return m.topo
}

// OriginPoints returns a copy of the topology's origin point positions.
func (m *Mesh) OriginPoints() []Vec2 {
	return m.topo.OriginPoints()
}

// Points returns the live point buffer. Callers may write elements in place
// for custom deformation, but must call Mark before the next draw, and must
// not resize the slice (resizing is detected at draw time and fails with a
// DataMismatchError; use Rebuffer to change the point count).
func (m *Mesh) Points() []Vec2 {
	return m.points
}

// Mark flags the point buffer as changed so the next draw re-uploads it.
// Required after writing through Points; the provided deformation operations
// call it implicitly.
func (m *Mesh) Mark() {
	m.dirty = true
}

// Dirty reports whether the point buffer has changed since the last upload.
func (m *Mesh) Dirty() bool {
	return m.dirty
}

// Bounds returns the axis-aligned bounding box of the current (deformed)
// points, in model space.
func (m *Mesh) Bounds() Rect {
	return computeBounds(m.points)
}

// displace shifts point i by -d. All internal point mutation funnels through
// here so the dirty contract cannot be missed.
func (m *Mesh) displace(i int, d Vec2) {
	m.points[i] = m.points[i].Sub(d)
	m.dirty = true
}

// sync validates the point buffer against the topology and, if dirty,
// re-uploads the full position data. Called at the start of every draw.
func (m *Mesh) sync() error {
	if m.posBuf == nil {
		return &RenderError{Op: "draw", Err: errMeshReleased}
	}
	if len(m.points) != m.topo.PointCount() {
		return &DataMismatchError{Points: len(m.points), Origin: m.topo.PointCount()}
	}
	if !m.dirty {
		return nil
	}
	if err := m.posBuf.Upload(m.pack(m.points)); err != nil {
		return &RenderError{Op: "upload position buffer", Err: err}
	}
	m.dirty = false
	return nil
}

// pack flattens points into the mesh's float32 scratch buffer, two floats
// per point. The scratch grows to a high-water mark and never shrinks.
func (m *Mesh) pack(points []Vec2) []float32 {
	need := len(points) * 2
	if cap(m.packBuf) < need {
		m.packBuf = make([]float32, need)
	}
	m.packBuf = m.packBuf[:need]
	for i, p := range points {
		m.packBuf[i*2] = float32(p.X)
		m.packBuf[i*2+1] = float32(p.Y)
	}
	return m.packBuf
}

// Release frees the mesh's device buffers. Drawing a released mesh fails
// with a RenderError. Safe to call more than once.
func (m *Mesh) Release() {
	if m.posBuf != nil {
		m.posBuf.Release()
		m.posBuf = nil
	}
	if m.uvBuf != nil {
		m.uvBuf.Release()
		m.uvBuf = nil
	}
	if m.idxBuf != nil {
		m.idxBuf.Release()
		m.idxBuf = nil
	}
}
