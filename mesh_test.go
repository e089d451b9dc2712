package puppet

import (
	"errors"
	"testing"
)

// --- Construction ---

func TestNewInitializesPointsFromOrigin(t *testing.T) {
	m, _ := newTestMesh(t)
	origin := m.Topology().OriginPoints()
	pts := m.Points()
	if len(pts) != len(origin) {
		t.Fatalf("len(points) = %d, want %d", len(pts), len(origin))
	}
	for i := range origin {
		if pts[i] != origin[i] {
			t.Errorf("points[%d] = %v, want %v", i, pts[i], origin[i])
		}
	}
}

func TestNewUploadsStaticDataOnce(t *testing.T) {
	_, dev := newTestMesh(t)
	if got := dev.indexBufs[0].uploads; got != 1 {
		t.Errorf("index uploads = %d, want 1", got)
	}
	if got := dev.uvBuf().uploads; got != 1 {
		t.Errorf("uv uploads = %d, want 1", got)
	}
	if got := dev.posBuf().uploads; got != 1 {
		t.Errorf("initial position uploads = %d, want 1", got)
	}
	if got := dev.indexBufs[0].data; len(got) != 3 {
		t.Errorf("index data = %v, want 3 entries", got)
	}
}

func TestNewStartsDirty(t *testing.T) {
	m, _ := newTestMesh(t)
	if !m.Dirty() {
		t.Error("mesh should be dirty after construction")
	}
}

func TestNewUsesDefaultProgram(t *testing.T) {
	m, dev := newTestMesh(t)
	if m.Program != dev.defProg {
		t.Error("mesh should use the device's default program")
	}
}

func TestNewBufferAllocationFailure(t *testing.T) {
	dev := newMockDevice()
	dev.failIndexBuffer = errors.New("out of handles")

	_, err := New(dev, newTestTopology(t))
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ResourceError", err)
	}
	// Buffers created before the failure must not leak.
	for i, b := range dev.floatBufs {
		if !b.released {
			t.Errorf("float buffer %d not released after failed construction", i)
		}
	}
}

func TestNewFirstAllocationFailure(t *testing.T) {
	dev := newMockDevice()
	dev.failFloatBuffer = errors.New("no memory")

	_, err := New(dev, newTestTopology(t))
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ResourceError", err)
	}
}

// --- ResetDeform ---

func TestResetDeformRestoresOriginAndIsIdempotent(t *testing.T) {
	m, _ := newTestMesh(t)
	origin := m.OriginPoints()

	m.Pull(0, Vec2{5, 5}, DefaultSmoothArea)
	m.ResetDeform()
	for i, p := range m.Points() {
		if p != origin[i] {
			t.Errorf("after reset: points[%d] = %v, want %v", i, p, origin[i])
		}
	}

	m.ResetDeform()
	for i, p := range m.Points() {
		if p != origin[i] {
			t.Errorf("after second reset: points[%d] = %v, want %v", i, p, origin[i])
		}
	}
}

func TestResetDeformMarksDirty(t *testing.T) {
	m, _ := newTestMesh(t)
	if err := m.Draw(IdentityAffine); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if m.Dirty() {
		t.Fatal("mesh should be clean after draw")
	}
	m.ResetDeform()
	if !m.Dirty() {
		t.Error("ResetDeform should mark the mesh dirty")
	}
}

// --- OriginPoints ---

func TestOriginPointsDefensiveCopy(t *testing.T) {
	m, _ := newTestMesh(t)
	m.OriginPoints()[0] = Vec2{-999, -999}
	if got := m.OriginPoints()[0]; got != (Vec2{0, 0}) {
		t.Errorf("origin[0] = %v after caller mutation, want {0 0}", got)
	}
}

// --- Rebuffer ---

func TestRebufferSwapsTopology(t *testing.T) {
	m, dev := newTestMesh(t)
	if err := m.Draw(IdentityAffine); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	posUploads := dev.posBuf().uploads

	newTopo, err := NewTopology(
		[]Vec2{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}},
		[]uint16{0, 1, 2, 3, 4, 5},
		0, nil,
	)
	if err != nil {
		t.Fatalf("NewTopology: %v", err)
	}
	if err := m.Rebuffer(newTopo); err != nil {
		t.Fatalf("Rebuffer: %v", err)
	}

	pts := m.Points()
	if len(pts) != 6 {
		t.Fatalf("len(points) = %d, want 6", len(pts))
	}
	for i, want := range newTopo.OriginPoints() {
		if pts[i] != want {
			t.Errorf("points[%d] = %v, want %v", i, pts[i], want)
		}
	}

	// Index and UV data are rebuilt immediately.
	if got := dev.indexBufs[0].uploads; got != 2 {
		t.Errorf("index uploads = %d, want 2", got)
	}
	if got := dev.uvBuf().uploads; got != 2 {
		t.Errorf("uv uploads = %d, want 2", got)
	}
	// The position upload is deferred to the next draw.
	if got := dev.posBuf().uploads; got != posUploads {
		t.Errorf("position uploads = %d, want %d (deferred)", got, posUploads)
	}
	if !m.Dirty() {
		t.Error("Rebuffer should leave the mesh dirty")
	}

	if err := m.Draw(IdentityAffine); err != nil {
		t.Fatalf("Draw after Rebuffer: %v", err)
	}
	if got := dev.posBuf().uploads; got != posUploads+1 {
		t.Errorf("position uploads after draw = %d, want %d", got, posUploads+1)
	}
	if got := len(dev.posBuf().data); got != 12 {
		t.Errorf("uploaded position floats = %d, want 12", got)
	}
}

func TestRebufferUploadFailure(t *testing.T) {
	m, dev := newTestMesh(t)
	dev.indexBufs[0].failNext = errors.New("device lost")

	newTopo := newTestTopology(t)
	err := m.Rebuffer(newTopo)
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ResourceError", err)
	}
	// The point/topology invariant must hold even on failure.
	if len(m.Points()) != newTopo.PointCount() {
		t.Errorf("len(points) = %d, want %d", len(m.Points()), newTopo.PointCount())
	}
}

// --- Bounds ---

func TestBoundsTracksDeformation(t *testing.T) {
	m, _ := newTestMesh(t)
	b := m.Bounds()
	if !approxEqual(b.Width, 100, epsilon) || !approxEqual(b.Height, 100, epsilon) {
		t.Fatalf("bounds = %v, want 100x100", b)
	}

	// Pull the far point further out; bounds must follow.
	m.Pull(3, Vec2{-50, -50}, 1)
	b = m.Bounds()
	if !approxEqual(b.Width, 150, epsilon) || !approxEqual(b.Height, 150, epsilon) {
		t.Errorf("bounds after pull = %v, want 150x150", b)
	}
}

// --- Release ---

func TestReleaseFreesBuffersOnce(t *testing.T) {
	m, dev := newTestMesh(t)
	m.Release()
	m.Release() // idempotent

	for i, b := range dev.floatBufs {
		if !b.released {
			t.Errorf("float buffer %d not released", i)
		}
	}
	for i, b := range dev.indexBufs {
		if !b.released {
			t.Errorf("index buffer %d not released", i)
		}
	}
}
