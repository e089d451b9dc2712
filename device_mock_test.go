package puppet

// Instrumented in-memory Device used across the test suite. Upload and draw
// counters make the dirty-sync protocol observable; failNext fields inject
// single-shot failures.

type mockFloatBuffer struct {
	uploads  int
	data     []float32
	failNext error
	released bool
}

func (b *mockFloatBuffer) Upload(data []float32) error {
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return err
	}
	b.uploads++
	b.data = append(b.data[:0], data...)
	return nil
}

func (b *mockFloatBuffer) Release() {
	b.released = true
}

type mockIndexBuffer struct {
	uploads  int
	data     []uint16
	failNext error
	released bool
}

func (b *mockIndexBuffer) Upload(data []uint16) error {
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return err
	}
	b.uploads++
	b.data = append(b.data[:0], data...)
	return nil
}

func (b *mockIndexBuffer) Release() {
	b.released = true
}

type mockProgram struct {
	uses     int
	failNext error
}

func (p *mockProgram) Use() error {
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	p.uses++
	return nil
}

type mockTexture struct {
	w, h int
}

func (t *mockTexture) Size() (int, int) {
	return t.w, t.h
}

type mockDevice struct {
	floatBufs []*mockFloatBuffer
	indexBufs []*mockIndexBuffer
	defProg   *mockProgram
	dbgProg   *mockProgram
	draws     []DrawCall

	failFloatBuffer error // fails the next NewFloatBuffer
	failIndexBuffer error // fails the next NewIndexBuffer
	failDraw        error // fails the next Draw
}

func newMockDevice() *mockDevice {
	return &mockDevice{
		defProg: &mockProgram{},
		dbgProg: &mockProgram{},
	}
}

func (d *mockDevice) NewFloatBuffer() (FloatBuffer, error) {
	if d.failFloatBuffer != nil {
		err := d.failFloatBuffer
		d.failFloatBuffer = nil
		return nil, err
	}
	b := &mockFloatBuffer{}
	d.floatBufs = append(d.floatBufs, b)
	return b, nil
}

func (d *mockDevice) NewIndexBuffer() (IndexBuffer, error) {
	if d.failIndexBuffer != nil {
		err := d.failIndexBuffer
		d.failIndexBuffer = nil
		return nil, err
	}
	b := &mockIndexBuffer{}
	d.indexBufs = append(d.indexBufs, b)
	return b, nil
}

func (d *mockDevice) DefaultProgram() Program {
	return d.defProg
}

func (d *mockDevice) DebugProgram() Program {
	return d.dbgProg
}

func (d *mockDevice) Draw(call DrawCall) error {
	if d.failDraw != nil {
		err := d.failDraw
		d.failDraw = nil
		return err
	}
	d.draws = append(d.draws, call)
	return nil
}

// posBuf returns the mesh position buffer. New allocates the position buffer
// first, then the uv buffer.
func (d *mockDevice) posBuf() *mockFloatBuffer {
	return d.floatBufs[0]
}

func (d *mockDevice) uvBuf() *mockFloatBuffer {
	return d.floatBufs[1]
}
