package puppet

// Draw renders the mesh as textured triangles. If the point buffer changed
// since the last draw it is re-uploaded first (exactly once); an unchanged
// mesh performs zero upload work.
//
// view is the view-projection matrix, typically Camera.ViewMatrix; it is
// composed with the mesh's model transform. Device failures return a
// RenderError; a resized point buffer returns a DataMismatchError.
func (m *Mesh) Draw(view Affine) error {
	if err := m.sync(); err != nil {
		return err
	}
	return m.submit(m.Program, view, PrimTriangles, 0)
}

// DrawDebug renders the mesh's points (asLines false) or index-pair line
// segments (asLines true) with the device's debug program, after the same
// dirty-sync step as Draw. size is the point size or line width in pixels.
//
// The triangle index buffer is reused as-is with point or line primitive
// assembly. That is intentional: the debug view stays connected to the exact
// index data the textured draw uses.
func (m *Mesh) DrawDebug(view Affine, size float64, asLines bool) error {
	if err := m.sync(); err != nil {
		return err
	}
	mode := PrimPoints
	if asLines {
		mode = PrimLines
	}
	return m.submit(m.dev.DebugProgram(), view, mode, size)
}

// submit is the shared binding path for Draw and DrawDebug.
func (m *Mesh) submit(prog Program, view Affine, mode PrimitiveMode, size float64) error {
	if err := prog.Use(); err != nil {
		return &RenderError{Op: "use program", Err: err}
	}
	call := DrawCall{
		Program:   prog,
		Texture:   m.topo.Texture(),
		MVP:       view.Mul(m.Transform.Matrix()),
		Positions: m.posBuf,
		UVs:       m.uvBuf,
		Indices:   m.idxBuf,
		Mode:      mode,
		Size:      size,
	}
	if err := m.dev.Draw(call); err != nil {
		return &RenderError{Op: "draw", Err: err}
	}
	return nil
}
