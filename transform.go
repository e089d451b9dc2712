package puppet

import "math"

// Affine is a 2D affine matrix.
//
//	Layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
//	newX = a*x + c*y + tx, newY = b*x + d*y + ty
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity affine matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// Mul composes two affine matrices: result = m * o (m applied after o).
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Apply transforms the point (x, y) by m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Invert computes the inverse of m.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Transform holds the model transform of a mesh: position, scale, rotation,
// skew, and pivot. Fields may be set directly; call MarkDirty afterwards, or
// use the setters which do it for you. The composed matrix is cached and
// recomputed lazily by Matrix.
type Transform struct {
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64 // radians
	SkewX, SkewY float64 // radians
	PivotX       float64
	PivotY       float64

	matrix Affine
	dirty  bool
}

// NewTransform returns an identity transform (unit scale, no rotation).
func NewTransform() *Transform {
	return &Transform{ScaleX: 1, ScaleY: 1, dirty: true}
}

// Matrix returns the composed model matrix, recomputing it if any property
// changed since the last call.
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func (t *Transform) Matrix() Affine {
	if !t.dirty {
		return t.matrix
	}
	t.dirty = false

	sx := t.ScaleX
	sy := t.ScaleY

	sin, cos := math.Sincos(t.Rotation)

	var tanSkewX, tanSkewY float64
	if t.SkewX != 0 {
		tanSkewX = math.Tan(t.SkewX)
	}
	if t.SkewY != 0 {
		tanSkewY = math.Tan(t.SkewY)
	}

	// After Scale * Translate(-pivot), then Skew:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := t.PivotX
	py := t.PivotY
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	t.matrix = Affine{ra, rb, rc, rd, rtx + t.X, rty + t.Y}
	return t.matrix
}

// SetPosition sets X and Y and marks the transform dirty.
func (t *Transform) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
	t.dirty = true
}

// SetScale sets ScaleX and ScaleY and marks the transform dirty.
func (t *Transform) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
	t.dirty = true
}

// SetRotation sets the rotation (in radians) and marks the transform dirty.
func (t *Transform) SetRotation(r float64) {
	t.Rotation = r
	t.dirty = true
}

// SetSkew sets SkewX and SkewY and marks the transform dirty.
func (t *Transform) SetSkew(sx, sy float64) {
	t.SkewX = sx
	t.SkewY = sy
	t.dirty = true
}

// SetPivot sets PivotX and PivotY and marks the transform dirty.
func (t *Transform) SetPivot(px, py float64) {
	t.PivotX = px
	t.PivotY = py
	t.dirty = true
}

// MarkDirty forces matrix recomputation on the next Matrix call. Call this
// after bulk-setting fields directly.
func (t *Transform) MarkDirty() {
	t.dirty = true
}
