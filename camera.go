package puppet

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera produces the view-projection matrix meshes are drawn with: position,
// zoom, and rotation over a screen-space viewport. Fields may be set directly;
// call MarkDirty afterwards, or use the setters.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	view    Affine
	invView Affine
	dirty   bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera centered at the origin with no zoom, rendering
// into the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1.0, Viewport: viewport, dirty: true}
}

// SetPosition sets the camera's world position and marks it dirty.
func (c *Camera) SetPosition(x, y float64) {
	c.X = x
	c.Y = y
	c.dirty = true
}

// SetZoom sets the zoom factor and marks the camera dirty.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = z
	c.dirty = true
}

// SetRotation sets the rotation (in radians) and marks the camera dirty.
func (c *Camera) SetRotation(r float64) {
	c.Rotation = r
	c.dirty = true
}

// MarkDirty forces view matrix recomputation on the next ViewMatrix call.
// Call this after bulk-setting fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Call Update each frame to advance the animation.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Update advances the scroll animation by dt seconds. No-op when no scroll
// is active.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	c.dirty = true
}

// ViewMatrix returns the view-projection matrix, recomputing it if the
// camera moved.
//
//	view = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy is the viewport center.
func (c *Camera) ViewMatrix() Affine {
	if !c.dirty {
		return c.view
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	c.view = Affine{a, cc, b, d, tx, ty}
	c.invView = c.view.Invert()
	return c.view
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.ViewMatrix()
	return c.view.Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.ViewMatrix()
	return c.invView.Apply(sx, sy)
}
