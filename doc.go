// Package puppet implements deformable 2D meshes for character-rigging style
// rendering on [Ebitengine].
//
// A [Mesh] pairs an immutable [Topology] (origin point positions, triangle
// indices, texture binding) with a live point buffer that can be displaced at
// runtime. Changes to the point buffer are tracked with a dirty flag and
// re-synchronized to the render device lazily, at most once per draw.
//
// # Quick start
//
//	dev := puppet.NewEbitenDevice()
//	topo, err := puppet.NewTopology(points, indices, 0, textures)
//	if err != nil { ... }
//	mesh, err := puppet.New(dev, topo)
//	if err != nil { ... }
//
//	// per frame, inside your ebiten.Game:
//	mesh.Pull(3, puppet.Vec2{X: 2, Y: 0}, puppet.DefaultSmoothArea)
//	dev.SetTarget(screen)
//	if err := mesh.Draw(camera.ViewMatrix()); err != nil { ... }
//
// # Deformation
//
// [Mesh.Pull] displaces one point by a full displacement vector and drags
// nearby points along with a linear distance falloff. [Mesh.PointsAround]
// finds points within a radius. Callers needing custom deformation may write
// to the slice returned by [Mesh.Points] directly, then call [Mesh.Mark] so
// the next draw re-uploads positions.
//
// # Rendering
//
// Drawing goes through the [Device] interface. [EbitenDevice] is the
// production implementation; tests substitute their own. [Mesh.DrawDebug]
// renders the same index data as points or lines for rig inspection.
//
// Puppet is single-threaded by design: all mutation and drawing must happen
// on the game's update/draw goroutine.
//
// [Ebitengine]: https://ebitengine.org
package puppet
