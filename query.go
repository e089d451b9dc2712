package puppet

// PointsAround returns the indices of all points strictly within radius of
// point index, in ascending index order. The query point itself is never
// included. Points exactly at radius are excluded.
//
// Linear scan, O(N) over the point count. Fine at the intended scale of low
// hundreds of points per mesh.
func (m *Mesh) PointsAround(index int, radius float64) []int {
	center := m.points[index]
	var out []int
	for i, p := range m.points {
		if i == index {
			continue
		}
		if p.Dist(center) < radius {
			out = append(out, i)
		}
	}
	return out
}

// PointsAroundPos returns the indices of all points strictly within radius of
// an arbitrary position, in ascending index order. Unlike PointsAround no
// point is excluded: a point coincident with pos is included whenever
// radius > 0.
func (m *Mesh) PointsAroundPos(pos Vec2, radius float64) []int {
	var out []int
	for i, p := range m.points {
		if p.Dist(pos) < radius {
			out = append(out, i)
		}
	}
	return out
}
