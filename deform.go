package puppet

// Pull displaces the point at index by the full direction vector (note the
// subtraction: a positive direction pulls points toward negative axes) and
// drags every other point within smoothArea of the anchor along with it,
// attenuated by a linear falloff.
//
// The falloff reference is the anchor's position BEFORE displacement, for
// every affected point. A point at distance d < smoothArea moves by
// direction * (smoothArea-d)/smoothArea; a point at or beyond smoothArea
// does not move. The anchor itself always receives the full, unscaled
// displacement.
//
// A smoothArea <= 0 disables the falloff entirely (only the anchor moves).
// The mesh is marked dirty even when direction is the zero vector.
func (m *Mesh) Pull(index int, direction Vec2, smoothArea float64) {
	anchor := m.points[index]
	m.displace(index, direction)

	if smoothArea <= 0 {
		return
	}
	for i := range m.points {
		if i == index {
			continue
		}
		d := m.points[i].Dist(anchor)
		if d >= smoothArea {
			continue
		}
		pullPower := (smoothArea - d) / smoothArea
		m.displace(i, direction.Scale(pullPower))
	}
}
