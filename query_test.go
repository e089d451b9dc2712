package puppet

import (
	"reflect"
	"testing"
)

func TestPointsAroundExcludesQueryPoint(t *testing.T) {
	m, _ := newTestMesh(t)
	got := m.PointsAround(0, 15)
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PointsAround(0, 15) = %v, want %v", got, want)
	}
}

func TestPointsAroundPosIncludesCoincidentPoint(t *testing.T) {
	m, _ := newTestMesh(t)
	got := m.PointsAroundPos(Vec2{0, 0}, 15)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PointsAroundPos({0,0}, 15) = %v, want %v", got, want)
	}
}

func TestPointsAroundStrictRadius(t *testing.T) {
	// Point 1 sits exactly 10 from point 0: a radius of 10 must exclude it.
	m, _ := newTestMesh(t)
	got := m.PointsAround(0, 10)
	if len(got) != 0 {
		t.Errorf("PointsAround(0, 10) = %v, want empty (strict < radius)", got)
	}

	got = m.PointsAround(0, 10.000001)
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PointsAround(0, 10+eps) = %v, want %v", got, want)
	}
}

func TestPointsAroundPosZeroRadius(t *testing.T) {
	m, _ := newTestMesh(t)
	if got := m.PointsAroundPos(Vec2{0, 0}, 0); len(got) != 0 {
		t.Errorf("PointsAroundPos with radius 0 = %v, want empty", got)
	}
}

func TestPointsAroundScansLivePoints(t *testing.T) {
	// Queries run against the deformed positions, not the origin.
	m, _ := newTestMesh(t)
	pts := m.Points()
	pts[3] = Vec2{5, 5}
	m.Mark()

	got := m.PointsAround(0, 15)
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PointsAround(0, 15) after moving point 3 = %v, want %v", got, want)
	}
}

func TestPointsAroundHasNoSideEffects(t *testing.T) {
	m, _ := newTestMesh(t)
	if err := m.Draw(IdentityAffine); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	m.PointsAround(0, 50)
	m.PointsAroundPos(Vec2{1, 1}, 50)
	if m.Dirty() {
		t.Error("spatial queries must not mark the mesh dirty")
	}
}
