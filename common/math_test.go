package common

import (
	"math"
	"testing"
)

func TestDeltaAngle(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, -20},
		{359, 1, 2},
		{1, 359, -2},
		{0, 180, 180},
		{0, -180, 180},
		{180, 0, 180},
		{720, 45, 45},
		{-90, 90, 180},
	}

	for _, c := range cases {
		got := DeltaAngle(c.current, c.target)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("DeltaAngle(%v, %v) = %v, want %v", c.current, c.target, got, c.want)
		}
		if got <= -180 || got > 180 {
			t.Fatalf("DeltaAngle(%v, %v) = %v out of range", c.current, c.target, got)
		}
	}
}

func TestWrapAngle(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		360:  0,
		-10:  350,
		725:  5,
		-720: 0,
	}
	for in, want := range cases {
		if got := WrapAngle(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("WrapAngle(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestClampAndMoveTowards(t *testing.T) {
	if got := Clamp(5, 10, 0); got != 5 {
		t.Fatalf("expected swapped bounds to keep 5, got %v", got)
	}
	if got := Clamp01(-1); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := MoveTowards(0, 10, 3); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := MoveTowards(0, -1, 3); got != -1 {
		t.Fatalf("expected -1, got %v", got)
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}
