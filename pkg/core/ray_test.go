package core

import (
	"errors"
	"testing"
)

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))

	tests := []struct {
		t        float64
		expected Vec3
	}{
		{0, NewVec3(1, 2, 3)},
		{1, NewVec3(1, 2, 1)},
		{0.5, NewVec3(1, 2, 2)},
		{-1, NewVec3(1, 2, 5)},
	}

	for _, tt := range tests {
		if got := ray.At(tt.t); got != tt.expected {
			t.Errorf("At(%v) = %v, expected %v", tt.t, got, tt.expected)
		}
	}
}

func TestRay_Validate(t *testing.T) {
	if err := NewRay(Vec3{}, NewVec3(0, 0, -1)).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := NewRay(NewVec3(1, 1, 1), Vec3{}).Validate(); !errors.Is(err, ErrDegenerateRay) {
		t.Errorf("Expected ErrDegenerateRay, got %v", err)
	}
}
