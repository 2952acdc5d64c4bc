package config

import (
	"math"
	"testing"
)

func TestDifficultyLevelTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
	})

	tests := []struct {
		ticks int
		want  float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{1000, 1.0}, // clamped
	}

	for _, tc := range tests {
		if got := d.Level(0, tc.ticks); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Level(0, %d) = %v, expected %v", tc.ticks, got, tc.want)
		}
	}
}

func TestDifficultyLevelScoreProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 2},
	})

	if got := d.Level(1, 99999); got != 0.5 {
		t.Errorf("Level(1, _) = %v, expected 0.5", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 10},
	})

	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	if got := d.Level(5, 500); got != 0.4 {
		t.Errorf("disabled manager should stay at the initial level, got %v", got)
	}

	high := NewDifficultyManager(DifficultyConfig{InitialLevel: 3})
	if got := high.Level(0, 0); got != 1 {
		t.Errorf("initial level should clamp to 1, got %v", got)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{0, 200},
		{0.5, 150},
		{1, 100},
		{-1, 200}, // clamped
		{2, 100},  // clamped
	}

	for _, tc := range tests {
		if got := Lerp(200, 100, tc.level); got != tc.want {
			t.Errorf("Lerp(200, 100, %v) = %v, expected %v", tc.level, got, tc.want)
		}
	}
}
