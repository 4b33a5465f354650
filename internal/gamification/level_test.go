package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	testCases := []struct {
		name          string
		points        int
		wantLevel     int
		wantFloor     int
		wantNext      int
		wantProgress  float64
		checkPoints   bool
		wantCurPoints int
	}{
		{name: "zero points", points: 0, wantLevel: 1, wantFloor: 0, wantNext: 100, wantProgress: 0},
		{name: "halfway through level one", points: 50, wantLevel: 1, wantFloor: 0, wantNext: 100, wantProgress: 50},
		{name: "one short of level two", points: 99, wantLevel: 1, wantFloor: 0, wantNext: 100, wantProgress: 99},
		{name: "exact level two boundary", points: 100, wantLevel: 2, wantFloor: 100, wantNext: 210, wantProgress: 0},
		{name: "inside level two", points: 155, wantLevel: 2, wantFloor: 100, wantNext: 210, wantProgress: 50},
		{name: "exact level three boundary", points: 210, wantLevel: 3, wantFloor: 210, wantNext: 331, wantProgress: 0},
		{name: "negative clamps to zero", points: -40, wantLevel: 1, wantFloor: 0, wantNext: 100, wantProgress: 0, checkPoints: true, wantCurPoints: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := CalculateLevel(tc.points)

			assert.Equal(t, tc.wantLevel, info.CurrentLevel)
			assert.Equal(t, tc.wantFloor, info.PointsForCurrentLevel)
			assert.Equal(t, tc.wantNext, info.PointsForNextLevel)
			assert.InDelta(t, tc.wantProgress, info.ProgressPercentage, 1e-9)
			if tc.checkPoints {
				assert.Equal(t, tc.wantCurPoints, info.CurrentPoints)
			} else {
				assert.Equal(t, tc.points, info.CurrentPoints)
			}
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for points := 1; points <= 5000; points++ {
		cur := CalculateLevel(points)

		assert.GreaterOrEqual(t, cur.CurrentLevel, prev.CurrentLevel, "level dropped at %d points", points)
		assert.GreaterOrEqual(t, cur.ProgressPercentage, 0.0, "progress below 0 at %d points", points)
		assert.Less(t, cur.ProgressPercentage, 100.0, "progress reached 100 at %d points", points)
		assert.Greater(t, cur.PointsForNextLevel, cur.PointsForCurrentLevel, "empty level span at %d points", points)
		assert.LessOrEqual(t, cur.PointsForCurrentLevel, points, "floor above points at %d points", points)

		prev = cur
	}
}
