package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerHoursMorningWindowIsFixed(t *testing.T) {
	t.Parallel()

	for hour := 0; hour < 12; hour++ {
		assert.Equal(t, []int{9, 10, 11}, TriggerHours(hour), "expected hour %d", hour)
	}
}

func TestTriggerHoursAfternoonWindowTrailsExpectedHour(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{14, 15, 16}, TriggerHours(12))
	assert.Equal(t, []int{16, 17, 18}, TriggerHours(14))
	assert.Equal(t, []int{21, 22, 23}, TriggerHours(19))
}

func TestTriggerHoursLateNightWindowSpansMidnight(t *testing.T) {
	t.Parallel()

	for _, hour := range []int{20, 21, 22, 23} {
		assert.Equal(t, []int{22, 23, 0, 1, 2, 3}, TriggerHours(hour), "expected hour %d", hour)
	}
}

func TestInWindow(t *testing.T) {
	t.Parallel()

	assert.True(t, InWindow(9, 10))
	assert.False(t, InWindow(9, 12))
	assert.True(t, InWindow(14, 18))
	assert.False(t, InWindow(14, 19))
	assert.True(t, InWindow(22, 1))
	assert.False(t, InWindow(22, 4))
}
