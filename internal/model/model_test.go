package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCountsRunes(t *testing.T) {
	long := strings.Repeat("错", 80)
	assert.Equal(t, MaxDetailRunes, len([]rune(Truncate(long))))
	assert.Equal(t, "short", Truncate("short"))
}

func TestSummaryAdd(t *testing.T) {
	var s Summary
	s = s.Add(TestResult{Passed: true}).Add(TestResult{Passed: true, Warn: true}).Add(TestResult{})
	assert.Equal(t, Summary{Passed: 2, Failed: 1}, s)
	assert.Equal(t, 3, s.Total())
}

func TestRunDurationAndOK(t *testing.T) {
	run := Run{
		Results: []TestResult{{Duration: 120 * time.Millisecond}, {Duration: 30 * time.Millisecond}},
		Summary: Summary{Passed: 2},
	}
	assert.Equal(t, 150*time.Millisecond, run.Duration())
	assert.True(t, run.OK())

	run.Aborted = true
	assert.False(t, run.OK())
}
