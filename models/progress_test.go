package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteModuleTransitions(t *testing.T) {
	now := time.Now()
	p := NewProgress("u1", "c1", now)
	assert.Equal(t, StateInProgress, p.State())

	tr := p.CompleteModule(1, 3, now)
	assert.True(t, tr.NewlyCompleted)
	assert.True(t, tr.FirstModule)
	assert.False(t, tr.CourseCompleted)
	assert.InDelta(t, 33.333, p.OverallProgress, 0.01)

	tr = p.CompleteModule(1, 3, now.Add(time.Minute))
	assert.False(t, tr.NewlyCompleted)
	assert.False(t, tr.FirstModule)
	assert.Equal(t, []int{1}, p.CompletedModules)
	assert.Equal(t, now.Add(time.Minute), p.LastAccessed)

	p.CompleteModule(0, 3, now)
	tr = p.CompleteModule(2, 3, now)
	assert.True(t, tr.CourseCompleted)
	assert.Equal(t, StateCompleted, p.State())
	assert.Equal(t, 100.0, p.OverallProgress)
	require.NotNil(t, p.CompletedAt)
	completedAt := *p.CompletedAt

	// Completed is terminal: re-completion neither re-fires nor moves completedAt.
	tr = p.CompleteModule(2, 3, now.Add(time.Hour))
	assert.False(t, tr.CourseCompleted)
	assert.Equal(t, completedAt, *p.CompletedAt)
}

func TestCompleteModuleOrderIndependent(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}}
	for _, order := range orders {
		p := NewProgress("u1", "c1", time.Now())
		fired := 0
		for _, idx := range order {
			if p.CompleteModule(idx, 3, time.Now()).CourseCompleted {
				fired++
			}
		}
		assert.Equal(t, 1, fired, "order %v", order)
		assert.True(t, p.IsCompleted)
	}
}

func TestRecordQuizAppendsEveryAttempt(t *testing.T) {
	p := NewProgress("u1", "c1", time.Now())
	p.RecordQuiz(0, 0, 8, 10, time.Now())
	p.RecordQuiz(0, 0, 10, 10, time.Now())

	require.Len(t, p.QuizScores, 2)
	assert.Equal(t, 8, p.QuizScores[0].Score)
	assert.Equal(t, 10, p.QuizScores[1].Score)
	assert.False(t, p.IsCompleted)
	assert.Empty(t, p.CompletedModules)
}
