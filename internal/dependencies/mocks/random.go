package mocks

import (
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
)

// MockRandom returns queued Intn results, then zeroes. A zero-fed
// Fisher-Yates shuffle is deterministic, so an empty MockRandom still
// produces a reproducible deal.
type MockRandom struct {
	IntnResults []int
	intnIndex   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom with nothing queued
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}
