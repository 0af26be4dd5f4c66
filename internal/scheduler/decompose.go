package scheduler

import "github.com/google/uuid"

// Chunk is one sitting-sized piece of a task's effort. Chunks only live
// within a single scheduling run.
type Chunk struct {
	TaskID   uuid.UUID
	Index    int
	Duration int // minutes
}

// Decompose splits remainingMinutes of work into ceil(remaining/preferred)
// chunks: all of preferredLength except a shorter final remainder. An exact
// multiple yields equal chunks and no zero-length tail. Non-positive
// remaining effort (or a non-positive preferred length) yields nil.
func Decompose(taskID uuid.UUID, remainingMinutes, preferredLength int) []Chunk {
	if remainingMinutes <= 0 || preferredLength <= 0 {
		return nil
	}

	n := (remainingMinutes + preferredLength - 1) / preferredLength
	chunks := make([]Chunk, n)
	for i := 0; i < n; i++ {
		d := preferredLength
		if i == n-1 {
			d = remainingMinutes - (n-1)*preferredLength
		}
		chunks[i] = Chunk{TaskID: taskID, Index: i, Duration: d}
	}
	return chunks
}
