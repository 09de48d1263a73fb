// Package unit contains the pure logic for unit training and workforce
// assignment: sequential training chains and the preconditions for
// training, assigning, and unassigning.
package unit

import "time"

// TrainingChain returns the end dates of a sequential training batch.
// Each unit's slot is chained off the previous one's end date, the first
// off now: a batch of 5 units at 10s each completes at now+50s.
func TrainingChain(now time.Time, quantity int, perUnit time.Duration) []time.Time {
	ends := make([]time.Time, 0, quantity)
	end := now
	for i := 0; i < quantity; i++ {
		end = end.Add(perUnit)
		ends = append(ends, end)
	}
	return ends
}
