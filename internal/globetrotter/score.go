package globetrotter

// Score holds a player's running answer counters. Both counters only ever
// grow; a fresh Player is the only way to reset them.
type Score struct {
	Correct   int
	Incorrect int
}

// Total is the number of answered rounds.
func (s Score) Total() int { return s.Correct + s.Incorrect }

// RecordOutcome returns s with exactly one counter incremented.
func RecordOutcome(s Score, correct bool) Score {
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
	return s
}

// Accuracy is the percentage of correct answers in 0..100, rounded half-up
// (62.5 becomes 63). A score with no answers has accuracy 0.
func Accuracy(s Score) int {
	total := s.Total()
	if total <= 0 {
		return 0
	}
	return (200*s.Correct + total) / (2 * total)
}
