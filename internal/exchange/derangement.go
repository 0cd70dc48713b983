// Package exchange implements the Secret Santa core: the registration state
// machine bound to a single chat, the derangement engine that produces gift
// assignments, and the draw/resend/export orchestration on top of them.
package exchange

import (
	"math/rand"

	"santagogo/backend/internal/config"
)

// Assignment is one giver→receiver edge of a generated derangement.
type Assignment struct {
	GiverID    int64
	ReceiverID int64
}

// TryGenerateDerangement shuffles the receiver list up to maxAttempts times
// and returns the first permutation with no fixed point. The expected number
// of attempts is ~e for any n, so the bound is almost never reached; it exists
// to keep the loop provably finite and testable.
func TryGenerateDerangement(ids []int64, maxAttempts int) ([]Assignment, bool) {
	receivers := make([]int64, len(ids))
	copy(receivers, ids)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		rand.Shuffle(len(receivers), func(i, j int) {
			receivers[i], receivers[j] = receivers[j], receivers[i]
		})
		if isDerangement(ids, receivers) {
			return zip(ids, receivers), true
		}
	}
	return nil, false
}

// GenerateDerangement produces a uniformly random derangement of ids: every
// identifier appears exactly once as giver and once as receiver, and nobody
// gifts themselves. Fewer than three identifiers cannot be deranged reliably
// (two people always end up as a mutual pair) and are rejected.
//
// The result is intentionally non-reproducible; no seed is exposed.
func GenerateDerangement(ids []int64) ([]Assignment, error) {
	n := len(ids)
	if n < 3 {
		return nil, ErrInsufficientParticipants
	}

	if pairs, ok := TryGenerateDerangement(ids, config.MaxShuffleAttempts); ok {
		return pairs, nil
	}

	// Deterministic repair: take one more shuffle and swap every remaining
	// fixed point with its cyclic successor.
	receivers := make([]int64, n)
	copy(receivers, ids)
	rand.Shuffle(n, func(i, j int) {
		receivers[i], receivers[j] = receivers[j], receivers[i]
	})
	for i := 0; i < n; i++ {
		if ids[i] == receivers[i] {
			j := (i + 1) % n
			receivers[i], receivers[j] = receivers[j], receivers[i]
		}
	}
	if !isDerangement(ids, receivers) {
		return nil, ErrDerangementUnsatisfiable
	}
	return zip(ids, receivers), nil
}

func isDerangement(givers, receivers []int64) bool {
	for i := range givers {
		if givers[i] == receivers[i] {
			return false
		}
	}
	return true
}

func zip(givers, receivers []int64) []Assignment {
	pairs := make([]Assignment, len(givers))
	for i := range givers {
		pairs[i] = Assignment{GiverID: givers[i], ReceiverID: receivers[i]}
	}
	return pairs
}
