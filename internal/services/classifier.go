package services

import "strings"

// FailureClass tags a pipeline failure for the retry decision.
type FailureClass int

const (
	// FailurePermanent failures are never retried.
	FailurePermanent FailureClass = iota
	// FailureTransient failures are retried after a backoff delay, up to
	// the attempt budget.
	FailureTransient
)

// Classifier decides whether a failure is worth retrying. It is injected
// into the executor so the policy can be refined without touching executor
// logic.
type Classifier func(error) FailureClass

// NewSubstringClassifier classifies an error as transient when its
// lowercased text contains any of the given markers. A coarse heuristic:
// transient errors that do not match are treated as permanent, which means
// no retry rather than a wrong terminal state.
func NewSubstringClassifier(markers ...string) Classifier {
	return func(err error) FailureClass {
		if err == nil {
			return FailurePermanent
		}
		msg := strings.ToLower(err.Error())
		for _, marker := range markers {
			if strings.Contains(msg, marker) {
				return FailureTransient
			}
		}
		return FailurePermanent
	}
}

// DefaultClassifier matches the rate-limit marker emitted by the generation
// backends.
func DefaultClassifier() Classifier {
	return NewSubstringClassifier("rate_limit")
}
