package domain

import "errors"

// Verdict is the retry decision for a failed write.
type Verdict string

const (
	VerdictPermanent Verdict = "permanent" // Retrying cannot help; surface to the user
	VerdictTransient Verdict = "transient" // Worth queueing and retrying later
)

// ClassifiedOutcome is the result of Classify.
type ClassifiedOutcome struct {
	Verdict Verdict
	Reason  string
}

// Permanent returns a permanent outcome.
func Permanent(reason string) ClassifiedOutcome {
	return ClassifiedOutcome{Verdict: VerdictPermanent, Reason: reason}
}

// Transient returns a transient outcome.
func Transient(reason string) ClassifiedOutcome {
	return ClassifiedOutcome{Verdict: VerdictTransient, Reason: reason}
}

// IsPermanent reports whether the outcome is permanent.
func (o ClassifiedOutcome) IsPermanent() bool {
	return o.Verdict == VerdictPermanent
}

// Classify decides whether a failed write should be retried.
//
// Only recognized data-validation failures are permanent. Everything else,
// including errors this function has never seen, is transient: dropping a
// capture is worse than retrying one that can never succeed.
func Classify(err error) ClassifiedOutcome {
	if err == nil {
		return Transient("no error")
	}

	if errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrInvalidRecord) {
		return Permanent(err.Error())
	}

	if re, ok := AsRemoteError(err); ok {
		if re.Kind.IsValidation() {
			return Permanent(re.Error())
		}
		return Transient(re.Error())
	}

	return Transient(err.Error())
}
