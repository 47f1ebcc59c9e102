package store

import "errors"

// ErrorClassifier is implemented by errors that know whether a person can
// fix the document, as opposed to a retry of the same input.
type ErrorClassifier interface {
	ErrorKind() string
}

// reviewKinds are error kinds that park a document for review.
var reviewKinds = map[string]struct{}{
	"validation":    {},
	"configuration": {},
	"not_found":     {},
}

// FailureStatus maps a processing error to the status persisted for the
// document: StatusReview for reviewKinds, StatusFailed otherwise.
func FailureStatus(err error) Status {
	var classifier ErrorClassifier
	if !errors.As(err, &classifier) {
		return StatusFailed
	}
	if _, ok := reviewKinds[classifier.ErrorKind()]; ok {
		return StatusReview
	}
	return StatusFailed
}
