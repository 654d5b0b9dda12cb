package swap

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"evm-swap/pkg/types"
)

// Kind classifies where in the swap a failure happened
type Kind string

const (
	KindValidation       Kind = "ValidationError"
	KindMetadataFetch    Kind = "MetadataFetchError"
	KindPairNotFound     Kind = "PairNotFoundError"
	KindQuoteComputation Kind = "QuoteComputationError"
	KindGasEstimation    Kind = "GasEstimationError"
	KindSubmission       Kind = "SubmissionError"
)

// Sentinels for errors.Is
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrMetadataFetch    = &Error{Kind: KindMetadataFetch}
	ErrPairNotFound     = &Error{Kind: KindPairNotFound}
	ErrQuoteComputation = &Error{Kind: KindQuoteComputation}
	ErrGasEstimation    = &Error{Kind: KindGasEstimation}
	ErrSubmission       = &Error{Kind: KindSubmission}
)

// Error is a failed swap. Receipt is set when a transaction was broadcast.
type Error struct {
	Kind    Kind
	Op      string
	Err     error
	Receipt *types.Receipt
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// buildAndLogError logs at debug level; the caller reports the returned error
func buildAndLogError(logger log.FieldLogger, kind Kind, op string, err error, fields log.Fields) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}
	logger.WithFields(fields).WithField("kind", string(kind)).Debug(e.Error())
	return e
}
