package csw

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTarget        = errors.New("csw: prover data needs a withdrawal target")
	ErrMissingCertificate   = errors.New("csw: prover data needs a last certificate (real or phantom)")
	ErrNegativeCustomFields = errors.New("csw: negative custom field count")
)

// CommitmentError reports that the backward-transfer root of a certificate
// could not be derived.
type CommitmentError struct {
	NumTransfers int
	Cause        error
}

func (e *CommitmentError) Error() string {
	return fmt.Sprintf("csw: bt commitment over %d transfers: %v", e.NumTransfers, e.Cause)
}

func (e *CommitmentError) Unwrap() error { return e.Cause }
