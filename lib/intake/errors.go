package intake

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionInProgress is returned by session mutations while a submit is in flight
	ErrSubmissionInProgress = errors.New("submission in progress")
	// ErrAlreadySubmitted is returned by session mutations once the form was accepted; Reset starts over
	ErrAlreadySubmitted = errors.New("submission already completed")
	// ErrReceiptUnavailable is returned when a receipt is requested before a successful submission
	ErrReceiptUnavailable = errors.New("receipt requires a successful submission")
	// ErrReceiptInProgress is returned when a receipt is requested while one is being generated
	ErrReceiptInProgress = errors.New("receipt generation in progress")
)

// AllocationError reports that the daily sequence could not be read. The allocator
// still returns a usable fallback code alongside it.
type AllocationError struct {
	Prefix string
	Err    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocating laudo id for %s: %v", e.Prefix, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// UploadFailure is one photo that could not be stored
type UploadFailure struct {
	Index    int
	FileName string
	Err      error
}

// UploadError lists every photo of a batch that failed
type UploadError struct {
	Failures []UploadFailure
}

func (e *UploadError) Error() string {
	names := make([]string, len(e.Failures))
	for i, failure := range e.Failures {
		names[i] = fmt.Sprintf("%s (%v)", failure.FileName, failure.Err)
	}
	return fmt.Sprintf("%d photo upload(s) failed: %s", len(e.Failures), strings.Join(names, "; "))
}

func (e *UploadError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure.Err
	}
	return errs
}

// FileNames lists the failed files in input order
func (e *UploadError) FileNames() []string {
	names := make([]string, len(e.Failures))
	for i, failure := range e.Failures {
		names[i] = failure.FileName
	}
	return names
}

// InsertError reports that the backend rejected the record
type InsertError struct {
	LaudoID string
	Err     error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("inserting avaliacao %s: %v", e.LaudoID, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// NotifyError reports a failed webhook call. It is only ever logged.
type NotifyError struct {
	LaudoID string
	Err     error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notifying webhook for %s: %v", e.LaudoID, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// ReceiptStep names the stage of receipt generation that failed
type ReceiptStep string

const (
	ReceiptStepRender       ReceiptStep = "render"
	ReceiptStepUpload       ReceiptStep = "upload"
	ReceiptStepPublicURL    ReceiptStep = "public-url"
	ReceiptStepUpdateRecord ReceiptStep = "update-record"
)

// ReceiptError reports the failed receipt step. Earlier steps are not rolled back.
type ReceiptError struct {
	LaudoID string
	Step    ReceiptStep
	Err     error
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("receipt %s for %s: %v", e.Step, e.LaudoID, e.Err)
}

func (e *ReceiptError) Unwrap() error {
	return e.Err
}
