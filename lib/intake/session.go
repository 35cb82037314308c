package intake

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/models"
	"qualityhome/lib/validation"
)

// SubmissionState is the position of a session in idle -> submitting -> success | failed
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSuccess    SubmissionState = "success"
	SubmissionFailed     SubmissionState = "failed"
)

// ReceiptState is the position of a session in idle -> generating -> success | failed
type ReceiptState string

const (
	ReceiptIdle       ReceiptState = "idle"
	ReceiptGenerating ReceiptState = "generating"
	ReceiptSuccess    ReceiptState = "success"
	ReceiptFailed     ReceiptState = "failed"
)

// SubmissionStatus is the observable result of the last submit
type SubmissionStatus struct {
	State   SubmissionState `json:"state"`
	Message string          `json:"message,omitempty"`
}

// ReceiptStatus is the observable result of the last receipt request
type ReceiptStatus struct {
	State   ReceiptState `json:"state"`
	Message string       `json:"message,omitempty"`
}

// Submitter runs the submission pipeline
type Submitter interface {
	Submit(ctx context.Context, form models.FormState, photos []models.PhotoFile) (*models.SubmissionRecord, error)
}

// ReceiptMaker produces the receipt document of a stored record
type ReceiptMaker interface {
	Generate(ctx context.Context, record *models.SubmissionRecord) (*Receipt, error)
}

// Session owns the state of one in-progress appraisal request: the form, the photo queue,
// both status machines and, after success, the read-only record and receipt.
// It is safe for concurrent use; the pipeline itself runs without holding the lock.
type Session struct {
	submitter Submitter
	receipts  ReceiptMaker
	logger    *logrus.Logger

	mu            sync.Mutex
	generation    int
	form          models.FormState
	photos        []models.PhotoFile
	status        SubmissionStatus
	receiptStatus ReceiptStatus
	record        *models.SubmissionRecord
	receipt       *Receipt
}

func NewSession(submitter Submitter, receipts ReceiptMaker, logger *logrus.Logger) *Session {
	return &Session{
		submitter:     submitter,
		receipts:      receipts,
		logger:        logger,
		status:        SubmissionStatus{State: SubmissionIdle},
		receiptStatus: ReceiptStatus{State: ReceiptIdle},
	}
}

// Restore puts the session in success for an already stored record, so that a receipt
// can be generated for it
func (s *Session) Restore(record *models.SubmissionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.record = record.Clone()
	s.status = SubmissionStatus{State: SubmissionSuccess, Message: successMessage(record.LaudoID)}
}

// SetForm replaces the whole form
func (s *Session) SetForm(form models.FormState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	s.form = form
	s.form.DocumentosDisponiveis = append([]string(nil), form.DocumentosDisponiveis...)
	return nil
}

// Load replaces the form and the whole photo queue at once. Nothing changes when a
// photo has a disallowed type.
func (s *Session) Load(form models.FormState, photos []models.PhotoFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	for _, photo := range photos {
		if !models.ValidatePhotoType(photo.FileName) {
			return fmt.Errorf("file type not allowed: %s", photo.FileName)
		}
	}
	s.form = form
	s.form.DocumentosDisponiveis = append([]string(nil), form.DocumentosDisponiveis...)
	s.photos = append([]models.PhotoFile(nil), photos...)
	return nil
}

// Form returns a copy of the current form
func (s *Session) Form() models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := s.form
	form.DocumentosDisponiveis = append([]string(nil), s.form.DocumentosDisponiveis...)
	return form
}

// SetPhone stores the phone with the display mask applied
func (s *Session) SetPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	s.form.Whatsapp = models.FormatPhone(phone)
	return nil
}

// ToggleDocument checks or unchecks a document tag, keeping "Nenhum" exclusive
func (s *Session) ToggleDocument(tag string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	s.form.ToggleDocument(tag, checked)
	return nil
}

// QueuePhoto appends a photo to the upload queue
func (s *Session) QueuePhoto(photo models.PhotoFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	if !models.ValidatePhotoType(photo.FileName) {
		return fmt.Errorf("file type not allowed: %s", photo.FileName)
	}
	s.photos = append(s.photos, photo)
	return nil
}

// RemovePhoto drops the queued photo at index
func (s *Session) RemovePhoto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.photos) {
		return fmt.Errorf("no queued photo at index %d", index)
	}
	s.photos = append(s.photos[:index:index], s.photos[index+1:]...)
	return nil
}

// Photos returns the queued photos
func (s *Session) Photos() []models.PhotoFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.PhotoFile(nil), s.photos...)
}

// Status returns the submission status
func (s *Session) Status() SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// ReceiptStatus returns the receipt status
func (s *Session) ReceiptStatus() ReceiptStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.receiptStatus
}

// Record returns a deep copy of the record retained after success, or nil
func (s *Session) Record() *models.SubmissionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.record.Clone()
}

// Receipt returns the last generated receipt, or nil
func (s *Session) Receipt() *Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.receipt
}

// Reset clears the form, the photo queue, the retained record and both statuses.
// A submit still in flight will not write its result into the new state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// Submit validates the form and runs the pipeline. While a submit is in flight, or once
// one succeeded, it returns the current status without doing anything. Validation
// errors leave the status untouched and never reach the pipeline. After a failure the
// whole pipeline runs again with a new reference code.
func (s *Session) Submit(ctx context.Context) (SubmissionStatus, validation.Errors) {
	s.mu.Lock()
	if s.status.State == SubmissionSubmitting || s.status.State == SubmissionSuccess {
		status := s.status
		s.mu.Unlock()
		return status, nil
	}

	if errs := validation.Validate(s.form); errs.HasErrors() {
		status := s.status
		s.mu.Unlock()
		return status, errs
	}

	generation := s.generation
	form := s.form
	form.DocumentosDisponiveis = append([]string(nil), s.form.DocumentosDisponiveis...)
	photos := append([]models.PhotoFile(nil), s.photos...)
	s.status = SubmissionStatus{State: SubmissionSubmitting}
	s.mu.Unlock()

	record, err := s.submitter.Submit(ctx, form, photos)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.WithFields(logrus.Fields{
			"operation": "Submit",
		}).Debug("Session was reset while submitting, discarding result")
		return s.status, nil
	}

	if err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			s.status = SubmissionStatus{State: SubmissionIdle}
			return s.status, errs
		}
		s.status = SubmissionStatus{State: SubmissionFailed, Message: failureMessage(err)}
		return s.status, nil
	}

	s.record = record.Clone()
	s.status = SubmissionStatus{State: SubmissionSuccess, Message: successMessage(record.LaudoID)}
	return s.status, nil
}

// GenerateReceipt renders and stores the receipt of the retained record. It is only
// allowed after a successful submission and not while another receipt is being generated.
// Calling it again overwrites the stored document.
func (s *Session) GenerateReceipt(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()
	if s.status.State != SubmissionSuccess || s.record == nil {
		s.mu.Unlock()
		return nil, ErrReceiptUnavailable
	}
	if s.receiptStatus.State == ReceiptGenerating {
		s.mu.Unlock()
		return nil, ErrReceiptInProgress
	}

	generation := s.generation
	record := s.record.Clone()
	s.receiptStatus = ReceiptStatus{State: ReceiptGenerating}
	s.mu.Unlock()

	receipt, err := s.receipts.Generate(ctx, record)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return receipt, err
	}

	if err != nil {
		s.receiptStatus = ReceiptStatus{State: ReceiptFailed, Message: "Erro ao gerar o relatório: " + userFacingCause(err)}
		return nil, err
	}

	pdfURL := receipt.URL
	s.record.PDFURL = &pdfURL
	s.receipt = receipt
	s.receiptStatus = ReceiptStatus{State: ReceiptSuccess, Message: "Relatório gerado com sucesso!"}
	return receipt, nil
}

func (s *Session) editableLocked() error {
	switch s.status.State {
	case SubmissionSubmitting:
		return ErrSubmissionInProgress
	case SubmissionSuccess:
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *Session) resetLocked() {
	s.generation++
	s.form = models.FormState{}
	s.photos = nil
	s.record = nil
	s.receipt = nil
	s.status = SubmissionStatus{State: SubmissionIdle}
	s.receiptStatus = ReceiptStatus{State: ReceiptIdle}
}

func successMessage(laudoID string) string {
	return fmt.Sprintf("Solicitação enviada com sucesso! ID do Laudo: %s", laudoID)
}

func failureMessage(err error) string {
	if isConnectivityError(err) {
		return "Erro de conexão. Verifique sua internet e tente novamente."
	}

	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return "Erro ao enviar as fotos: " + strings.Join(uploadErr.FileNames(), ", ") + ". Tente novamente."
	}

	var insertErr *InsertError
	if errors.As(err, &insertErr) {
		return "Erro ao salvar a solicitação: " + insertErr.Err.Error()
	}

	return "Erro ao enviar a solicitação: " + err.Error()
}

func userFacingCause(err error) string {
	if isConnectivityError(err) {
		return "falha de conexão"
	}
	var receiptErr *ReceiptError
	if errors.As(err, &receiptErr) {
		return receiptErr.Err.Error()
	}
	return err.Error()
}

func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "failed to fetch")
}
