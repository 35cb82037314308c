package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/models"
	"qualityhome/lib/validation"
)

// IDAllocator hands out reference codes for a date prefix
type IDAllocator interface {
	Allocate(ctx context.Context, datePrefix string) (string, error)
}

// PhotoUploader stores a batch of photos and returns their public URLs in input order
type PhotoUploader interface {
	UploadAll(ctx context.Context, files []models.PhotoFile, destinationPrefix string) ([]string, error)
}

// RecordStore persists a submitted record
type RecordStore interface {
	InsertAvaliacao(ctx context.Context, record *models.SubmissionRecord) error
}

// Notifier forwards an inserted record to an external system
type Notifier interface {
	PostJSON(ctx context.Context, payload interface{}) error
}

// Pipeline runs one submission: allocate, upload, build, insert, notify.
// It keeps no state between calls.
type Pipeline struct {
	Allocator IDAllocator
	Uploader  PhotoUploader
	Records   RecordStore
	// Notifier may be nil, in which case no webhook is called
	Notifier Notifier
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
	NewID    func() uuid.UUID
}

// Submit validates form and runs the pipeline. Upload and insert failures are returned
// as *UploadError and *InsertError; a failed notification never is.
func (p *Pipeline) Submit(ctx context.Context, form models.FormState, photos []models.PhotoFile) (*models.SubmissionRecord, error) {
	if errs := validation.Validate(form); errs.HasErrors() {
		return nil, errs
	}

	datePrefix := models.DatePrefix(p.now(), p.Location)
	laudoID, err := p.Allocator.Allocate(ctx, datePrefix)
	if err != nil {
		var allocationErr *AllocationError
		if !errors.As(err, &allocationErr) || laudoID == "" {
			return nil, err
		}
	}

	logger := p.Logger.WithFields(logrus.Fields{
		"operation": "Submit",
		"laudo_id":  laudoID,
		"photos":    len(photos),
	})

	photoURLs, err := p.Uploader.UploadAll(ctx, photos, PhotoPrefix(laudoID))
	if err != nil {
		logger.WithError(err).Error("Aborting submission, photos not uploaded")
		return nil, err
	}

	record := models.BuildRecord(p.newID(), laudoID, form, photoURLs)

	if err := p.Records.InsertAvaliacao(ctx, &record); err != nil {
		logger.WithError(err).Error("Aborting submission, record not inserted")
		return nil, &InsertError{LaudoID: laudoID, Err: err}
	}

	p.notify(ctx, &record)

	logger.Info("Submission completed")
	return &record, nil
}

// notify waits for the webhook but only logs its outcome. The call outlives a
// cancelled request context and is bounded by the notifier's own timeout.
func (p *Pipeline) notify(ctx context.Context, record *models.SubmissionRecord) {
	if p.Notifier == nil {
		return
	}

	if err := p.Notifier.PostJSON(context.WithoutCancel(ctx), record); err != nil {
		notifyErr := &NotifyError{LaudoID: record.LaudoID, Err: err}
		p.Logger.WithFields(logrus.Fields{
			"operation": "notify",
			"laudo_id":  record.LaudoID,
			"error":     notifyErr.Error(),
		}).Warn("Webhook notification failed")
		return
	}

	p.Logger.WithFields(logrus.Fields{
		"operation": "notify",
		"laudo_id":  record.LaudoID,
	}).Debug("Webhook notified")
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pipeline) newID() uuid.UUID {
	if p.NewID == nil {
		return uuid.New()
	}
	return p.NewID()
}
