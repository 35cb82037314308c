package intake

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/models"
)

const receiptContentType = "application/pdf"

// PDFURLUpdater patches the receipt URL of a stored record
type PDFURLUpdater interface {
	UpdatePDFURL(ctx context.Context, laudoID, pdfURL string) error
}

// Receipt is a rendered and stored receipt document
type Receipt struct {
	FileName string
	URL      string
	Content  []byte
}

// ReceiptGenerator renders the receipt of a submitted record, stores it and links it to the record
type ReceiptGenerator struct {
	Store    ObjectStore
	Records  PDFURLUpdater
	Logger   *logrus.Logger
	Location *time.Location
	// Render replaces RenderReceipt in tests
	Render func(record *models.SubmissionRecord, loc *time.Location) ([]byte, error)
}

func NewReceiptGenerator(store ObjectStore, records PDFURLUpdater, logger *logrus.Logger, loc *time.Location) *ReceiptGenerator {
	return &ReceiptGenerator{
		Store:    store,
		Records:  records,
		Logger:   logger,
		Location: loc,
		Render:   RenderReceipt,
	}
}

// ReceiptFileName returns "<laudoID>.pdf"
func ReceiptFileName(laudoID string) string {
	return laudoID + ".pdf"
}

// Generate renders record, overwrites <laudo_id>.pdf in the receipts bucket and sets pdf_url
// on the stored row. The bytes are returned only when every step succeeded.
func (g *ReceiptGenerator) Generate(ctx context.Context, record *models.SubmissionRecord) (*Receipt, error) {
	if record == nil || record.LaudoID == "" {
		return nil, &ReceiptError{Step: ReceiptStepRender, Err: errors.New("record has no laudo id")}
	}

	logger := g.Logger.WithFields(logrus.Fields{
		"operation": "GenerateReceipt",
		"laudo_id":  record.LaudoID,
	})
	fail := func(step ReceiptStep, err error) (*Receipt, error) {
		receiptErr := &ReceiptError{LaudoID: record.LaudoID, Step: step, Err: err}
		logger.WithField("step", step).WithError(err).Error("Receipt generation failed")
		return nil, receiptErr
	}

	render := g.Render
	if render == nil {
		render = RenderReceipt
	}
	content, err := render(record, g.Location)
	if err != nil {
		return fail(ReceiptStepRender, err)
	}

	fileName := ReceiptFileName(record.LaudoID)
	path, err := g.Store.Upload(ctx, fileName, content, receiptContentType, true)
	if err != nil {
		return fail(ReceiptStepUpload, err)
	}

	publicURL := g.Store.PublicURL(path)
	if publicURL == "" {
		return fail(ReceiptStepPublicURL, errors.New("storage returned an empty public url"))
	}

	if err := g.Records.UpdatePDFURL(ctx, record.LaudoID, publicURL); err != nil {
		return fail(ReceiptStepUpdateRecord, err)
	}

	logger.WithField("pdf_url", publicURL).Info("Receipt generated")
	return &Receipt{
		FileName: fileName,
		URL:      publicURL,
		Content:  content,
	}, nil
}
