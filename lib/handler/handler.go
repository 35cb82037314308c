package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/api"
	"qualityhome/lib/data"
	"qualityhome/lib/intake"
	"qualityhome/lib/models"
	"qualityhome/lib/util"
	"qualityhome/lib/validation"
)

var laudoIDPattern = regexp.MustCompile(`^QH-\d{8}-\d{4,}$`)

const submissionInProgressMessage = "Solicitação já está sendo enviada"

// RecordReader loads stored records
type RecordReader interface {
	GetByLaudoID(ctx context.Context, laudoID string) (*models.SubmissionRecord, error)
	ListAvaliacoes(ctx context.Context, filter models.ListFilter) ([]models.SubmissionRecord, error)
}

// IntakeHandler routes API Gateway requests of the intake API
//
//	POST /avaliacoes                       - submit the form with its photos
//	GET  /avaliacoes                       - list records (limit, offset, search)
//	POST /avaliacoes/validar               - validate the form only
//	GET  /avaliacoes/{laudo_id}            - fetch a submitted record
//	POST /avaliacoes/{laudo_id}/laudo-pdf  - generate, store and download the receipt
type IntakeHandler struct {
	Submitter     intake.Submitter
	Receipts      intake.ReceiptMaker
	Records       RecordReader
	Logger        *logrus.Logger
	MaxPhotoBytes int64

	// sessions holds the Session of each Idempotency-Key seen by this process
	sessions sessionRegistry
}

// Handle dispatches request by resource and method
func (h *IntakeHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.Logger.WithFields(logrus.Fields{
		"method":      request.HTTPMethod,
		"path":        request.Path,
		"resource":    request.Resource,
		"path_params": request.PathParameters,
		"operation":   "Handle",
	}).Debug("Processing intake request")

	switch {
	case request.Resource == "/avaliacoes" && request.HTTPMethod == http.MethodPost:
		return h.handleSubmit(ctx, request)
	case request.Resource == "/avaliacoes" && request.HTTPMethod == http.MethodGet:
		return h.handleList(ctx, request)
	case request.Resource == "/avaliacoes/validar" && request.HTTPMethod == http.MethodPost:
		return h.handleValidate(request)
	case request.Resource == "/avaliacoes/{laudo_id}" && request.HTTPMethod == http.MethodGet:
		return h.handleGetRecord(ctx, request)
	case request.Resource == "/avaliacoes/{laudo_id}/laudo-pdf" && request.HTTPMethod == http.MethodPost:
		return h.handleGenerateReceipt(ctx, request)
	default:
		h.Logger.WithFields(logrus.Fields{
			"method":    request.HTTPMethod,
			"resource":  request.Resource,
			"operation": "Handle",
		}).Warn("Endpoint not found")
		return api.ErrorResponse(http.StatusNotFound, "Endpoint não encontrado", h.Logger), nil
	}
}

// handleSubmit handles POST /avaliacoes. Requests sharing an Idempotency-Key share one
// Session: a repeat while the first is in flight gets 409, a repeat after success gets
// the stored result again, and a repeat after failure retries.
func (h *IntakeHandler) handleSubmit(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var submitReq models.SubmitRequest
	if err := h.parseBody(request, &submitReq); err != nil {
		h.Logger.WithError(err).Error("Invalid request body for submission")
		return api.ErrorResponse(http.StatusBadRequest, "Corpo da requisição inválido", h.Logger), nil
	}

	for _, photo := range submitReq.Fotos {
		if h.MaxPhotoBytes > 0 && int64(len(photo.Content)) > h.MaxPhotoBytes {
			return api.ErrorResponse(http.StatusRequestEntityTooLarge, "Foto muito grande: "+photo.FileName, h.Logger), nil
		}
		if !models.ValidatePhotoType(photo.FileName) {
			return api.ErrorResponse(http.StatusBadRequest, "Tipo de arquivo não permitido: "+photo.FileName, h.Logger), nil
		}
	}

	idempotencyKey := strings.TrimSpace(api.HeaderValue(request.Headers, idempotencyKeyHeader))
	if len(idempotencyKey) > maxIdempotencyKeyLen {
		return api.ErrorResponse(http.StatusBadRequest, "Idempotency-Key inválido", h.Logger), nil
	}
	session := h.submitSession(idempotencyKey)

	if err := session.Load(submitReq.Form, submitReq.Fotos); err != nil {
		switch {
		case errors.Is(err, intake.ErrAlreadySubmitted):
			h.Logger.WithFields(logrus.Fields{
				"operation":       "handleSubmit",
				"idempotency_key": idempotencyKey,
			}).Info("Replaying completed submission")
			return h.submitted(session, http.StatusOK), nil
		case errors.Is(err, intake.ErrSubmissionInProgress):
			return api.ErrorResponse(http.StatusConflict, submissionInProgressMessage, h.Logger), nil
		default:
			return api.ErrorResponse(http.StatusBadRequest, err.Error(), h.Logger), nil
		}
	}

	status, errs := session.Submit(ctx)
	if errs.HasErrors() {
		return api.ValidationErrorResponse("Preencha todos os campos obrigatórios corretamente", errs.AsMap(), h.Logger), nil
	}

	switch status.State {
	case intake.SubmissionSuccess:
		return h.submitted(session, http.StatusCreated), nil
	case intake.SubmissionSubmitting:
		return api.ErrorResponse(http.StatusConflict, submissionInProgressMessage, h.Logger), nil
	default:
		h.Logger.WithFields(logrus.Fields{
			"operation": "handleSubmit",
			"state":     status.State,
			"message":   status.Message,
		}).Error("Submission failed")
		return api.ErrorResponse(http.StatusBadGateway, status.Message, h.Logger), nil
	}
}

func (h *IntakeHandler) submitSession(idempotencyKey string) *intake.Session {
	create := func() *intake.Session {
		return intake.NewSession(h.Submitter, h.Receipts, h.Logger)
	}
	if idempotencyKey == "" {
		return create()
	}
	return h.sessions.get(idempotencyKey, create)
}

func (h *IntakeHandler) submitted(session *intake.Session, statusCode int) events.APIGatewayProxyResponse {
	record := session.Record()
	return api.SuccessResponse(statusCode, models.SubmitResponse{
		LaudoID: record.LaudoID,
		Message: session.Status().Message,
		Record:  record,
	}, h.Logger)
}

// handleList handles GET /avaliacoes
func (h *IntakeHandler) handleList(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	filter, err := parseListFilter(request.QueryStringParameters)
	if err != nil {
		h.Logger.WithError(err).WithField("operation", "handleList").Warn("Invalid list parameters")
		return api.ErrorResponse(http.StatusBadRequest, "Parâmetros de paginação inválidos", h.Logger), nil
	}

	records, err := h.Records.ListAvaliacoes(ctx, filter)
	if err != nil {
		h.Logger.WithError(err).WithField("operation", "handleList").Error("Failed to list records")
		return api.ErrorResponse(http.StatusInternalServerError, "Erro ao listar os laudos", h.Logger), nil
	}

	return api.SuccessResponse(http.StatusOK, models.ListResponse{
		Items:  records,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, h.Logger), nil
}

// parseListFilter reads limit (default 10, capped at 100), offset and search
func parseListFilter(params map[string]string) (models.ListFilter, error) {
	filter := models.ListFilter{
		Limit:  models.DefaultListLimit,
		Search: strings.TrimSpace(params["search"]),
	}

	if raw := strings.TrimSpace(params["limit"]); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = min(limit, models.MaxListLimit)
	}

	if raw := strings.TrimSpace(params["offset"]); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, fmt.Errorf("invalid offset %q", raw)
		}
		filter.Offset = offset
	}

	return filter, nil
}

// handleValidate handles POST /avaliacoes/validar
func (h *IntakeHandler) handleValidate(request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var form models.FormState
	if err := h.parseBody(request, &form); err != nil {
		h.Logger.WithError(err).Error("Invalid request body for validation")
		return api.ErrorResponse(http.StatusBadRequest, "Corpo da requisição inválido", h.Logger), nil
	}

	errs := validation.Validate(form)
	return api.SuccessResponse(http.StatusOK, models.ValidateResponse{
		Valid:  !errs.HasErrors(),
		Errors: errs.AsMap(),
	}, h.Logger), nil
}

// handleGetRecord handles GET /avaliacoes/{laudo_id}
func (h *IntakeHandler) handleGetRecord(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	record, response, ok := h.loadRecord(ctx, request)
	if !ok {
		return response, nil
	}
	return api.SuccessResponse(http.StatusOK, record, h.Logger), nil
}

// handleGenerateReceipt handles POST /avaliacoes/{laudo_id}/laudo-pdf
func (h *IntakeHandler) handleGenerateReceipt(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	record, response, ok := h.loadRecord(ctx, request)
	if !ok {
		return response, nil
	}

	session := intake.NewSession(h.Submitter, h.Receipts, h.Logger)
	session.Restore(record)

	receipt, err := session.GenerateReceipt(ctx)
	if err != nil {
		h.Logger.WithError(err).WithField("laudo_id", record.LaudoID).Error("Failed to generate receipt")
		return api.ErrorResponse(http.StatusBadGateway, session.ReceiptStatus().Message, h.Logger), nil
	}

	return util.CreateFileResponse(http.StatusOK, "application/pdf", receipt.FileName, receipt.Content, map[string]string{
		"X-Laudo-Pdf-Url": receipt.URL,
	}), nil
}

func (h *IntakeHandler) loadRecord(ctx context.Context, request events.APIGatewayProxyRequest) (*models.SubmissionRecord, events.APIGatewayProxyResponse, bool) {
	laudoID := request.PathParameters["laudo_id"]
	if !laudoIDPattern.MatchString(laudoID) {
		return nil, api.ErrorResponse(http.StatusBadRequest, "ID do laudo inválido", h.Logger), false
	}

	record, err := h.Records.GetByLaudoID(ctx, laudoID)
	if err != nil {
		if errors.Is(err, data.ErrLaudoNotFound) {
			return nil, api.ErrorResponse(http.StatusNotFound, "Laudo não encontrado", h.Logger), false
		}
		h.Logger.WithError(err).WithField("laudo_id", laudoID).Error("Failed to get record")
		return nil, api.ErrorResponse(http.StatusInternalServerError, "Erro ao buscar o laudo", h.Logger), false
	}
	return record, events.APIGatewayProxyResponse{}, true
}

func (h *IntakeHandler) parseBody(request events.APIGatewayProxyRequest, target interface{}) error {
	body, err := api.RequestBody(request)
	if err != nil {
		return err
	}
	return api.ParseJSONBody(body, target)
}
