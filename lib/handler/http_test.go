package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualityhome/lib/intake"
	"qualityhome/lib/models"
)

func TestRoutes_Submit(t *testing.T) {
	//Arrange
	h := testHandler(&MockSubmitter{}, &MockReceipts{}, &MockRecords{})
	body, _ := json.Marshal(models.SubmitRequest{Form: validForm()})
	request := httptest.NewRequest(http.MethodPost, "/avaliacoes", bytes.NewReader(body))
	recorder := httptest.NewRecorder()

	//Act
	h.Routes().ServeHTTP(recorder, request)

	//Assert
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "QH-20250615-0042")
}

func TestRoutes_ReceiptIsBinary(t *testing.T) {
	//Arrange
	receipts := &MockReceipts{Receipt: &intake.Receipt{FileName: "QH-20250615-0042.pdf", URL: "https://cdn/x.pdf", Content: []byte("%PDF-1.3 body")}}
	records := &MockRecords{Record: &models.SubmissionRecord{LaudoID: "QH-20250615-0042"}}
	h := testHandler(&MockSubmitter{}, receipts, records)
	request := httptest.NewRequest(http.MethodPost, "/avaliacoes/QH-20250615-0042/laudo-pdf", nil)
	recorder := httptest.NewRecorder()

	//Act
	h.Routes().ServeHTTP(recorder, request)

	//Assert
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "%PDF-1.3 body", recorder.Body.String())
	assert.Equal(t, `attachment; filename="QH-20250615-0042.pdf"`, recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, "https://cdn/x.pdf", recorder.Header().Get("X-Laudo-Pdf-Url"))
}

func TestRoutes_GetRecordPathParameter(t *testing.T) {
	records := &MockRecords{Err: errors.New("timeout")}
	h := testHandler(&MockSubmitter{}, &MockReceipts{}, records)
	recorder := httptest.NewRecorder()

	h.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/avaliacoes/QH-20250615-0042", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRoutes_Healthz(t *testing.T) {
	h := testHandler(&MockSubmitter{}, &MockReceipts{}, &MockRecords{})
	recorder := httptest.NewRecorder()

	h.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())
}

func TestRoutes_UnknownRoute(t *testing.T) {
	h := testHandler(&MockSubmitter{}, &MockReceipts{}, &MockRecords{})
	recorder := httptest.NewRecorder()

	h.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/avaliacoes/QH-20250615-0042", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestRoutes_ListPassesQuery(t *testing.T) {
	records := &MockRecords{Records: []models.SubmissionRecord{}}
	h := testHandler(&MockSubmitter{}, &MockReceipts{}, records)
	recorder := httptest.NewRecorder()

	h.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/avaliacoes?limit=5&search=Salvador", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.ListFilter{Limit: 5, Search: "Salvador"}, records.Filter)
	assert.JSONEq(t, `{"items":[],"limit":5,"offset":0}`, recorder.Body.String())
}

func TestRoutes_IdempotencyKeyHeader(t *testing.T) {
	submitter := &MockSubmitter{}
	h := testHandler(submitter, &MockReceipts{}, &MockRecords{})
	router := h.Routes()
	body, _ := json.Marshal(models.SubmitRequest{Form: validForm()})

	codes := []int{}
	for i := 0; i < 2; i++ {
		request := httptest.NewRequest(http.MethodPost, "/avaliacoes", bytes.NewReader(body))
		request.Header.Set("Idempotency-Key", "form-7f3a")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusOK}, codes)
	assert.Equal(t, 1, submitter.Calls)
}
