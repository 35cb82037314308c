package intake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type MockCounter struct {
	Count    int
	Err      error
	Prefixes []string
}

func (m *MockCounter) CountByLaudoPrefix(ctx context.Context, prefix string) (int, error) {
	m.Prefixes = append(m.Prefixes, prefix)
	return m.Count, m.Err
}

type storedObject struct {
	Key         string
	Body        []byte
	ContentType string
	Upsert      bool
}

type MockStore struct {
	mu         sync.Mutex
	Objects    []storedObject
	FailOn     map[string]error
	UploadErr  error
	BaseURL    string
	NoURL      bool
	OnUpload   func(key string)
	URLQueries []string
}

func (m *MockStore) Upload(ctx context.Context, key string, body []byte, contentType string, upsert bool) (string, error) {
	if m.OnUpload != nil {
		m.OnUpload(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects = append(m.Objects, storedObject{Key: key, Body: body, ContentType: contentType, Upsert: upsert})
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	for fragment, err := range m.FailOn {
		if strings.Contains(key, fragment) {
			return "", err
		}
	}
	return key, nil
}

func (m *MockStore) PublicURL(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URLQueries = append(m.URLQueries, key)
	if m.NoURL {
		return ""
	}
	return m.BaseURL + "/" + key
}

func (m *MockStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

type MockRecords struct {
	Inserted   []models.SubmissionRecord
	InsertErr  error
	CreatedAt  time.Time
	Updates    map[string]string
	UpdateErr  error
	UpdateCall int
}

func (m *MockRecords) InsertAvaliacao(ctx context.Context, record *models.SubmissionRecord) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	record.CreatedAt = m.CreatedAt
	m.Inserted = append(m.Inserted, *record)
	return nil
}

func (m *MockRecords) UpdatePDFURL(ctx context.Context, laudoID, pdfURL string) error {
	m.UpdateCall++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Updates == nil {
		m.Updates = map[string]string{}
	}
	m.Updates[laudoID] = pdfURL
	return nil
}

type MockNotifier struct {
	Payloads []interface{}
	CtxErrs  []error
	Err      error
}

func (m *MockNotifier) PostJSON(ctx context.Context, payload interface{}) error {
	m.Payloads = append(m.Payloads, payload)
	m.CtxErrs = append(m.CtxErrs, ctx.Err())
	return m.Err
}

func validForm() models.FormState {
	return models.FormState{
		NomeSolicitante:       "Maria Souza",
		Whatsapp:              "(71) 98765-4321",
		TipoCliente:           "proprietario",
		Logradouro:            "Rua das Flores",
		Numero:                "120",
		Bairro:                "Barra",
		Cidade:                "Salvador",
		UF:                    "BA",
		CEP:                   "40140-000",
		TipoImovel:            "urbano",
		AreaTerreno:           "360,5",
		AreaConstruidaNA:      true,
		IdadeConstrucao:       "12",
		EstadoGeral:           "Bom estado",
		Ocupado:               "ocupado",
		CondominioNA:          true,
		DocumentosDisponiveis: []string{models.DocumentoMatricula, models.DocumentoIPTU},
		SituacaoDocumentos:    "regular",
		Finalidade:            "venda",
	}
}

func photos(names ...string) []models.PhotoFile {
	files := make([]models.PhotoFile, len(names))
	for i, name := range names {
		files[i] = models.PhotoFile{FileName: name, Content: []byte("image-" + name)}
	}
	return files
}
