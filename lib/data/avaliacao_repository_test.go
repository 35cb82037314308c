package data

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualityhome/lib/models"
)

func newAvaliacaoDao(t *testing.T) (*AvaliacaoDao, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &AvaliacaoDao{DB: db, Logger: logrus.New()}, mock
}

func Test_CountByLaudoPrefix_Success(t *testing.T) {
	//Arrange
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM avaliacoes_imoveis WHERE laudo_id LIKE $1")).
		WithArgs("QH-20250615-%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

	//Act
	count, err := dao.CountByLaudoPrefix(context.Background(), "QH-20250615-")

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 41, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_CountByLaudoPrefix_Failure(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("connection refused"))

	count, err := dao.CountByLaudoPrefix(context.Background(), "QH-20250615-")

	assert.Equal(t, 0, count)
	assert.EqualError(t, err, "connection refused")
}

func Test_InsertAvaliacao_Success(t *testing.T) {
	//Arrange
	dao, mock := newAvaliacaoDao(t)
	createdAt := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	area := 360.5
	record := &models.SubmissionRecord{
		ID:           uuid.New(),
		LaudoID:      "QH-20250615-0042",
		NomeCompleto: "Maria Souza",
		Whatsapp:     "71987654321",
		TipoCliente:  "proprietario",
		AreaTerreno:  &area,
		Finalidade:   "venda",
		LinksFotos:   []string{"https://cdn/1.jpg"},
	}
	mock.ExpectQuery("INSERT INTO avaliacoes_imoveis").
		WithArgs(
			record.ID.String(), "QH-20250615-0042", "Maria Souza", "71987654321", "proprietario",
			sqlmock.AnyArg(), sqlmock.AnyArg(), 360.5, false, nil, false, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil, false, nil,
			sqlmock.AnyArg(), "venda", "{\"https://cdn/1.jpg\"}", nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	//Act
	err := dao.InsertAvaliacao(context.Background(), record)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, createdAt, record.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_InsertAvaliacao_Failure(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery("INSERT INTO avaliacoes_imoveis").WillReturnError(errors.New("new row violates row-level security policy"))

	err := dao.InsertAvaliacao(context.Background(), &models.SubmissionRecord{ID: uuid.New(), LaudoID: "QH-20250615-0001"})

	assert.EqualError(t, err, "new row violates row-level security policy")
}

func Test_GetByLaudoID_Success(t *testing.T) {
	//Arrange
	dao, mock := newAvaliacaoDao(t)
	id := uuid.New()
	createdAt := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "laudo_id", "nome_completo", "whatsapp", "tipo_cliente", "endereco_completo", "tipo_imovel",
		"area_terreno", "area_terreno_na", "area_construida", "area_construida_na", "idade_construcao",
		"estado_geral", "ocupado", "nome_condominio", "condominio_na", "documentos_disponiveis",
		"situacao_documentos", "finalidade", "links_fotos", "detalhes_adicionais", "pdf_url", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM avaliacoes_imoveis WHERE laudo_id = \\$1").
		WithArgs("QH-20250615-0042").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			id.String(), "QH-20250615-0042", "Maria Souza", "71987654321", "proprietario",
			"Rua A, nº 1, Centro, Salvador - BA, CEP: 40000-000", "urbano",
			360.5, false, nil, true, 12.0,
			"Bom", "ocupado", nil, true, "{Matrícula,IPTU}",
			"regular", "venda", nil, "Portão azul", nil, createdAt,
		))

	//Act
	record, err := dao.GetByLaudoID(context.Background(), "QH-20250615-0042")

	//Assert
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	require.NotNil(t, record.AreaTerreno)
	assert.Equal(t, 360.5, *record.AreaTerreno)
	assert.Nil(t, record.AreaConstruida)
	assert.True(t, record.AreaConstruidaNA)
	assert.Nil(t, record.NomeCondominio)
	assert.Equal(t, []string{"Matrícula", "IPTU"}, record.DocumentosDisponiveis)
	assert.Nil(t, record.LinksFotos)
	require.NotNil(t, record.DetalhesAdicionais)
	assert.Equal(t, "Portão azul", *record.DetalhesAdicionais)
	assert.Nil(t, record.PDFURL)
	assert.Equal(t, createdAt, record.CreatedAt)
}

func Test_GetByLaudoID_NotFound(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery("SELECT (.+) FROM avaliacoes_imoveis").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	record, err := dao.GetByLaudoID(context.Background(), "QH-20250615-9999")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrLaudoNotFound)
}

func Test_UpdatePDFURL_Success(t *testing.T) {
	//Arrange
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE avaliacoes_imoveis SET pdf_url = $1 WHERE laudo_id = $2")).
		WithArgs("https://cdn/laudos_pdf/QH-20250615-0042.pdf", "QH-20250615-0042").
		WillReturnResult(sqlmock.NewResult(0, 1))

	//Act
	err := dao.UpdatePDFURL(context.Background(), "QH-20250615-0042", "https://cdn/laudos_pdf/QH-20250615-0042.pdf")

	//Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_UpdatePDFURL_NoRows(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectExec("UPDATE avaliacoes_imoveis").WillReturnResult(sqlmock.NewResult(0, 0))

	err := dao.UpdatePDFURL(context.Background(), "QH-20250615-9999", "https://cdn/x.pdf")

	assert.ErrorIs(t, err, ErrLaudoNotFound)
}

func Test_UpdatePDFURL_Failure(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectExec("UPDATE avaliacoes_imoveis").WillReturnError(errors.New("timeout"))

	err := dao.UpdatePDFURL(context.Background(), "QH-20250615-0001", "https://cdn/x.pdf")

	assert.EqualError(t, err, "timeout")
}

func avaliacaoRow(columns []string, laudoID string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		uuid.New().String(), laudoID, "Maria Souza", "71987654321", "proprietario",
		"Rua A, nº 1, Centro, Salvador - BA, CEP: 40000-000", "urbano",
		nil, true, nil, true, nil,
		"", "ocupado", nil, true, nil,
		"regular", "venda", "{https://cdn/a.jpg}", nil, nil, createdAt,
	)
}

var listColumns = []string{
	"id", "laudo_id", "nome_completo", "whatsapp", "tipo_cliente", "endereco_completo", "tipo_imovel",
	"area_terreno", "area_terreno_na", "area_construida", "area_construida_na", "idade_construcao",
	"estado_geral", "ocupado", "nome_condominio", "condominio_na", "documentos_disponiveis",
	"situacao_documentos", "finalidade", "links_fotos", "detalhes_adicionais", "pdf_url", "created_at",
}

func Test_ListAvaliacoes_WithSearch(t *testing.T) {
	//Arrange
	dao, mock := newAvaliacaoDao(t)
	createdAt := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM avaliacoes_imoveis WHERE nome_completo ILIKE \$1 (.+) ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(`%50\%\_off%`, 20, 40).
		WillReturnRows(avaliacaoRow(listColumns, "QH-20250615-0042", createdAt))

	//Act
	records, err := dao.ListAvaliacoes(context.Background(), models.ListFilter{Limit: 20, Offset: 40, Search: " 50%_off "})

	//Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "QH-20250615-0042", records[0].LaudoID)
	assert.Equal(t, []string{"https://cdn/a.jpg"}, records[0].LinksFotos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_ListAvaliacoes_WithoutSearch(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery(`SELECT (.+) FROM avaliacoes_imoveis ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(listColumns))

	records, err := dao.ListAvaliacoes(context.Background(), models.ListFilter{Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_ListAvaliacoes_QueryError(t *testing.T) {
	dao, mock := newAvaliacaoDao(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	records, err := dao.ListAvaliacoes(context.Background(), models.ListFilter{Limit: 10})

	assert.Nil(t, records)
	assert.EqualError(t, err, "connection reset")
}
