package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/constants"
	"qualityhome/lib/models"
)

// ErrLaudoNotFound is returned when no row carries the requested laudo_id
var ErrLaudoNotFound = errors.New("laudo not found")

// AvaliacaoRepository defines the operations on the avaliacoes_imoveis table
type AvaliacaoRepository interface {
	CountByLaudoPrefix(ctx context.Context, prefix string) (int, error)
	InsertAvaliacao(ctx context.Context, record *models.SubmissionRecord) error
	GetByLaudoID(ctx context.Context, laudoID string) (*models.SubmissionRecord, error)
	ListAvaliacoes(ctx context.Context, filter models.ListFilter) ([]models.SubmissionRecord, error)
	UpdatePDFURL(ctx context.Context, laudoID, pdfURL string) error
}

// AvaliacaoDao implements AvaliacaoRepository on PostgreSQL
type AvaliacaoDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
}

const avaliacaoColumns = `
	id, laudo_id, nome_completo, whatsapp, tipo_cliente, endereco_completo, tipo_imovel,
	area_terreno, area_terreno_na, area_construida, area_construida_na, idade_construcao,
	estado_geral, ocupado, nome_condominio, condominio_na, documentos_disponiveis,
	situacao_documentos, finalidade, links_fotos, detalhes_adicionais, pdf_url, created_at`

// CountByLaudoPrefix counts the rows whose laudo_id starts with prefix
func (dao *AvaliacaoDao) CountByLaudoPrefix(ctx context.Context, prefix string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE laudo_id LIKE $1`, constants.AVALIACOES_TABLE)

	var count int
	if err := dao.DB.QueryRowContext(ctx, query, prefix+"%").Scan(&count); err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"operation": "CountByLaudoPrefix",
			"prefix":    prefix,
		}).Error("Failed to count avaliacoes by laudo prefix")
		return 0, err
	}

	return count, nil
}

// InsertAvaliacao writes record as a single row and sets its created_at from the database
func (dao *AvaliacaoDao) InsertAvaliacao(ctx context.Context, record *models.SubmissionRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, laudo_id, nome_completo, whatsapp, tipo_cliente, endereco_completo, tipo_imovel,
			area_terreno, area_terreno_na, area_construida, area_construida_na, idade_construcao,
			estado_geral, ocupado, nome_condominio, condominio_na, documentos_disponiveis,
			situacao_documentos, finalidade, links_fotos, detalhes_adicionais
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING created_at
	`, constants.AVALIACOES_TABLE)

	err := dao.DB.QueryRowContext(ctx, query,
		record.ID,
		record.LaudoID,
		record.NomeCompleto,
		record.Whatsapp,
		record.TipoCliente,
		record.EnderecoCompleto,
		record.TipoImovel,
		record.AreaTerreno,
		record.AreaTerrenoNA,
		record.AreaConstruida,
		record.AreaConstruidaNA,
		record.IdadeConstrucao,
		record.EstadoGeral,
		record.Ocupado,
		record.NomeCondominio,
		record.CondominioNA,
		nullableArray(record.DocumentosDisponiveis),
		record.SituacaoDocumentos,
		record.Finalidade,
		nullableArray(record.LinksFotos),
		record.DetalhesAdicionais,
	).Scan(&record.CreatedAt)

	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"operation": "InsertAvaliacao",
			"laudo_id":  record.LaudoID,
		}).Error("Failed to insert avaliacao")
		return err
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "InsertAvaliacao",
		"id":        record.ID,
		"laudo_id":  record.LaudoID,
	}).Info("Avaliacao inserted successfully")

	return nil
}

// GetByLaudoID returns the most recent row carrying laudoID
func (dao *AvaliacaoDao) GetByLaudoID(ctx context.Context, laudoID string) (*models.SubmissionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE laudo_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, avaliacaoColumns, constants.AVALIACOES_TABLE)

	record, err := scanAvaliacao(dao.DB.QueryRowContext(ctx, query, laudoID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLaudoNotFound
		}
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"operation": "GetByLaudoID",
			"laudo_id":  laudoID,
		}).Error("Failed to get avaliacao")
		return nil, err
	}

	return record, nil
}

// ListAvaliacoes returns one page of records, newest first
func (dao *AvaliacaoDao) ListAvaliacoes(ctx context.Context, filter models.ListFilter) ([]models.SubmissionRecord, error) {
	args := []interface{}{}
	where := ""
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		where = `WHERE nome_completo ILIKE $1 OR whatsapp ILIKE $1 OR endereco_completo ILIKE $1 OR laudo_id ILIKE $1`
	}
	args = append(args, filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, avaliacaoColumns, constants.AVALIACOES_TABLE, where, len(args)-1, len(args))

	rows, err := dao.DB.QueryContext(ctx, query, args...)
	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"operation": "ListAvaliacoes",
			"search":    filter.Search,
		}).Error("Failed to list avaliacoes")
		return nil, err
	}
	defer rows.Close()

	records := []models.SubmissionRecord{}
	for rows.Next() {
		record, err := scanAvaliacao(rows)
		if err != nil {
			dao.Logger.WithError(err).WithField("operation", "ListAvaliacoes").Error("Failed to scan avaliacao")
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAvaliacao(row rowScanner) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	err := row.Scan(
		&record.ID,
		&record.LaudoID,
		&record.NomeCompleto,
		&record.Whatsapp,
		&record.TipoCliente,
		&record.EnderecoCompleto,
		&record.TipoImovel,
		&record.AreaTerreno,
		&record.AreaTerrenoNA,
		&record.AreaConstruida,
		&record.AreaConstruidaNA,
		&record.IdadeConstrucao,
		&record.EstadoGeral,
		&record.Ocupado,
		&record.NomeCondominio,
		&record.CondominioNA,
		pq.Array(&record.DocumentosDisponiveis),
		&record.SituacaoDocumentos,
		&record.Finalidade,
		pq.Array(&record.LinksFotos),
		&record.DetalhesAdicionais,
		&record.PDFURL,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes % and _ in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// UpdatePDFURL sets pdf_url on every row carrying laudoID
func (dao *AvaliacaoDao) UpdatePDFURL(ctx context.Context, laudoID, pdfURL string) error {
	query := fmt.Sprintf(`UPDATE %s SET pdf_url = $1 WHERE laudo_id = $2`, constants.AVALIACOES_TABLE)

	result, err := dao.DB.ExecContext(ctx, query, pdfURL, laudoID)
	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"operation": "UpdatePDFURL",
			"laudo_id":  laudoID,
		}).Error("Failed to update avaliacao pdf_url")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrLaudoNotFound
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":     "UpdatePDFURL",
		"laudo_id":      laudoID,
		"rows_affected": rowsAffected,
	}).Info("Avaliacao pdf_url updated successfully")

	return nil
}

// nullableArray stores an empty list as NULL rather than '{}'
func nullableArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
