package models

import (
	"time"

	"github.com/google/uuid"
)

// FormState is the editable state of one in-progress appraisal request.
// Text inputs are kept as typed; nothing is normalized until BuildRecord.
type FormState struct {
	// Solicitante
	NomeSolicitante string `json:"nomeSolicitante" validate:"notblank"`
	Whatsapp        string `json:"whatsapp" validate:"notblank,br_phone"`
	TipoCliente     string `json:"tipoCliente" validate:"notblank,option=tipo_cliente"`

	// Endereço
	Logradouro string `json:"logradouro" validate:"notblank"`
	Numero     string `json:"numero" validate:"notblank"`
	Bairro     string `json:"bairro" validate:"notblank"`
	Cidade     string `json:"cidade" validate:"notblank"`
	UF         string `json:"uf" validate:"notblank,option=uf"`
	CEP        string `json:"cep" validate:"notblank"`

	// Imóvel
	TipoImovel       string `json:"tipoImovel" validate:"notblank,option=tipo_imovel"`
	AreaTerreno      string `json:"areaTerreno"`
	AreaTerrenoNA    bool   `json:"areaTerrenoNA"`
	AreaConstruida   string `json:"areaConstruida"`
	AreaConstruidaNA bool   `json:"areaConstruidaNA"`
	IdadeConstrucao  string `json:"idadeConstrucao"`
	EstadoGeral      string `json:"estadoGeral"`
	Ocupado          string `json:"ocupado" validate:"notblank,option=ocupado"`
	NomeCondominio   string `json:"nomeCondominio"`
	CondominioNA     bool   `json:"condominioNA"`

	// Documentação e finalidade
	DocumentosDisponiveis []string `json:"documentosDisponiveis" validate:"dive,option=documento"`
	SituacaoDocumentos    string   `json:"situacaoDocumentos" validate:"notblank,option=situacao_documentos"`
	Finalidade            string   `json:"finalidade" validate:"notblank,option=finalidade"`
	LinksFotos            string   `json:"linksFotos"`
	DetalhesAdicionais    string   `json:"detalhesAdicionais"`
}

// PhotoFile is a queued photo attachment held in memory until upload
type PhotoFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content"`
}

// SubmissionRecord is the row written to avaliacoes_imoveis and the payload posted to the webhook
type SubmissionRecord struct {
	ID                    uuid.UUID `json:"id"`
	LaudoID               string    `json:"laudo_id"`
	NomeCompleto          string    `json:"nome_completo"`
	Whatsapp              string    `json:"whatsapp"`
	TipoCliente           string    `json:"tipo_cliente"`
	EnderecoCompleto      string    `json:"endereco_completo"`
	TipoImovel            string    `json:"tipo_imovel"`
	AreaTerreno           *float64  `json:"area_terreno"`
	AreaTerrenoNA         bool      `json:"area_terreno_na"`
	AreaConstruida        *float64  `json:"area_construida"`
	AreaConstruidaNA      bool      `json:"area_construida_na"`
	IdadeConstrucao       *float64  `json:"idade_construcao"`
	EstadoGeral           string    `json:"estado_geral"`
	Ocupado               string    `json:"ocupado"`
	NomeCondominio        *string   `json:"nome_condominio"`
	CondominioNA          bool      `json:"condominio_na"`
	DocumentosDisponiveis []string  `json:"documentos_disponiveis"`
	SituacaoDocumentos    string    `json:"situacao_documentos"`
	Finalidade            string    `json:"finalidade"`
	LinksFotos            []string  `json:"links_fotos"`
	DetalhesAdicionais    *string   `json:"detalhes_adicionais"`
	PDFURL                *string   `json:"pdf_url"`
	CreatedAt             time.Time `json:"created_at"`
}

// SubmitRequest is the body of POST /avaliacoes
type SubmitRequest struct {
	Form  FormState   `json:"form"`
	Fotos []PhotoFile `json:"fotos"`
}

// SubmitResponse is returned once a submission reaches success
type SubmitResponse struct {
	LaudoID string            `json:"laudo_id"`
	Message string            `json:"message"`
	Record  *SubmissionRecord `json:"record"`
}

// ValidateResponse is returned by POST /avaliacoes/validar
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Clone returns a deep copy of r: slices and pointer fields share no memory with r
func (r *SubmissionRecord) Clone() *SubmissionRecord {
	if r == nil {
		return nil
	}
	copied := *r
	copied.AreaTerreno = clonePointer(r.AreaTerreno)
	copied.AreaConstruida = clonePointer(r.AreaConstruida)
	copied.IdadeConstrucao = clonePointer(r.IdadeConstrucao)
	copied.NomeCondominio = clonePointer(r.NomeCondominio)
	copied.DetalhesAdicionais = clonePointer(r.DetalhesAdicionais)
	copied.PDFURL = clonePointer(r.PDFURL)
	if r.DocumentosDisponiveis != nil {
		copied.DocumentosDisponiveis = append([]string(nil), r.DocumentosDisponiveis...)
	}
	if r.LinksFotos != nil {
		copied.LinksFotos = append([]string(nil), r.LinksFotos...)
	}
	return &copied
}

func clonePointer[T any](p *T) *T {
	if p == nil {
		return nil
	}
	value := *p
	return &value
}

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ListFilter pages through records newest first. Search matches the name, phone,
// address and laudo_id of a record, case-insensitively.
type ListFilter struct {
	Limit  int
	Offset int
	Search string
}

// ListResponse is returned by GET /avaliacoes
type ListResponse struct {
	Items  []SubmissionRecord `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
