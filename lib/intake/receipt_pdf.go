package intake

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"qualityhome/lib/models"
)

const (
	receiptTitle   = "Relatório de Solicitação de Avaliação"
	notApplicable  = "N/A"
	notInformed    = "Não informado"
	receiptCreator = "Quality Home Avalia"
	labelWidth     = 60
	lineHeight     = 7
)

type receiptField struct {
	label string
	value string
}

type receiptSection struct {
	title  string
	fields []receiptField
	lines  []string
}

// RenderReceipt draws the A4 receipt of record. created_at is shown in loc.
func RenderReceipt(record *models.SubmissionRecord, loc *time.Location) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(receiptTitle, true)
	pdf.SetCreator(receiptCreator, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - página %d/{nb}", receiptCreator, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(20, 40, 80)
	pdf.CellFormat(0, 10, tr(receiptTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("ID do Laudo: "+record.LaudoID), "", 1, "C", false, 0, "")
	if !record.CreatedAt.IsZero() {
		created := record.CreatedAt
		if loc != nil {
			created = created.In(loc)
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("Data da solicitação: "+created.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range receiptSections(record) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 236, 245)
		pdf.SetTextColor(20, 40, 80)
		pdf.CellFormat(0, 8, tr(section.title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(1)

		for _, field := range section.fields {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(labelWidth, lineHeight, tr(field.label+":"), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, lineHeight, tr(field.value), "", "L", false)
		}
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range section.lines {
			pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func receiptSections(record *models.SubmissionRecord) []receiptSection {
	photoLines := []string{"Nenhuma foto enviada"}
	if len(record.LinksFotos) > 0 {
		photoLines = make([]string, len(record.LinksFotos))
		for i, link := range record.LinksFotos {
			photoLines[i] = fmt.Sprintf("%d. %s", i+1, link)
		}
	}

	return []receiptSection{
		{
			title: "Informações do Solicitante",
			fields: []receiptField{
				{"Nome", record.NomeCompleto},
				{"WhatsApp", models.FormatPhone(record.Whatsapp)},
				{"Tipo de Cliente", models.TipoClienteOptions.Label(record.TipoCliente)},
			},
		},
		{
			title:  "Endereço do Imóvel",
			fields: []receiptField{{"Endereço", record.EnderecoCompleto}},
		},
		{
			title: "Detalhes do Imóvel",
			fields: []receiptField{
				{"Tipo de Imóvel", models.TipoImovelOptions.Label(record.TipoImovel)},
				{"Área do Terreno", formatMeasure(record.AreaTerreno, record.AreaTerrenoNA, "m²")},
				{"Área Construída", formatMeasure(record.AreaConstruida, record.AreaConstruidaNA, "m²")},
				{"Idade da Construção", formatMeasure(record.IdadeConstrucao, false, "anos")},
				{"Estado Geral", textOr(record.EstadoGeral, notInformed)},
				{"Ocupação", models.OcupadoOptions.Label(record.Ocupado)},
				{"Condomínio", condominiumLabel(record)},
			},
		},
		{
			title: "Documentação e Finalidade",
			fields: []receiptField{
				{"Documentos Disponíveis", documentsLabel(record.DocumentosDisponiveis)},
				{"Situação dos Documentos", models.SituacaoDocumentosOptions.Label(record.SituacaoDocumentos)},
				{"Finalidade", models.FinalidadeOptions.Label(record.Finalidade)},
				{"Detalhes Adicionais", pointerOr(record.DetalhesAdicionais, notInformed)},
			},
		},
		{
			title: "Links das Fotos",
			lines: photoLines,
		},
	}
}

func formatMeasure(value *float64, notApplicableFlag bool, unit string) string {
	if notApplicableFlag {
		return notApplicable
	}
	if value == nil {
		return notInformed
	}
	number := strings.Replace(strconv.FormatFloat(*value, 'f', -1, 64), ".", ",", 1)
	return number + " " + unit
}

func condominiumLabel(record *models.SubmissionRecord) string {
	if record.CondominioNA {
		return notApplicable
	}
	return pointerOr(record.NomeCondominio, notApplicable)
}

func documentsLabel(documents []string) string {
	if len(documents) == 0 {
		return notInformed
	}
	return strings.Join(documents, ", ")
}

func pointerOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return textOr(*value, fallback)
}

func textOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
