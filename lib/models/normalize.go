package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const maxPhoneDigits = 11

var notApplicableSpellings = map[string]bool{
	"":              true,
	"n/a":           true,
	"na":            true,
	"nao se aplica": true,
	"não se aplica": true,
	"nao_se_aplica": true,
}

// ParseDecimal parses a number typed with either "." or "," as decimal separator.
// Blank, "não se aplica" and unparseable input yield nil.
func ParseDecimal(raw string) *float64 {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if notApplicableSpellings[cleaned] {
		return nil
	}

	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(cleaned, "m²"), "m2"))
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// NumericOrNA returns nil when notApplicable is set, whatever raw still holds
func NumericOrNA(raw string, notApplicable bool) *float64 {
	if notApplicable {
		return nil
	}
	return ParseDecimal(raw)
}

// FormatAddress joins the address components into the stored display string
func FormatAddress(logradouro, numero, bairro, cidade, uf, cep string) string {
	return fmt.Sprintf("%s, nº %s, %s, %s - %s, CEP: %s",
		strings.TrimSpace(logradouro),
		strings.TrimSpace(numero),
		strings.TrimSpace(bairro),
		strings.TrimSpace(cidade),
		strings.ToUpper(strings.TrimSpace(uf)),
		strings.TrimSpace(cep),
	)
}

// PhoneDigits strips every non-digit character
func PhoneDigits(phone string) string {
	var builder strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// FormatPhone renders the digits typed so far as (DD) DDDDD-DDDD. Applying it to its own
// output returns the same string.
func FormatPhone(value string) string {
	digits := PhoneDigits(value)
	if len(digits) > maxPhoneDigits {
		digits = digits[:maxPhoneDigits]
	}

	switch {
	case len(digits) > 7:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case len(digits) > 2:
		return fmt.Sprintf("(%s) %s", digits[:2], digits[2:])
	case len(digits) > 0:
		return "(" + digits
	default:
		return ""
	}
}

// SplitList splits comma or newline separated text into trimmed, non-empty items.
// Zero items yield nil so the stored value is null.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	var items []string
	for _, field := range fields {
		if item := strings.TrimSpace(field); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// CondominiumName returns nil when the flag is set or the typed name means "not applicable"
func CondominiumName(name string, notApplicable bool) *string {
	if notApplicable {
		return nil
	}
	trimmed := strings.TrimSpace(name)
	if notApplicableSpellings[strings.ToLower(trimmed)] {
		return nil
	}
	return &trimmed
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeDocuments maps every tag to its canonical value, drops duplicates and
// collapses an empty selection to nil
func normalizeDocuments(tags []string) []string {
	var documents []string
	seen := map[string]bool{}
	for _, tag := range tags {
		value := DocumentoOptions.NormalizeOrRaw(tag)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		documents = append(documents, value)
	}
	return documents
}

// ToggleDocument checks or unchecks one document tag. Checking "Nenhum" clears every other
// tag; checking any other tag removes "Nenhum".
func (f *FormState) ToggleDocument(tag string, checked bool) {
	value := DocumentoOptions.NormalizeOrRaw(tag)
	if value == "" {
		return
	}

	if !checked {
		f.DocumentosDisponiveis = removeTag(f.DocumentosDisponiveis, value)
		return
	}

	if value == DocumentoNenhum {
		f.DocumentosDisponiveis = []string{DocumentoNenhum}
		return
	}

	documents := removeTag(f.DocumentosDisponiveis, DocumentoNenhum)
	for _, existing := range documents {
		if existing == value {
			f.DocumentosDisponiveis = documents
			return
		}
	}
	f.DocumentosDisponiveis = append(documents, value)
}

func removeTag(tags []string, tag string) []string {
	kept := make([]string, 0, len(tags))
	for _, existing := range tags {
		if DocumentoOptions.NormalizeOrRaw(existing) != tag {
			kept = append(kept, existing)
		}
	}
	return kept
}

// HasDocumentConflict reports whether "Nenhum" sits next to another tag
func (f FormState) HasDocumentConflict() bool {
	documents := normalizeDocuments(f.DocumentosDisponiveis)
	if len(documents) < 2 {
		return false
	}
	for _, document := range documents {
		if document == DocumentoNenhum {
			return true
		}
	}
	return false
}

// FullAddress returns the formatted address of the form
func (f FormState) FullAddress() string {
	return FormatAddress(f.Logradouro, f.Numero, f.Bairro, f.Cidade, f.UF, f.CEP)
}

// BuildRecord snapshots the form into a backend-ready record. photoURLs come first in
// links_fotos, followed by any links typed into the free-text field.
func BuildRecord(id uuid.UUID, laudoID string, form FormState, photoURLs []string) SubmissionRecord {
	links := append(append([]string(nil), photoURLs...), SplitList(form.LinksFotos)...)
	if len(links) == 0 {
		links = nil
	}

	return SubmissionRecord{
		ID:                    id,
		LaudoID:               laudoID,
		NomeCompleto:          strings.TrimSpace(form.NomeSolicitante),
		Whatsapp:              PhoneDigits(form.Whatsapp),
		TipoCliente:           TipoClienteOptions.NormalizeOrRaw(form.TipoCliente),
		EnderecoCompleto:      form.FullAddress(),
		TipoImovel:            TipoImovelOptions.NormalizeOrRaw(form.TipoImovel),
		AreaTerreno:           NumericOrNA(form.AreaTerreno, form.AreaTerrenoNA),
		AreaTerrenoNA:         form.AreaTerrenoNA,
		AreaConstruida:        NumericOrNA(form.AreaConstruida, form.AreaConstruidaNA),
		AreaConstruidaNA:      form.AreaConstruidaNA,
		IdadeConstrucao:       ParseDecimal(form.IdadeConstrucao),
		EstadoGeral:           strings.TrimSpace(form.EstadoGeral),
		Ocupado:               OcupadoOptions.NormalizeOrRaw(form.Ocupado),
		NomeCondominio:        CondominiumName(form.NomeCondominio, form.CondominioNA),
		CondominioNA:          form.CondominioNA,
		DocumentosDisponiveis: normalizeDocuments(form.DocumentosDisponiveis),
		SituacaoDocumentos:    SituacaoDocumentosOptions.NormalizeOrRaw(form.SituacaoDocumentos),
		Finalidade:            FinalidadeOptions.NormalizeOrRaw(form.Finalidade),
		LinksFotos:            links,
		DetalhesAdicionais:    optionalText(form.DetalhesAdicionais),
	}
}

// IsDecimal reports whether raw parses as a non-negative number
func IsDecimal(raw string) bool {
	value := ParseDecimal(raw)
	return value != nil && *value >= 0
}

// IsNotApplicableText reports whether raw is blank or spells "not applicable"
func IsNotApplicableText(raw string) bool {
	return notApplicableSpellings[strings.ToLower(strings.TrimSpace(raw))]
}

// IsBlank reports whether s holds only whitespace
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

// DatePrefix renders t as YYYYMMDD in loc
func DatePrefix(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("20060102")
}
