package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option is one entry of a fixed select list
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionTable is a named fixed list of options
type OptionTable struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Option table names, as referenced by the `option=` validation rule
const (
	TableTipoCliente        = "tipo_cliente"
	TableUF                 = "uf"
	TableTipoImovel         = "tipo_imovel"
	TableOcupado            = "ocupado"
	TableSituacaoDocumentos = "situacao_documentos"
	TableFinalidade         = "finalidade"
	TableDocumento          = "documento"
)

// Document tags
const (
	DocumentoMatricula = "Matrícula"
	DocumentoIPTU      = "IPTU"
	DocumentoEscritura = "Escritura"
	DocumentoPlanta    = "Planta"
	DocumentoNenhum    = "Nenhum"
)

var TipoClienteOptions = OptionTable{
	Name: TableTipoCliente,
	Options: []Option{
		{Value: "proprietario", Label: "Proprietário de imóvel"},
		{Value: "corretor_com_cnai", Label: "Corretor com CNAI"},
		{Value: "corretor_sem_cnai", Label: "Corretor sem CNAI"},
		{Value: "advogado", Label: "Advogado"},
	},
}

var UFOptions = OptionTable{
	Name: TableUF,
	Options: []Option{
		{Value: "AC", Label: "Acre"},
		{Value: "AL", Label: "Alagoas"},
		{Value: "AP", Label: "Amapá"},
		{Value: "AM", Label: "Amazonas"},
		{Value: "BA", Label: "Bahia"},
		{Value: "CE", Label: "Ceará"},
		{Value: "DF", Label: "Distrito Federal"},
		{Value: "ES", Label: "Espírito Santo"},
		{Value: "GO", Label: "Goiás"},
		{Value: "MA", Label: "Maranhão"},
		{Value: "MT", Label: "Mato Grosso"},
		{Value: "MS", Label: "Mato Grosso do Sul"},
		{Value: "MG", Label: "Minas Gerais"},
		{Value: "PA", Label: "Pará"},
		{Value: "PB", Label: "Paraíba"},
		{Value: "PR", Label: "Paraná"},
		{Value: "PE", Label: "Pernambuco"},
		{Value: "PI", Label: "Piauí"},
		{Value: "RJ", Label: "Rio de Janeiro"},
		{Value: "RN", Label: "Rio Grande do Norte"},
		{Value: "RS", Label: "Rio Grande do Sul"},
		{Value: "RO", Label: "Rondônia"},
		{Value: "RR", Label: "Roraima"},
		{Value: "SC", Label: "Santa Catarina"},
		{Value: "SP", Label: "São Paulo"},
		{Value: "SE", Label: "Sergipe"},
		{Value: "TO", Label: "Tocantins"},
	},
}

var TipoImovelOptions = OptionTable{
	Name: TableTipoImovel,
	Options: []Option{
		{Value: "urbano", Label: "Urbano"},
		{Value: "rural", Label: "Rural"},
		{Value: "comercial", Label: "Comercial"},
		{Value: "terreno", Label: "Terreno"},
		{Value: "misto", Label: "Misto"},
	},
}

var OcupadoOptions = OptionTable{
	Name: TableOcupado,
	Options: []Option{
		{Value: "ocupado", Label: "Ocupado"},
		{Value: "desocupado", Label: "Desocupado"},
	},
}

var SituacaoDocumentosOptions = OptionTable{
	Name: TableSituacaoDocumentos,
	Options: []Option{
		{Value: "regular", Label: "Regular"},
		{Value: "pendente", Label: "Pendente"},
		{Value: "outro", Label: "Outro"},
	},
}

var FinalidadeOptions = OptionTable{
	Name: TableFinalidade,
	Options: []Option{
		{Value: "venda", Label: "Venda"},
		{Value: "partilha", Label: "Partilha de Bens"},
		{Value: "judicial", Label: "Processo Judicial"},
		{Value: "outro", Label: "Outro"},
	},
}

var DocumentoOptions = OptionTable{
	Name: TableDocumento,
	Options: []Option{
		{Value: DocumentoMatricula, Label: DocumentoMatricula},
		{Value: DocumentoIPTU, Label: DocumentoIPTU},
		{Value: DocumentoEscritura, Label: DocumentoEscritura},
		{Value: DocumentoPlanta, Label: DocumentoPlanta},
		{Value: DocumentoNenhum, Label: DocumentoNenhum},
	},
}

var optionTables = map[string]OptionTable{
	TableTipoCliente:        TipoClienteOptions,
	TableUF:                 UFOptions,
	TableTipoImovel:         TipoImovelOptions,
	TableOcupado:            OcupadoOptions,
	TableSituacaoDocumentos: SituacaoDocumentosOptions,
	TableFinalidade:         FinalidadeOptions,
	TableDocumento:          DocumentoOptions,
}

// LookupOptionTable returns the option table registered under name
func LookupOptionTable(name string) (OptionTable, bool) {
	table, ok := optionTables[name]
	return table, ok
}

// Normalize maps a value, a label or any slug-equivalent spelling of either to the
// table's machine value. Blank or unknown input returns false.
func (t OptionTable) Normalize(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	for _, option := range t.Options {
		if option.Value == trimmed {
			return option.Value, true
		}
	}

	slug := Slugify(trimmed)
	for _, option := range t.Options {
		if strings.EqualFold(option.Value, trimmed) || strings.EqualFold(option.Label, trimmed) {
			return option.Value, true
		}
		if Slugify(option.Value) == slug || Slugify(option.Label) == slug {
			return option.Value, true
		}
	}
	return "", false
}

// NormalizeOrRaw returns the normalized value, or the trimmed input when it is not in the table
func (t OptionTable) NormalizeOrRaw(input string) string {
	if value, ok := t.Normalize(input); ok {
		return value
	}
	return strings.TrimSpace(input)
}

// Contains reports whether input resolves to an option of the table
func (t OptionTable) Contains(input string) bool {
	_, ok := t.Normalize(input)
	return ok
}

// Label returns the display label for a value, or the value itself when unknown
func (t OptionTable) Label(value string) string {
	if normalized, ok := t.Normalize(value); ok {
		for _, option := range t.Options {
			if option.Value == normalized {
				return option.Label
			}
		}
	}
	return value
}

// Values lists the machine values in display order
func (t OptionTable) Values() []string {
	values := make([]string, len(t.Options))
	for i, option := range t.Options {
		values[i] = option.Value
	}
	return values
}

// Slugify lower-cases s, strips accents and joins words with underscores: "Partilha de Bens" -> "partilha_de_bens"
func Slugify(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}

	var builder strings.Builder
	pendingSeparator := false
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSeparator && builder.Len() > 0 {
				builder.WriteByte('_')
			}
			pendingSeparator = false
			builder.WriteRune(r)
			continue
		}
		pendingSeparator = true
	}
	return builder.String()
}
