package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "partilha_de_bens", Slugify("Partilha de Bens"))
	assert.Equal(t, "sao_paulo", Slugify("São Paulo"))
	assert.Equal(t, "matricula", Slugify("Matrícula"))
	assert.Equal(t, "corretor_com_cnai", Slugify("  Corretor com CNAI! "))
	assert.Equal(t, "", Slugify(" - "))
}

func TestOptionTable_Normalize(t *testing.T) {
	cases := []struct {
		table    OptionTable
		input    string
		expected string
		ok       bool
	}{
		{FinalidadeOptions, "Venda", "venda", true},
		{FinalidadeOptions, "Partilha de Bens", "partilha", true},
		{FinalidadeOptions, "PROCESSO JUDICIAL", "judicial", true},
		{FinalidadeOptions, "xyz", "", false},
		{FinalidadeOptions, "  ", "", false},
		{UFOptions, "ba", "BA", true},
		{UFOptions, "São Paulo", "SP", true},
		{UFOptions, "sao paulo", "SP", true},
		{DocumentoOptions, "matricula", DocumentoMatricula, true},
		{TipoClienteOptions, "Corretor sem CNAI", "corretor_sem_cnai", true},
	}

	for _, c := range cases {
		actual, ok := c.table.Normalize(c.input)
		assert.Equal(t, c.ok, ok, "%s %q", c.table.Name, c.input)
		assert.Equal(t, c.expected, actual, "%s %q", c.table.Name, c.input)
	}
}

func TestOptionTables_RoundTrip(t *testing.T) {
	for name, table := range optionTables {
		for _, option := range table.Options {
			fromValue, ok := table.Normalize(option.Value)
			assert.True(t, ok, "%s value %q", name, option.Value)
			assert.Equal(t, option.Value, fromValue)

			fromLabel, ok := table.Normalize(option.Label)
			assert.True(t, ok, "%s label %q", name, option.Label)
			assert.Equal(t, option.Value, fromLabel)

			assert.Equal(t, option.Label, table.Label(option.Value))
		}
	}
}

func TestUFOptions_Has27States(t *testing.T) {
	assert.Len(t, UFOptions.Values(), 27)
}

func TestOptionTable_LabelUnknown(t *testing.T) {
	assert.Equal(t, "desconhecido", OcupadoOptions.Label("desconhecido"))
}

func TestLookupOptionTable(t *testing.T) {
	table, ok := LookupOptionTable(TableTipoImovel)
	assert.True(t, ok)
	assert.Equal(t, TipoImovelOptions.Values(), table.Values())

	_, ok = LookupOptionTable("nope")
	assert.False(t, ok)
}
