package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionRecord_Clone(t *testing.T) {
	//Arrange
	area := 360.5
	pdfURL := "https://cdn/QH-20250615-0042.pdf"
	original := &SubmissionRecord{
		LaudoID:               "QH-20250615-0042",
		AreaTerreno:           &area,
		PDFURL:                &pdfURL,
		DocumentosDisponiveis: []string{DocumentoMatricula},
		LinksFotos:            []string{"https://cdn/a.jpg"},
	}

	//Act
	clone := original.Clone()
	*clone.AreaTerreno = 1
	*clone.PDFURL = "changed"
	clone.DocumentosDisponiveis[0] = "changed"
	clone.LinksFotos = append(clone.LinksFotos, "https://cdn/b.jpg")

	//Assert
	assert.Equal(t, 360.5, *original.AreaTerreno)
	assert.Equal(t, "https://cdn/QH-20250615-0042.pdf", *original.PDFURL)
	assert.Equal(t, []string{DocumentoMatricula}, original.DocumentosDisponiveis)
	assert.Equal(t, []string{"https://cdn/a.jpg"}, original.LinksFotos)
	assert.Nil(t, clone.NomeCondominio)
}

func TestSubmissionRecord_CloneNil(t *testing.T) {
	var record *SubmissionRecord

	assert.Nil(t, record.Clone())
}
