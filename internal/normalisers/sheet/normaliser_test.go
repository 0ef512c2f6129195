package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

const fullHeader = "Nombre,Numero,Foto,Color,Fenotipo,Sexo,Descripcion,Padre,Madre," +
	"Fecha de nacimiento,Fecha de llegada,Tipo(Local o rescatada o Comprada)," +
	"\"Estado(en palomar, desaparecida, fallecida)\",Pareja\n"

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestNormalise_FullRow(t *testing.T) {
	csv := fullHeader +
		`Luna, P-01 ,"=IMAGE(""https://img.example/luna.jpg"", 4, 50, 50)",blanca,,hembra,mansa,P-00,Reina,2021-03-04,1/5/2022,Local,en palomar,Sol` + "\n"

	birds, err := New().Normalise(context.Background(), []byte(csv))
	require.NoError(t, err)
	require.Len(t, birds, 1)

	b := birds[0]
	assert.Equal(t, "P-01", b.Identifier)
	assert.Equal(t, "Luna", b.DisplayName)
	require.NotNil(t, b.Photo)
	assert.Equal(t, "https://img.example/luna.jpg", *b.Photo)
	assert.Equal(t, "blanca", *b.Color)
	assert.Nil(t, b.Phenotype, "blank cell is absent")
	assert.Equal(t, "hembra", *b.Sex)
	assert.Equal(t, "P-00", *b.Father)
	assert.Equal(t, "Reina", *b.Mother)
	assert.Equal(t, "Sol", *b.Partner)
	assert.Equal(t, "2021-03-04", *b.BirthDate)
	assert.Equal(t, "1/5/2022", *b.ArrivalDate)
	assert.Equal(t, "Local", *b.Kind)
	assert.Equal(t, "en palomar", *b.Status)
}

func TestParse_EmptyInput(t *testing.T) {
	birds, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, birds)
}

func TestParse_HeaderOnly(t *testing.T) {
	birds, err := ParseString("Nombre,Numero\n")
	require.NoError(t, err)
	assert.Empty(t, birds)
}

func TestParse_SkipsEmptyLines(t *testing.T) {
	birds, err := ParseString("Nombre,Numero\nA,1\n\n\nB,\n")
	require.NoError(t, err)
	require.Len(t, birds, 2)
	assert.Equal(t, "1", birds[0].Identifier)
	assert.Equal(t, "b-2", birds[1].Identifier, "empty lines do not advance the row index")
}

func TestParse_BlankCellsAreARecord(t *testing.T) {
	birds, err := ParseString("Nombre,Numero\n,\nAna,\n")
	require.NoError(t, err)
	require.Len(t, birds, 2)

	assert.Equal(t, domain.UnnamedBird, birds[0].DisplayName)
	assert.Equal(t, "sin-nombre-1", birds[0].Identifier)
	assert.Equal(t, "ana-2", birds[1].Identifier)
}

func TestParse_DefaultsAndFallbackIdentifiers(t *testing.T) {
	birds, err := ParseString("Nombre,Numero,Color\n,,negro\nPaloma Real,,gris\n")
	require.NoError(t, err)
	require.Len(t, birds, 2)

	assert.Equal(t, domain.UnnamedBird, birds[0].DisplayName)
	assert.Equal(t, "sin-nombre-1", birds[0].Identifier)

	assert.Equal(t, "paloma-real-2", birds[1].Identifier)
	assert.Equal(t, "gris", *birds[1].Color)
}

func TestParse_Deterministic(t *testing.T) {
	const input = "Nombre,Numero\nA,\nA,\n"

	first, err := ParseString(input)
	require.NoError(t, err)
	second, err := ParseString(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "a-1", first[0].Identifier)
	assert.Equal(t, "a-2", first[1].Identifier)
}

func TestParse_KindSynonyms(t *testing.T) {
	t.Run("legacy header", func(t *testing.T) {
		birds, err := ParseString("Nombre,Numero,Tipo(Local o rescatada)\nA,1,Rescatada\n")
		require.NoError(t, err)
		assert.Equal(t, "Rescatada", *birds[0].Kind)
	})

	t.Run("first non-empty wins", func(t *testing.T) {
		input := "Nombre,Numero,Tipo(Local o rescatada),Tipo(Local o rescatada o Comprada)\n" +
			"A,1,Rescatada,Comprada\n" +
			"B,2,Local,\n"
		birds, err := ParseString(input)
		require.NoError(t, err)
		assert.Equal(t, "Comprada", *birds[0].Kind)
		assert.Equal(t, "Local", *birds[1].Kind)
	})
}

func TestParse_FieldCountMismatchFailsWholeParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short row", "Nombre,Numero,Color\nAna,1\n"},
		{"long row", "Nombre,Numero\nAna,1,gris\n"},
		{"later row", "Nombre,Numero\nAna,1\nSol\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			birds, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, birds)
			assert.ErrorIs(t, err, domain.ErrParse)
			assert.ErrorIs(t, err, csv.ErrFieldCount)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Positive(t, pe.Line)
		})
	}
}

func TestParse_BOMHeader(t *testing.T) {
	birds, err := ParseString("\ufeffNombre,Numero\nA,1\n")
	require.NoError(t, err)
	assert.Equal(t, "A", birds[0].DisplayName)
}

func TestParse_InvalidPhotoIsAbsent(t *testing.T) {
	birds, err := ParseString("Nombre,Numero,Foto\nA,1,=IMAGE(nope)\nB,2,foto.jpg\n")
	require.NoError(t, err)
	assert.Nil(t, birds[0].Photo)
	assert.Nil(t, birds[1].Photo)
}

func TestParse_StructuralErrorFailsWholeParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated quote", "Nombre,Numero\nA,1\n\"B,2\n"},
		{"bare quote", "Nombre,Numero\nA\"x,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			birds, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, birds)
			assert.True(t, errors.Is(err, domain.ErrParse))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Positive(t, pe.Line)
		})
	}
}

func TestParseError_WithoutLine(t *testing.T) {
	err := &ParseError{Err: errors.New("boom")}
	assert.Equal(t, "parse sheet: boom", err.Error())
}
