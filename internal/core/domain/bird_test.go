package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "ABC-12", "abc-12"},
		{"trims", "  p1 ", "p1"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdentifier(tt.input))
		})
	}
}

func TestSameIdentifier(t *testing.T) {
	assert.True(t, SameIdentifier("ABC", " abc"))
	assert.False(t, SameIdentifier("abc", "abd"))
}

func TestBird_Key(t *testing.T) {
	b := Bird{Identifier: " P-7 "}
	assert.Equal(t, "p-7", b.Key())
}

func TestBird_Apply_OverlayWins(t *testing.T) {
	base := Bird{Identifier: "p1", DisplayName: "A", Color: str("red")}
	patch := Bird{Identifier: "P1", DisplayName: "B"}

	merged := base.Apply(patch)

	assert.Equal(t, "P1", merged.Identifier)
	assert.Equal(t, "B", merged.DisplayName)
	require.NotNil(t, merged.Color)
	assert.Equal(t, "red", *merged.Color)
}

func TestBird_Apply_OptionalReplaces(t *testing.T) {
	base := Bird{Identifier: "p1", DisplayName: "A", Color: str("red"), Sex: str("macho")}
	patch := Bird{Identifier: "p1", Color: str("blue")}

	merged := base.Apply(patch)

	assert.Equal(t, "A", merged.DisplayName, "blank name in patch keeps base name")
	assert.Equal(t, "blue", *merged.Color)
	assert.Equal(t, "macho", *merged.Sex)
}

func TestBird_Apply_DoesNotMutateReceiver(t *testing.T) {
	base := Bird{Identifier: "p1", DisplayName: "A"}
	_ = base.Apply(Bird{Identifier: "p1", DisplayName: "B", Color: str("red")})

	assert.Equal(t, "A", base.DisplayName)
	assert.Nil(t, base.Color)
}

func TestBird_ValueAndSet(t *testing.T) {
	var b Bird
	require.NoError(t, b.Set(FieldIdentifier, " p9 "))
	require.NoError(t, b.Set(FieldDisplayName, "Luna"))
	require.NoError(t, b.Set(FieldStatus, "en palomar"))

	v, ok := b.Value(FieldStatus)
	assert.True(t, ok)
	assert.Equal(t, "en palomar", v)
	assert.Equal(t, "p9", b.Identifier)

	require.NoError(t, b.Set(FieldStatus, "  "))
	_, ok = b.Value(FieldStatus)
	assert.False(t, ok)

	err := b.Set("wingspan", "30")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, ok = b.Value("wingspan")
	assert.False(t, ok)
}

func TestBird_ReferenceAndDate(t *testing.T) {
	b := Bird{Father: str("p2"), ArrivalDate: str("2022-05-01")}

	assert.Equal(t, "p2", b.Reference(RefFather))
	assert.Equal(t, "", b.Reference(RefMother))
	assert.Equal(t, "2022-05-01", b.Date(DateFieldArrival))
	assert.Equal(t, "", b.Date(DateFieldBirth))
}

func TestBird_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bird    Bird
		wantErr string
	}{
		{
			name: "valid",
			bird: Bird{Identifier: "p1", DisplayName: "Luna", Photo: str("https://x/y.png")},
		},
		{
			name:    "missing name",
			bird:    Bird{Identifier: "p1"},
			wantErr: "Nombre requerido",
		},
		{
			name:    "missing identifier",
			bird:    Bird{DisplayName: "Luna"},
			wantErr: "Numero requerido",
		},
		{
			name:    "bad photo",
			bird:    Bird{Identifier: "p1", DisplayName: "Luna", Photo: str("ftp://x")},
			wantErr: "Foto debe ser URL valida",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bird.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("http://a.com/b.png"))
	assert.True(t, IsHTTPURL("https://a.com"))
	assert.False(t, IsHTTPURL("ftp://a.com"))
	assert.False(t, IsHTTPURL("not a url"))
	assert.False(t, IsHTTPURL("https://"))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(""))
	assert.Nil(t, Optional("  "))
	assert.Equal(t, "x", *Optional(" x "))
}

func TestBird_JSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Bird{Identifier: "p1", DisplayName: "Luna", Sex: str("hembra")})
	require.NoError(t, err)

	assert.JSONEq(t, `{"numero":"p1","nombre":"Luna","sexo":"hembra"}`, string(data))
}

func TestFieldLabels_CoverFieldOrder(t *testing.T) {
	for _, key := range FieldOrder {
		assert.NotEmpty(t, FieldLabels[key], key)
	}
}
