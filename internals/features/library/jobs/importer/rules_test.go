package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForKeywords(t *testing.T) {
	cases := []struct {
		name  string
		texts []string
		want  string
	}{
		{"direct hit", []string{"Psicología clínica"}, "Psicología"},
		{"accent-insensitive", []string{"psicologia"}, "Psicología"},
		{"title contributes", []string{"", "La adolescencia hoy"}, "Adolescencia/Niñez"},
		{"first rule wins", []string{"vida y terapia"}, "Social"},
		{"no match", []string{"astronomía"}, ""},
		{"empty", []string{"", ""}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CategoryForKeywords(tc.texts...))
		})
	}
}

func TestResolveCategory(t *testing.T) {
	assert.Equal(t, "Teología", ResolveCategory("teología pastoral", ""))
	assert.Equal(t, "Trabajo", ResolveCategory("", "Manual de práctica laboral"))
	assert.Equal(t, fallbackCategory, ResolveCategory("astronomía", "Cosmos"))
	assert.Equal(t, fallbackCategory, ResolveCategory("", ""))
}

func TestParseStock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 2 ", 2},
		{"2,5", 2},
		{"2.9", 2},
		{"0", 1},
		{"-4", 1},
		{"", 1},
		{"abc", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseStock(tc.in), "ParseStock(%q)", tc.in)
	}
}

func TestMapHeaders(t *testing.T) {
	header := []string{"NOMBRE DEL LIBRO", "AUTOR", "TEMÁTICA", "CANTIDAD"}
	m := mapHeaders(header)
	assert.Equal(t, 0, m["titulo"])
	assert.Equal(t, 1, m["autor"])
	assert.Equal(t, 2, m["categoria"])
	assert.Equal(t, 3, m["stock"])

	m = mapHeaders([]string{"columna rara"})
	assert.Equal(t, -1, m["titulo"])
	assert.Equal(t, -1, m["stock"])
}

func TestFindColumn(t *testing.T) {
	header := []string{"Título", "Autor"}
	assert.Equal(t, 0, findColumn(header, "titulo"))
	assert.Equal(t, 1, findColumn(header, "AUTOR"))
	assert.Equal(t, -1, findColumn(header, "stock"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter("a;b;c\n1;2;3"))
	assert.Equal(t, ',', sniffDelimiter("a,b,c"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\tc"))
	assert.Equal(t, '|', sniffDelimiter("a|b|c"))
	// Comma wins when nothing repeats.
	assert.Equal(t, ',', sniffDelimiter("solo"))
	// First non-empty line decides.
	assert.Equal(t, ';', sniffDelimiter("\n\na;b;c"))
}
