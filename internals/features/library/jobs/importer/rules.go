// internals/features/library/jobs/importer/rules.go
package importer

import (
	"strconv"
	"strings"

	model "biblioteca_backend/internals/features/library/catalog/model"
	helper "biblioteca_backend/internals/helpers"
)

// Column aliases: standard key → possible spreadsheet headers, compared
// through helper.NormText (case- and accent-insensitive).
var columnAliases = map[string][]string{
	"titulo": {
		"nombre del libro", "titulo", "título", "nombre", "nombre del material",
		"título del libro", "titulo del libro", "libro", "obra", "titulo/obra",
	},
	"autor":     {"autor", "autores"},
	"categoria": {"tematica", "temática", "tema", "materia", "categoría", "categoria"},
	"stock":     {"stock", "cantidad", "ejemplares", "n° ejemplares"},
}

// Canonical category set; anything the keyword rules resolve outside it
// collapses to the fallback.
var canonicalCategories = []string{
	"Psicología",
	"Social",
	"Adolescencia/Niñez",
	"Teología",
	"Ética",
	"Naturaleza",
	"Informática",
	"Género",
	"Adicciones",
	"Trabajo",
	"Técnicas y Metodologías",
	"Investigación/Análisis",
}

type keywordRule struct {
	keywords []string
	category string
}

// Ordered: the first rule with a matching keyword wins.
var keywordRules = []keywordRule{
	{[]string{"social", "vida", "grupo", "sociales", "sociologia", "sociología", "comunidad", "individuo", "equipo", "familiar", "modelos", "edi"}, "Social"},
	{[]string{"psicologia", "salud mental", "psicología", "clinica", "clínica", "terapia", "emocional"}, "Psicología"},
	{[]string{"adolescencia", "adolescente", "juvenil", "infantil", "adopcion", "niñez", "ninez", "niños", "ninos"}, "Adolescencia/Niñez"},
	{[]string{"género", "genero", "mujeres", "esi", "femeninas"}, "Género"},
	{[]string{"teologia", "teología"}, "Teología"},
	{[]string{"ética", "etica"}, "Ética"},
	{[]string{"naturaleza"}, "Naturaleza"},
	{[]string{"informatica", "informática"}, "Informática"},
	{[]string{"drogas", "consumo"}, "Adicciones"},
	{[]string{"laboral", "práctica", "practica", "trabajo"}, "Trabajo"},
	{[]string{"metodologico", "metodologica", "tecnica", "técnica", "tecnicas", "metodos", "metodologicos", "elementos"}, "Técnicas y Metodologías"},
	{[]string{"investigacion", "análisis", "analisis", "teorias", "teorías"}, "Investigación/Análisis"},
}

const fallbackCategory = model.DefaultCategoryName

// CategoryForKeywords scans the ordered rules over the normalized
// concatenation of the given texts; empty string means no rule matched.
func CategoryForKeywords(texts ...string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			parts = append(parts, t)
		}
	}
	hay := helper.NormText(strings.Join(parts, " "))
	if hay == "" {
		return ""
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(hay, helper.NormText(kw)) {
				return rule.category
			}
		}
	}
	return ""
}

// ResolveCategory applies the fallback and canonical-set collapse.
func ResolveCategory(rawCategory, titleText string) string {
	cat := CategoryForKeywords(rawCategory, titleText)
	if cat == "" {
		return fallbackCategory
	}
	if !isCanonical(cat) {
		return fallbackCategory
	}
	return cat
}

func isCanonical(cat string) bool {
	for _, c := range canonicalCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// ParseStock converts the stock cell to an integer ≥ 1. Decimal commas are
// accepted; anything unparseable means 1.
func ParseStock(value string) int {
	s := strings.TrimSpace(value)
	if s == "" {
		return 1
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 1
	}
	n := int(f)
	if n < 1 {
		return 1
	}
	return n
}

// mapHeaders resolves each standard key to a column index in the header row,
// -1 when absent.
func mapHeaders(fields []string) map[string]int {
	mapped := map[string]int{}
	for key := range columnAliases {
		mapped[key] = -1
	}
	for key, aliasList := range columnAliases {
		aliasSet := map[string]bool{}
		for _, a := range aliasList {
			aliasSet[helper.NormText(a)] = true
		}
		for i, orig := range fields {
			if aliasSet[helper.NormText(orig)] {
				mapped[key] = i
				break
			}
		}
	}
	return mapped
}

// findColumn locates an explicitly named header (override), case- and
// accent-insensitively.
func findColumn(fields []string, name string) int {
	want := helper.NormText(name)
	for i, orig := range fields {
		if helper.NormText(orig) == want {
			return i
		}
	}
	return -1
}
