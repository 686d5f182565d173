package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Tone es el ordinal 1-6 de profundidad del tono de piel.
type Tone int

var toneLabels = map[Tone]string{
	1: "Very Fair",
	2: "Fair",
	3: "Light",
	4: "Medium",
	5: "Tan",
	6: "Deep",
}

// ToneLabel devuelve la etiqueta descriptiva del tono, si existe.
func ToneLabel(t Tone) (string, bool) {
	label, ok := toneLabels[t]
	return label, ok
}

// Display devuelve "Light (Tone 3)" o el numero crudo cuando el tono esta fuera de rango.
func (t Tone) Display() string {
	if label, ok := ToneLabel(t); ok {
		return label + " (Tone " + strconv.Itoa(int(t)) + ")"
	}
	return strconv.Itoa(int(t))
}

// ToneBucket agrupa el tono para las recomendaciones de maquillaje.
func ToneBucket(t Tone) string {
	switch {
	case t <= 2:
		return "fair to light"
	case t >= 4:
		return "medium to dark"
	default:
		return "light to medium"
	}
}

// UnmarshalJSON acepta numero o string numerico; el servicio de analisis envia string.
func (t *Tone) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Tone(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*t = Tone(n)
	return nil
}

// AcneSeverity es el nivel ordinal de acne detectado.
type AcneSeverity string

const (
	AcneLow      AcneSeverity = "Low"
	AcneModerate AcneSeverity = "Moderate"
	AcneSevere   AcneSeverity = "Severe"
)

// ParseAcneSeverity normaliza la etiqueta; acepta Medium/High como alias.
func ParseAcneSeverity(s string) (AcneSeverity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return AcneLow, true
	case "moderate", "medium":
		return AcneModerate, true
	case "severe", "high":
		return AcneSevere, true
	default:
		return AcneSeverity(s), false
	}
}

// IsLowest indica si es el nivel mas bajo. Etiquetas desconocidas no lo son.
func (a AcneSeverity) IsLowest() bool {
	sev, ok := ParseAcneSeverity(string(a))
	return ok && sev == AcneLow
}

// AnalysisResult es la respuesta del servicio de analisis de imagen.
type AnalysisResult struct {
	Type     string         `json:"type"`
	Tone     Tone           `json:"tone"`
	Acne     AcneSeverity   `json:"acne"`
	Features map[string]int `json:"features,omitempty"`
}

// Complete indica si estan todos los campos que la vista de resultados necesita.
func (r AnalysisResult) Complete() bool {
	return strings.TrimSpace(r.Type) != "" && r.Tone != 0 && strings.TrimSpace(string(r.Acne)) != ""
}

// FaceDetails es el view-model de la pantalla de resultados.
type FaceDetails struct {
	Complete      bool          `json:"complete"`
	Message       string        `json:"message,omitempty"`
	SkinType      string        `json:"skin_type,omitempty"`
	Tone          Tone          `json:"tone,omitempty"`
	ToneLabel     string        `json:"tone_label,omitempty"`
	AcneSeverity  string        `json:"acne_severity,omitempty"`
	OtherConcerns []string      `json:"other_concerns,omitempty"`
	Features      FeatureVector `json:"features"`
}

// RecommendationRequest es lo que se envia al recomendador.
type RecommendationRequest struct {
	Tone     Tone          `json:"tone"`
	Type     string        `json:"type"`
	Features FeatureVector `json:"features"`
}

// CatalogProduct es un producto recomendable del catalogo.
type CatalogProduct struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Brand      string        `json:"brand,omitempty"`
	Category   string        `json:"category"`
	Price      float64       `json:"price"`
	Rating     float64       `json:"rating"`
	ImageURL   string        `json:"image_url,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	SkinTypes  []string      `json:"skin_types,omitempty"`
	ToneBucket string        `json:"tone_bucket,omitempty"`
	Features   FeatureVector `json:"features"`
	Score      float64       `json:"score,omitempty"`
}

// Recommendations agrupa los esenciales por categoria y el maquillaje.
type Recommendations struct {
	General map[string][]CatalogProduct `json:"general"`
	Makeup  []CatalogProduct            `json:"makeup"`
}

// Categorias de esenciales y de maquillaje del catalogo.
const (
	CategoryFaceWash    = "face wash"
	CategoryToner       = "toner"
	CategorySerum       = "serum"
	CategoryMoisturizer = "moisturizer"
	CategorySunscreen   = "sunscreen"
	CategoryMask        = "mask"
	CategoryEyeCream    = "eye cream"
	CategoryFoundation  = "foundation"
	CategoryConcealer   = "concealer"
	CategoryPrimer      = "primer"
)

// EssentialCategories son las categorias del bloque "general".
var EssentialCategories = []string{
	CategoryFaceWash, CategoryToner, CategorySerum, CategoryMoisturizer,
	CategorySunscreen, CategoryMask, CategoryEyeCream,
}

// IsMakeupCategory indica si la categoria pertenece al bloque de maquillaje.
func IsMakeupCategory(category string) bool {
	switch category {
	case CategoryFoundation, CategoryConcealer, CategoryPrimer:
		return true
	}
	return false
}
