package service

import (
	"strings"

	"skincare-advisor/internal/domain"
)

// FaceDetailsFallbackMessage se muestra cuando faltan campos del analisis.
const FaceDetailsFallbackMessage = "Could not detect all face details."

var concernDescriptions = map[string]string{
	domain.FeatureSensitive:    "Sensitive skin",
	domain.FeatureFineLines:    "Fine lines",
	domain.FeatureWrinkles:     "Wrinkles",
	domain.FeatureRedness:      "Redness",
	domain.FeatureDull:         "Dullness",
	domain.FeaturePore:         "Enlarged pores",
	domain.FeaturePigmentation: "Pigmentation",
	domain.FeatureBlackheads:   "Blackheads",
	domain.FeatureWhiteheads:   "Whiteheads",
	domain.FeatureBlemishes:    "Blemishes",
	domain.FeatureDarkCircles:  "Dark circles",
	domain.FeatureEyeBags:      "Eye bags",
	domain.FeatureDarkSpots:    "Dark spots",
}

// BuildFeatureVector arma el vector a partir del tipo detectado y la severidad de acne.
// Los atributos detectados no marcan claves: solo alimentan la vista de resultados.
// Tipos desconocidos se ignoran sin error.
func BuildFeatureVector(detectedType string, acne domain.AcneSeverity, _ map[string]int) domain.FeatureVector {
	var b domain.FeatureVectorBuilder

	if t := strings.ToLower(strings.TrimSpace(detectedType)); domain.IsFeatureKey(t) {
		b.Set(t)
	}
	if !acne.IsLowest() {
		b.Set(domain.FeatureAcne)
	}
	return b.Build()
}

// SummarizeSkinType reporta un tipo unico o "Combination (X, Y)" cuando hay varios
// tipos principales marcados. Sin ninguno devuelve fallback.
func SummarizeSkinType(detected map[string]int, fallback string) string {
	var names []string
	for _, t := range domain.PrimaryTypes() {
		if detected[t] == 1 {
			names = append(names, capitalize(t))
		}
	}
	switch len(names) {
	case 0:
		return fallback
	case 1:
		return names[0]
	default:
		return "Combination (" + strings.Join(names, ", ") + ")"
	}
}

// BuildFaceDetails arma el view-model de resultados.
func BuildFaceDetails(result *domain.AnalysisResult) domain.FaceDetails {
	if result == nil || !result.Complete() {
		return domain.FaceDetails{Complete: false, Message: FaceDetailsFallbackMessage}
	}

	acne := string(result.Acne)
	if result.Acne.IsLowest() {
		acne = "Not detected"
	}

	var concerns []string
	for _, k := range domain.FeatureKeys() {
		if result.Features[k] != 1 {
			continue
		}
		if desc, ok := concernDescriptions[k]; ok {
			concerns = append(concerns, desc)
		}
	}

	return domain.FaceDetails{
		Complete:      true,
		SkinType:      SummarizeSkinType(result.Features, result.Type),
		Tone:          result.Tone,
		ToneLabel:     result.Tone.Display(),
		AcneSeverity:  acne,
		OtherConcerns: concerns,
		Features:      BuildFeatureVector(result.Type, result.Acne, result.Features),
	}
}

// RecommendationRequestFor arma la solicitud de recomendaciones para un analisis.
func RecommendationRequestFor(result domain.AnalysisResult) domain.RecommendationRequest {
	return domain.RecommendationRequest{
		Tone:     result.Tone,
		Type:     result.Type,
		Features: BuildFeatureVector(result.Type, result.Acne, result.Features),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
