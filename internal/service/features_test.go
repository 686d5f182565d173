package service

import (
	"reflect"
	"testing"

	"skincare-advisor/internal/domain"
)

func TestBuildFeatureVectorHasExactKeySet(t *testing.T) {
	inputs := []map[string]int{
		nil,
		{},
		{"redness": 1, "pore": 1},
		{"unknown": 1, "normal": 1, "acne": 0},
		{"dark spots": 7, "eye bags": -1},
	}
	for _, detected := range inputs {
		v := BuildFeatureVector("oily", domain.AcneLow, detected)
		m := v.Map()
		if len(m) != domain.FeatureCount {
			t.Fatalf("expected %d keys, got %d", domain.FeatureCount, len(m))
		}
		for k, val := range m {
			if !domain.IsFeatureKey(k) {
				t.Fatalf("unexpected key %q", k)
			}
			if val != 0 && val != 1 {
				t.Fatalf("key %q has non-binary value %d", k, val)
			}
		}
	}
}

func TestBuildFeatureVectorAcneOverride(t *testing.T) {
	cases := []struct {
		name     string
		acne     domain.AcneSeverity
		detected map[string]int
		want     int
	}{
		{name: "moderate overrides missing acne", acne: domain.AcneModerate, detected: map[string]int{"acne": 0}, want: 1},
		{name: "severe sets acne", acne: domain.AcneSevere, want: 1},
		{name: "alias medium sets acne", acne: "Medium", want: 1},
		{name: "unknown tier is not lowest", acne: "", want: 1},
		{name: "low without detection", acne: domain.AcneLow, want: 0},
		{name: "low ignores detected acne", acne: "low", detected: map[string]int{"acne": 1}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := BuildFeatureVector("dry", tc.acne, tc.detected)
			if got := v.Get(domain.FeatureAcne); got != tc.want {
				t.Fatalf("expected acne=%d, got %d", tc.want, got)
			}
		})
	}
}

func TestBuildFeatureVectorOnlyTypeAndAcne(t *testing.T) {
	v := BuildFeatureVector("Oily", domain.AcneLow, map[string]int{"acne": 1, "redness": 1})
	if !reflect.DeepEqual(v.Active(), []string{"oily"}) {
		t.Fatalf("expected only the type key, got %v", v.Active())
	}

	v = BuildFeatureVector("Dry", domain.AcneSevere, map[string]int{"dark spots": 1, "pore": 1})
	if !reflect.DeepEqual(v.Active(), []string{"dry", "acne"}) {
		t.Fatalf("expected type and acne keys, got %v", v.Active())
	}
}

func TestBuildFeatureVectorTypeKeys(t *testing.T) {
	for _, typ := range []string{"Normal", "DRY", "oily", "Combination"} {
		v := BuildFeatureVector(typ, domain.AcneLow, map[string]int{"normal": 1, "dry": 1, "oily": 1, "combination": 1})
		active := 0
		for _, pt := range domain.PrimaryTypes() {
			active += v.Get(pt)
		}
		if active != 1 {
			t.Fatalf("type %s: expected exactly one primary type key, got %d", typ, active)
		}
	}

	v := BuildFeatureVector("Oily", domain.AcneLow, nil)
	if v.Get("oily") != 1 || v.Get("dry") != 0 || v.Get("normal") != 0 || v.Get("combination") != 0 {
		t.Fatalf("unexpected type keys %v", v.Active())
	}
}

func TestBuildFeatureVectorToleratesUnknownTypes(t *testing.T) {
	inputs := []string{"", "Oil", "Combination (Normal, Oily)", "scaly"}
	for _, typ := range inputs {
		v := BuildFeatureVector(typ, domain.AcneLow, nil)
		for _, pt := range domain.PrimaryTypes() {
			if v.Get(pt) != 0 {
				t.Fatalf("type %q: expected no primary key set, got %v", typ, v.Active())
			}
		}
	}
}

func TestBuildFeatureVectorFromSummarizerOutput(t *testing.T) {
	detections := []map[string]int{
		{"normal": 1, "oily": 1},
		{"dry": 1},
		{},
	}
	for _, d := range detections {
		for _, fallback := range []string{"Combination", "Normal", "Dry", "Oily", "weird"} {
			summary := SummarizeSkinType(d, fallback)
			v := BuildFeatureVector(summary, domain.AcneLow, d)
			if len(v.Values()) != domain.FeatureCount {
				t.Fatalf("unexpected vector length for %q", summary)
			}
		}
	}
}

func TestSummarizeSkinType(t *testing.T) {
	cases := []struct {
		name     string
		detected map[string]int
		fallback string
		want     string
	}{
		{name: "two types", detected: map[string]int{"normal": 1, "oily": 1, "dry": 0, "combination": 0}, fallback: "Oil", want: "Combination (Normal, Oily)"},
		{name: "single type", detected: map[string]int{"dry": 1}, fallback: "Normal", want: "Dry"},
		{name: "none falls back", detected: map[string]int{"redness": 1}, fallback: "Combination", want: "Combination"},
		{name: "nil map falls back", detected: nil, fallback: "Oil", want: "Oil"},
		{name: "ignores non-primary", detected: map[string]int{"acne": 1, "combination": 1}, fallback: "x", want: "Combination"},
		{name: "three types in canonical order", detected: map[string]int{"combination": 1, "dry": 1, "normal": 1}, fallback: "x", want: "Combination (Normal, Dry, Combination)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SummarizeSkinType(tc.detected, tc.fallback); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuildFaceDetails(t *testing.T) {
	t.Run("incomplete result uses fallback message", func(t *testing.T) {
		for _, res := range []*domain.AnalysisResult{
			nil,
			{Type: "Oil", Tone: 3},
			{Tone: 3, Acne: domain.AcneLow},
			{Type: "Oil", Acne: domain.AcneLow},
		} {
			fd := BuildFaceDetails(res)
			if fd.Complete || fd.Message != FaceDetailsFallbackMessage {
				t.Fatalf("expected fallback for %+v, got %+v", res, fd)
			}
		}
	})

	t.Run("complete result", func(t *testing.T) {
		fd := BuildFaceDetails(&domain.AnalysisResult{
			Type: "Oily",
			Tone: 3,
			Acne: domain.AcneLow,
			Features: map[string]int{
				"normal": 1, "oily": 1, "dark spots": 1, "redness": 1, "acne": 0,
			},
		})
		if !fd.Complete {
			t.Fatalf("expected complete details")
		}
		if fd.SkinType != "Combination (Normal, Oily)" {
			t.Fatalf("unexpected skin type %q", fd.SkinType)
		}
		if fd.ToneLabel != "Light (Tone 3)" {
			t.Fatalf("unexpected tone label %q", fd.ToneLabel)
		}
		if fd.AcneSeverity != "Not detected" {
			t.Fatalf("unexpected acne %q", fd.AcneSeverity)
		}
		if !reflect.DeepEqual(fd.OtherConcerns, []string{"Redness", "Dark spots"}) {
			t.Fatalf("unexpected concerns %v", fd.OtherConcerns)
		}
		if fd.Features.Get("oily") != 1 || fd.Features.Get("normal") != 0 || fd.Features.Get("dark spots") != 0 {
			t.Fatalf("unexpected feature vector %v", fd.Features.Active())
		}
	})

	t.Run("out of range tone shows raw value", func(t *testing.T) {
		fd := BuildFaceDetails(&domain.AnalysisResult{Type: "Dry", Tone: 7, Acne: domain.AcneSevere})
		if fd.ToneLabel != "7" {
			t.Fatalf("expected raw tone, got %q", fd.ToneLabel)
		}
		if fd.AcneSeverity != "Severe" {
			t.Fatalf("expected severe, got %q", fd.AcneSeverity)
		}
		if fd.Features.Get("acne") != 1 {
			t.Fatalf("expected acne to be set")
		}
	})
}

func TestRecommendationRequestFor(t *testing.T) {
	req := RecommendationRequestFor(domain.AnalysisResult{Type: "Dry", Tone: 2, Acne: domain.AcneModerate})
	if req.Tone != 2 || req.Type != "Dry" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Features.Get("dry") != 1 || req.Features.Get("acne") != 1 {
		t.Fatalf("unexpected features %v", req.Features.Active())
	}
}
