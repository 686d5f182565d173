package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/repository"
)

type failingCatalog struct{}

func (failingCatalog) Nearest(context.Context, string, domain.FeatureVector, int) ([]domain.CatalogProduct, error) {
	return nil, errors.New("db down")
}

func (failingCatalog) Makeup(context.Context, string, string, int) ([]domain.CatalogProduct, error) {
	return nil, nil
}

func TestRecommenderRecommend(t *testing.T) {
	rec := NewRecommender(repository.NewMemoryCatalogRepository(repository.DefaultCatalog()), 2, zap.NewNop())
	req := RecommendationRequestFor(domain.AnalysisResult{
		Type:     "Oily",
		Tone:     5,
		Acne:     domain.AcneSevere,
		Features: map[string]int{"pore": 1, "blackheads": 1},
	})

	recs, err := rec.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, c := range domain.EssentialCategories {
		if len(recs.General[c]) == 0 || len(recs.General[c]) > 2 {
			t.Fatalf("category %s: expected 1-2 products, got %d", c, len(recs.General[c]))
		}
	}
	if recs.General[domain.CategoryFaceWash][0].ID != "fw-salicylic" {
		t.Fatalf("expected salicylic wash first, got %s", recs.General[domain.CategoryFaceWash][0].ID)
	}
	if len(recs.Makeup) == 0 {
		t.Fatalf("expected makeup recommendations")
	}
	for _, p := range recs.Makeup {
		if p.ToneBucket != "medium to dark" {
			t.Fatalf("expected medium to dark makeup, got %s", p.ToneBucket)
		}
	}
}

func TestRecommenderRejectsMissingTone(t *testing.T) {
	rec := NewRecommender(repository.NewMemoryCatalogRepository(nil), 5, nil)
	_, err := rec.Recommend(context.Background(), domain.RecommendationRequest{Type: "dry"})
	if !errors.Is(err, ErrInvalidRecommendationRequest) {
		t.Fatalf("expected ErrInvalidRecommendationRequest, got %v", err)
	}
}

func TestRecommenderPropagatesCatalogErrors(t *testing.T) {
	rec := NewRecommender(failingCatalog{}, 5, zap.NewNop())
	if _, err := rec.Recommend(context.Background(), domain.RecommendationRequest{Tone: 3}); err == nil {
		t.Fatalf("expected catalog error")
	}
}

func TestFilterRecommendations(t *testing.T) {
	recs := domain.Recommendations{
		General: map[string][]domain.CatalogProduct{
			domain.CategoryFaceWash: {{ID: "a", Category: domain.CategoryFaceWash, Price: 20, Rating: 4.1}},
			domain.CategorySerum:    {{ID: "b", Category: domain.CategorySerum, Price: 10, Rating: 4.9}},
			"exfoliator":            {{ID: "x", Category: "exfoliator", Price: 15, Rating: 3.0}},
		},
		Makeup: []domain.CatalogProduct{{ID: "c", Category: domain.CategoryFoundation, Price: 30, Rating: 4.5}},
	}

	ids := func(ps []domain.CatalogProduct) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	cases := []struct {
		category string
		sortBy   string
		want     []string
	}{
		{"all", "recommended", []string{"a", "b", "x", "c"}},
		{"", "price-low", []string{"b", "x", "a", "c"}},
		{"all", "price-high", []string{"c", "a", "x", "b"}},
		{"all", "rating", []string{"b", "c", "a", "x"}},
		{"Serum", "", []string{"b"}},
		{"makeup", "", []string{"c"}},
		{"foundation", "", []string{"c"}},
		{"exfoliator", "", []string{"x"}},
		{"masks", "", nil},
	}
	for _, tc := range cases {
		got, err := FilterRecommendations(recs, tc.category, tc.sortBy)
		if err != nil {
			t.Fatalf("%s/%s: unexpected error %v", tc.category, tc.sortBy, err)
		}
		gotIDs := ids(got)
		if len(gotIDs) != len(tc.want) {
			t.Fatalf("%s/%s: expected %v, got %v", tc.category, tc.sortBy, tc.want, gotIDs)
		}
		for i := range gotIDs {
			if gotIDs[i] != tc.want[i] {
				t.Fatalf("%s/%s: expected %v, got %v", tc.category, tc.sortBy, tc.want, gotIDs)
			}
		}
	}

	if _, err := FilterRecommendations(recs, "all", "newest"); !errors.Is(err, ErrInvalidRecommendationRequest) {
		t.Fatalf("expected unknown sort to be rejected, got %v", err)
	}
}
