package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/repository"
)

var ErrInvalidRecommendationRequest = errors.New("invalid recommendation request")

// Orden de la grilla de recomendaciones.
const (
	SortRecommended = "recommended"
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortRating      = "rating"
)

// Recommender resuelve recomendaciones contra el catalogo local.
type Recommender struct {
	catalog repository.CatalogRepository
	limit   int
	logger  *zap.Logger
}

func NewRecommender(catalog repository.CatalogRepository, limit int, logger *zap.Logger) *Recommender {
	if limit <= 0 {
		limit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{catalog: catalog, limit: limit, logger: logger}
}

// Recommend devuelve los esenciales por categoria y el maquillaje para el tono/tipo.
func (r *Recommender) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	if r.catalog == nil {
		return domain.Recommendations{}, errors.New("recommender not configured")
	}
	if req.Tone < 1 {
		return domain.Recommendations{}, fmt.Errorf("%w: tone must be positive", ErrInvalidRecommendationRequest)
	}

	general := make([][]domain.CatalogProduct, len(domain.EssentialCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range domain.EssentialCategories {
		g.Go(func() error {
			products, err := r.catalog.Nearest(gctx, category, req.Features, r.limit)
			if err != nil {
				return fmt.Errorf("nearest %s: %w", category, err)
			}
			general[i] = products
			return nil
		})
	}

	var makeup []domain.CatalogProduct
	g.Go(func() error {
		products, err := r.catalog.Makeup(gctx, domain.ToneBucket(req.Tone), strings.ToLower(strings.TrimSpace(req.Type)), r.limit)
		if err != nil {
			return fmt.Errorf("makeup: %w", err)
		}
		makeup = products
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("recommendation lookup failed", zap.Error(err))
		return domain.Recommendations{}, err
	}

	out := domain.Recommendations{
		General: make(map[string][]domain.CatalogProduct, len(general)),
		Makeup:  makeup,
	}
	for i, category := range domain.EssentialCategories {
		if len(general[i]) > 0 {
			out.General[category] = general[i]
		}
	}
	if out.Makeup == nil {
		out.Makeup = []domain.CatalogProduct{}
	}
	return out, nil
}

// FilterRecommendations aplana las recomendaciones para la grilla, filtrando por
// categoria ("" o "all" = todas) y ordenando segun sortBy.
func FilterRecommendations(recs domain.Recommendations, category, sortBy string) ([]domain.CatalogProduct, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "all"
	}

	var out []domain.CatalogProduct
	for _, c := range domain.EssentialCategories {
		if category == "all" || category == c {
			out = append(out, recs.General[c]...)
		}
	}
	// Categorias que el recomendador remoto devuelva fuera de la lista conocida.
	var extra []string
	for c := range recs.General {
		if !knownEssential(c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		if category == "all" || category == c {
			out = append(out, recs.General[c]...)
		}
	}
	for _, p := range recs.Makeup {
		if category == "all" || category == "makeup" || category == p.Category {
			out = append(out, p)
		}
	}

	switch sortBy {
	case "", SortRecommended:
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidRecommendationRequest, sortBy)
	}
	if out == nil {
		out = []domain.CatalogProduct{}
	}
	return out, nil
}

func knownEssential(category string) bool {
	for _, c := range domain.EssentialCategories {
		if c == category {
			return true
		}
	}
	return false
}
