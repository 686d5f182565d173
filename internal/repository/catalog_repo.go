package repository

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"skincare-advisor/internal/domain"
)

// CatalogRepository resuelve productos recomendables.
type CatalogRepository interface {
	// Nearest devuelve los k productos de la categoria mas similares al vector.
	Nearest(ctx context.Context, category string, features domain.FeatureVector, k int) ([]domain.CatalogProduct, error)
	// Makeup devuelve productos de maquillaje para el grupo de tono y tipo de piel.
	Makeup(ctx context.Context, toneBucket, skinType string, k int) ([]domain.CatalogProduct, error)
}

type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

const catalogColumns = `id, name, brand, category, price, rating, image_url, tags, skin_types, tone_bucket, features`

// Upsert inserta o actualiza un producto del catalogo.
func (r *PgCatalogRepository) Upsert(ctx context.Context, p domain.CatalogProduct) error {
	const query = `
		INSERT INTO catalog_products (` + catalogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			rating = EXCLUDED.rating,
			image_url = EXCLUDED.image_url,
			tags = EXCLUDED.tags,
			skin_types = EXCLUDED.skin_types,
			tone_bucket = EXCLUDED.tone_bucket,
			features = EXCLUDED.features
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Brand,
		p.Category,
		p.Price,
		p.Rating,
		p.ImageURL,
		nonNil(p.Tags),
		nonNil(p.SkinTypes),
		p.ToneBucket,
		pgvector.NewVector(p.Features.Float32()),
	)
	return err
}

func (r *PgCatalogRepository) Nearest(ctx context.Context, category string, features domain.FeatureVector, k int) ([]domain.CatalogProduct, error) {
	if k <= 0 {
		k = 5
	}
	// <=> es distancia coseno; score = 1 - distancia. Un vector nulo da NaN, se normaliza a 0.
	const query = `
		SELECT ` + catalogColumns + `, COALESCE(NULLIF(1 - (features <=> $2), 'NaN'), 0) AS score
		FROM catalog_products
		WHERE category = $1
		ORDER BY features <=> $2, rating DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, category, pgvector.NewVector(features.Float32()), k)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows, true)
}

func (r *PgCatalogRepository) Makeup(ctx context.Context, toneBucket, skinType string, k int) ([]domain.CatalogProduct, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT ` + catalogColumns + `
		FROM catalog_products
		WHERE tone_bucket = $1 AND ($2 = '' OR $2 = ANY(skin_types))
		ORDER BY rating DESC, name
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, toneBucket, strings.ToLower(skinType), k)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows, false)
}

func scanProducts(rows pgx.Rows, withScore bool) ([]domain.CatalogProduct, error) {
	defer rows.Close()
	var out []domain.CatalogProduct
	for rows.Next() {
		var (
			p   domain.CatalogProduct
			vec pgvector.Vector
		)
		dest := []any{
			&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price, &p.Rating,
			&p.ImageURL, &p.Tags, &p.SkinTypes, &p.ToneBucket, &vec,
		}
		if withScore {
			dest = append(dest, &p.Score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p.Features = vectorFromFloats(vec.Slice())
		out = append(out, p)
	}
	return out, rows.Err()
}

func vectorFromFloats(values []float32) domain.FeatureVector {
	var b domain.FeatureVectorBuilder
	keys := domain.FeatureKeys()
	for i, v := range values {
		if i < len(keys) && v >= 0.5 {
			b.Set(keys[i])
		}
	}
	return b.Build()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MemoryCatalogRepository resuelve el catalogo en memoria con similitud coseno.
type MemoryCatalogRepository struct {
	products []domain.CatalogProduct
}

func NewMemoryCatalogRepository(products []domain.CatalogProduct) *MemoryCatalogRepository {
	return &MemoryCatalogRepository{products: append([]domain.CatalogProduct(nil), products...)}
}

func (r *MemoryCatalogRepository) Nearest(_ context.Context, category string, features domain.FeatureVector, k int) ([]domain.CatalogProduct, error) {
	if k <= 0 {
		k = 5
	}
	var out []domain.CatalogProduct
	for _, p := range r.products {
		if p.Category != category {
			continue
		}
		p.Score = CosineSimilarity(features, p.Features)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Rating > out[j].Rating
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (r *MemoryCatalogRepository) Makeup(_ context.Context, toneBucket, skinType string, k int) ([]domain.CatalogProduct, error) {
	if k <= 0 {
		k = 5
	}
	skinType = strings.ToLower(skinType)
	var out []domain.CatalogProduct
	for _, p := range r.products {
		if p.ToneBucket != toneBucket {
			continue
		}
		if skinType != "" && !contains(p.SkinTypes, skinType) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// CosineSimilarity entre dos vectores binarios; 0 si alguno es nulo.
func CosineSimilarity(a, b domain.FeatureVector) float64 {
	av, bv := a.Values(), b.Values()
	var dot, na, nb float64
	for i := range av {
		dot += float64(av[i] * bv[i])
		na += float64(av[i] * av[i])
		nb += float64(bv[i] * bv[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
