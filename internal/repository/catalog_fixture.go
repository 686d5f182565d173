package repository

import "skincare-advisor/internal/domain"

func features(keys ...string) domain.FeatureVector {
	var b domain.FeatureVectorBuilder
	for _, k := range keys {
		b.Set(k)
	}
	return b.Build()
}

// DefaultCatalog es el catalogo de productos incluido con el servicio.
func DefaultCatalog() []domain.CatalogProduct {
	return []domain.CatalogProduct{
		// Limpiadores
		{ID: "fw-hydrating", Name: "Hydrating Cleanser", Brand: "SkinLab", Category: domain.CategoryFaceWash, Price: 29.99, Rating: 4.8,
			Tags: []string{"Hydrating", "Gentle", "pH Balanced"}, Features: features(domain.FeatureDry, domain.FeatureNormal, domain.FeatureSensitive, domain.FeatureDull)},
		{ID: "fw-salicylic", Name: "Salicylic Acid Gel Wash", Brand: "ClearPath", Category: domain.CategoryFaceWash, Price: 14.5, Rating: 4.5,
			Tags: []string{"Exfoliating", "Oil Control"}, Features: features(domain.FeatureOily, domain.FeatureAcne, domain.FeatureBlackheads, domain.FeatureWhiteheads, domain.FeaturePore)},
		{ID: "fw-balancing", Name: "Balancing Foam Cleanser", Brand: "Dermique", Category: domain.CategoryFaceWash, Price: 18, Rating: 4.3,
			Tags: []string{"Balancing"}, Features: features(domain.FeatureCombination, domain.FeaturePore, domain.FeatureDull)},
		{ID: "fw-calming", Name: "Calming Milk Cleanser", Brand: "Verda", Category: domain.CategoryFaceWash, Price: 21, Rating: 4.6,
			Tags: []string{"Fragrance Free", "Soothing"}, Features: features(domain.FeatureSensitive, domain.FeatureRedness, domain.FeatureDry)},

		// Tonicos
		{ID: "tn-bha", Name: "BHA Clarifying Toner", Brand: "ClearPath", Category: domain.CategoryToner, Price: 19, Rating: 4.4,
			Tags: []string{"BHA"}, Features: features(domain.FeatureOily, domain.FeatureAcne, domain.FeaturePore, domain.FeatureBlackheads)},
		{ID: "tn-rose", Name: "Rose Hydrating Mist", Brand: "Verda", Category: domain.CategoryToner, Price: 16, Rating: 4.2,
			Tags: []string{"Hydrating"}, Features: features(domain.FeatureDry, domain.FeatureNormal, domain.FeatureDull)},
		{ID: "tn-glycolic", Name: "Glycolic Glow Toner", Brand: "GlowEssence", Category: domain.CategoryToner, Price: 24, Rating: 4.5,
			Tags: []string{"AHA", "Brightening"}, Features: features(domain.FeatureDull, domain.FeaturePigmentation, domain.FeatureDarkSpots, domain.FeatureCombination)},

		// Serums
		{ID: "sr-vitc", Name: "Vitamin C Serum", Brand: "GlowEssence", Category: domain.CategorySerum, Price: 49.99, Rating: 4.9,
			Tags: []string{"Brightening", "Anti-oxidant", "Fast-absorbing"}, Features: features(domain.FeatureDull, domain.FeaturePigmentation, domain.FeatureDarkSpots, domain.FeatureFineLines)},
		{ID: "sr-niacinamide", Name: "Niacinamide 10% Serum", Brand: "Dermique", Category: domain.CategorySerum, Price: 12, Rating: 4.6,
			Tags: []string{"Oil Control", "Pore Refining"}, Features: features(domain.FeatureOily, domain.FeaturePore, domain.FeatureBlemishes, domain.FeatureAcne, domain.FeatureRedness)},
		{ID: "sr-retinol", Name: "Retinol Night Serum", Brand: "SkinLab", Category: domain.CategorySerum, Price: 38, Rating: 4.7,
			Tags: []string{"Anti-aging"}, Features: features(domain.FeatureFineLines, domain.FeatureWrinkles, domain.FeatureDull, domain.FeatureNormal)},
		{ID: "sr-hyaluronic", Name: "Hyaluronic Acid Serum", Brand: "Verda", Category: domain.CategorySerum, Price: 22, Rating: 4.5,
			Tags: []string{"Hydrating"}, Features: features(domain.FeatureDry, domain.FeatureFineLines, domain.FeatureSensitive)},

		// Hidratantes
		{ID: "mo-gel", Name: "Oil-Free Gel Moisturizer", Brand: "ClearPath", Category: domain.CategoryMoisturizer, Price: 20, Rating: 4.4,
			Tags: []string{"Oil Free", "Lightweight"}, Features: features(domain.FeatureOily, domain.FeatureAcne, domain.FeatureCombination)},
		{ID: "mo-barrier", Name: "Barrier Repair Cream", Brand: "Verda", Category: domain.CategoryMoisturizer, Price: 32, Rating: 4.8,
			Tags: []string{"Ceramides"}, Features: features(domain.FeatureDry, domain.FeatureSensitive, domain.FeatureRedness)},
		{ID: "mo-daily", Name: "Daily Balance Lotion", Brand: "SkinLab", Category: domain.CategoryMoisturizer, Price: 25, Rating: 4.3,
			Features: features(domain.FeatureNormal, domain.FeatureCombination, domain.FeatureDull)},

		// Protectores solares
		{ID: "ss-fluid", Name: "Invisible Fluid SPF 50", Brand: "SunWise", Category: domain.CategorySunscreen, Price: 27, Rating: 4.7,
			Tags: []string{"SPF 50", "Non-comedogenic"}, Features: features(domain.FeatureOily, domain.FeatureCombination, domain.FeatureAcne, domain.FeatureDarkSpots)},
		{ID: "ss-mineral", Name: "Mineral Sunscreen SPF 30", Brand: "Verda", Category: domain.CategorySunscreen, Price: 23, Rating: 4.4,
			Tags: []string{"Mineral"}, Features: features(domain.FeatureSensitive, domain.FeatureRedness, domain.FeatureDry, domain.FeatureNormal)},

		// Mascarillas
		{ID: "mk-clay", Name: "Purifying Clay Mask", Brand: "Dermique", Category: domain.CategoryMask, Price: 17, Rating: 4.5,
			Features: features(domain.FeatureOily, domain.FeaturePore, domain.FeatureBlackheads, domain.FeatureWhiteheads)},
		{ID: "mk-overnight", Name: "Overnight Hydration Mask", Brand: "SkinLab", Category: domain.CategoryMask, Price: 30, Rating: 4.6,
			Features: features(domain.FeatureDry, domain.FeatureDull, domain.FeatureFineLines)},

		// Contorno de ojos
		{ID: "ec-caffeine", Name: "Caffeine Eye Gel", Brand: "GlowEssence", Category: domain.CategoryEyeCream, Price: 19, Rating: 4.2,
			Features: features(domain.FeatureEyeBags, domain.FeatureDarkCircles)},
		{ID: "ec-peptide", Name: "Peptide Eye Cream", Brand: "SkinLab", Category: domain.CategoryEyeCream, Price: 42, Rating: 4.6,
			Features: features(domain.FeatureFineLines, domain.FeatureWrinkles, domain.FeatureDarkCircles)},

		// Maquillaje
		{ID: "fd-porcelain-matte", Name: "Matte Foundation Porcelain", Brand: "Tinte", Category: domain.CategoryFoundation, Price: 34, Rating: 4.3,
			ToneBucket: "fair to light", SkinTypes: []string{"oily", "combination"}},
		{ID: "fd-porcelain-dewy", Name: "Dewy Skin Tint Porcelain", Brand: "Tinte", Category: domain.CategoryFoundation, Price: 30, Rating: 4.5,
			ToneBucket: "fair to light", SkinTypes: []string{"dry", "normal"}},
		{ID: "cc-fair", Name: "Brightening Concealer Fair", Brand: "Lumo", Category: domain.CategoryConcealer, Price: 22, Rating: 4.4,
			ToneBucket: "fair to light", SkinTypes: []string{"dry", "normal", "oily", "combination"}},
		{ID: "fd-sand-matte", Name: "Matte Foundation Sand", Brand: "Tinte", Category: domain.CategoryFoundation, Price: 34, Rating: 4.4,
			ToneBucket: "light to medium", SkinTypes: []string{"oily", "combination"}},
		{ID: "fd-sand-satin", Name: "Satin Foundation Sand", Brand: "Lumo", Category: domain.CategoryFoundation, Price: 36, Rating: 4.6,
			ToneBucket: "light to medium", SkinTypes: []string{"dry", "normal"}},
		{ID: "pr-pore", Name: "Pore Blur Primer", Brand: "Lumo", Category: domain.CategoryPrimer, Price: 26, Rating: 4.1,
			ToneBucket: "light to medium", SkinTypes: []string{"oily", "combination", "normal"}},
		{ID: "fd-mocha-matte", Name: "Matte Foundation Mocha", Brand: "Tinte", Category: domain.CategoryFoundation, Price: 34, Rating: 4.5,
			ToneBucket: "medium to dark", SkinTypes: []string{"oily", "combination"}},
		{ID: "fd-mocha-hydra", Name: "Hydra Foundation Mocha", Brand: "Lumo", Category: domain.CategoryFoundation, Price: 36, Rating: 4.7,
			ToneBucket: "medium to dark", SkinTypes: []string{"dry", "normal"}},
		{ID: "cc-deep", Name: "Full Cover Concealer Deep", Brand: "Lumo", Category: domain.CategoryConcealer, Price: 22, Rating: 4.6,
			ToneBucket: "medium to dark", SkinTypes: []string{"dry", "normal", "oily", "combination"}},
	}
}
