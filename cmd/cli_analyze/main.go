package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"skincare-advisor/internal/analyzer"
	"skincare-advisor/internal/config"
	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
	"skincare-advisor/internal/repository"
	"skincare-advisor/internal/service"
)

func main() {
	category := flag.String("category", "all", "categoria a listar (all, makeup, serum, ...)")
	sortBy := flag.String("sort", service.SortRecommended, "orden: recommended, price-low, price-high, rating")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: cli_analyze [-category c] [-sort s] <foto.jpg|foto.png>")
		os.Exit(2)
	}

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	dataURL, err := imagedata.FromFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("leer imagen: %v", err)
	}

	recommender := service.NewRecommender(
		repository.NewMemoryCatalogRepository(repository.DefaultCatalog()),
		cfg.RecommendationLimit,
		logger,
	)
	var client analyzer.Client = analyzer.NewSimulatedClient(cfg.SimulatedDelay, recommender.Recommend)
	if cfg.AnalyzerBaseURL != "" {
		remote := analyzer.NewHTTPClient(cfg.AnalyzerBaseURL, analyzer.Options{
			Timeout:    cfg.AnalyzerTimeout,
			MaxRetries: cfg.AnalyzerMaxRetries,
			Backoff:    cfg.AnalyzerBackoff,
		}, nil, logger)
		client = remote
		if !cfg.RemoteRecommender() {
			client = analyzer.WithLocalRecommender(remote, recommender.Recommend)
		}
	}

	svc := service.NewAnalysisService(service.NewMemoryStateStore(cfg.SessionTTL), client, cfg.MaxImageBytes, logger)
	fmt.Println("Analizando imagen...")
	result, details, err := svc.Submit(ctx, dataURL)
	if err != nil {
		log.Fatalf("analisis: %v", err)
	}
	printDetails(details)
	if !details.Complete {
		os.Exit(1)
	}

	recs, err := svc.RecommendFor(ctx, service.RecommendationRequestFor(result))
	if err != nil {
		log.Fatalf("recomendaciones: %v", err)
	}
	products, err := service.FilterRecommendations(recs, *category, *sortBy)
	if err != nil {
		log.Fatalf("filtro: %v", err)
	}
	printProducts(products)
}

func printDetails(d domain.FaceDetails) {
	fmt.Println("===== Resultado =====")
	if !d.Complete {
		fmt.Println(d.Message)
		return
	}
	fmt.Printf("Tipo de piel: %s\n", d.SkinType)
	fmt.Printf("Tono: %s\n", d.ToneLabel)
	fmt.Printf("Acne: %s\n", d.AcneSeverity)
	if len(d.OtherConcerns) > 0 {
		fmt.Printf("Otros: %s\n", strings.Join(d.OtherConcerns, "; "))
	}
	fmt.Printf("Vector: %v\n", d.Features.Values())
}

func printProducts(products []domain.CatalogProduct) {
	fmt.Println("===== Recomendaciones =====")
	if len(products) == 0 {
		fmt.Println("Sin productos para el filtro elegido.")
		return
	}
	for _, p := range products {
		fmt.Printf("- [%s] %s (%s) $%.2f ★%.1f\n", p.Category, p.Name, p.Brand, p.Price, p.Rating)
	}
}
