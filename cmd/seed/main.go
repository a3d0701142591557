package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/petstoryclub/petstory-backend/config"
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/db"
	"github.com/petstoryclub/petstory-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX sheet. Expected columns:
// name, slug, description, price, compare_price, stock, size,
// category_slug, featured, new, sale, active, sort_order
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	// Cache category lookups; unknown slugs leave the product uncategorized
	categoryIDs := make(map[string]*uint)

	var products []model.Product
	seenSlugs := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		slug := strings.TrimSpace(cell(row, 1))
		description := strings.TrimSpace(cell(row, 2))
		priceStr := strings.TrimSpace(cell(row, 3))
		comparePriceStr := strings.TrimSpace(cell(row, 4))
		stockStr := strings.TrimSpace(cell(row, 5))
		size := strings.TrimSpace(cell(row, 6))
		categorySlug := strings.TrimSpace(cell(row, 7))

		if name == "" || priceStr == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			skippedCount++
			continue
		}

		if slug == "" {
			slug = util.Slugify(name)
		}
		if slug == "" || seenSlugs[slug] {
			skippedCount++
			continue
		}
		seenSlugs[slug] = true

		var comparePrice *float64
		if cp, err := strconv.ParseFloat(comparePriceStr, 64); err == nil && cp > price {
			comparePrice = &cp
		}

		stock := 0
		if s, err := strconv.Atoi(stockStr); err == nil && s > 0 {
			stock = s
		}

		var categoryID *uint
		if categorySlug != "" {
			id, ok := categoryIDs[categorySlug]
			if !ok {
				if category, err := categoryRepo.FindBySlug(categorySlug); err == nil {
					id = &category.ID
				} else {
					fmt.Printf("Unknown category slug %q, importing uncategorized\n", categorySlug)
				}
				categoryIDs[categorySlug] = id
			}
			categoryID = id
		}

		product := model.Product{
			Name:         name,
			Slug:         slug,
			Description:  description,
			Price:        price,
			ComparePrice: comparePrice,
			Stock:        stock,
			Size:         size,
			CategoryID:   categoryID,
			IsFeatured:   boolCell(row, 8),
			IsNew:        boolCell(row, 9),
			IsSale:       boolCell(row, 10),
			IsActive:     len(row) <= 11 || boolCell(row, 11),
			SortOrder:    intCell(row, 12),
		}

		products = append(products, product)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func boolCell(row []string, idx int) bool {
	v := strings.ToLower(strings.TrimSpace(cell(row, idx)))
	return v == "true" || v == "1" || v == "yes" || v == "y"
}

func intCell(row []string, idx int) int {
	v, err := strconv.Atoi(strings.TrimSpace(cell(row, idx)))
	if err != nil {
		return 0
	}
	return v
}
