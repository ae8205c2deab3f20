package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	"github.com/noirparfum/noir-backend/internal/db"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// catalog columns, matched case-insensitively against the header row
var requiredColumns = []string{"name", "price"}

type catalogRow struct {
	line     int
	category string
	request  model.CreateProductRequest
}

func main() {
	adminEmail := flag.String("admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "email of the admin account to create")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password of the admin account to create")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed settings and pages:", err)
	}
	fmt.Println("Settings, counters and default pages are in place")

	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)

	if *adminEmail != "" {
		if err := seedAdmin(userRepo, *adminEmail, *adminPassword); err != nil {
			log.Fatal("Failed to seed admin:", err)
		}
	}

	if flag.NArg() == 0 {
		fmt.Println("No catalog file given, done.")
		return
	}

	filePath := flag.Arg(0)
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total products to import: %d\n", len(rows))

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	categoryService := service.NewCategoryService(categoryRepo, productRepo)
	productService := service.NewProductService(productRepo, categoryRepo)

	created, failed := 0, 0
	categoryIDs := make(map[string]uint)
	for _, row := range rows {
		if row.category != "" {
			id, err := resolveCategory(categoryService, categoryIDs, row.category)
			if err != nil {
				fmt.Printf("Row %d: category %q: %v\n", row.line, row.category, err)
				failed++
				continue
			}
			row.request.CategoryID = &id
		}

		if _, err := productService.CreateProduct(row.request); err != nil {
			fmt.Printf("Row %d: %s: %v\n", row.line, row.request.Name, err)
			failed++
			continue
		}
		created++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Products created: %d, failed: %d\n", created, failed)
}

func seedAdmin(userRepo repository.UserRepository, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := userRepo.FindByEmail(email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			existing.Role = model.RoleAdmin
			if err := userRepo.Update(existing); err != nil {
				return err
			}
			fmt.Printf("Promoted %s to admin\n", email)
			return nil
		}
		fmt.Printf("Admin %s already exists\n", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := util.CheckPasswordStrength(password); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	fmt.Printf("Created admin %s\n", email)
	return nil
}

// resolveCategory finds a category by name-derived slug, creating it once per run
func resolveCategory(categories service.CategoryService, cache map[string]uint, name string) (uint, error) {
	slug := util.Slugify(name)
	if id, ok := cache[slug]; ok {
		return id, nil
	}

	category, err := categories.GetBySlug(slug)
	if errors.Is(err, service.ErrCategoryNotFound) {
		category, err = categories.Create(model.CreateCategoryRequest{Name: name, Slug: slug})
	}
	if err != nil {
		return 0, err
	}

	cache[slug] = category.ID
	return category.ID, nil
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, error) {
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
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var out []catalogRow
	skipped := 0
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(name string) string {
			pos, ok := index[name]
			if !ok || pos >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos])
		}

		name := cell("name")
		if name == "" {
			skipped++
			continue
		}

		price, err := decimal.NewFromString(cell("price"))
		if err != nil || price.IsNegative() {
			fmt.Printf("Row %d: invalid price %q, skipping\n", line, cell("price"))
			skipped++
			continue
		}

		active := !strings.EqualFold(cell("is_active"), "false")
		out = append(out, catalogRow{
			line:     line,
			category: cell("category"),
			request: model.CreateProductRequest{
				Name:            name,
				Slug:            cell("slug"),
				Description:     cell("description"),
				Brand:           cell("brand"),
				Price:           price,
				DiscountPercent: atoi(cell("discount_percent")),
				StockQuantity:   atoi(cell("stock_quantity")),
				Images:          splitList(cell("images")),
				IsFeatured:      strings.EqualFold(cell("is_featured"), "true"),
				IsActive:        &active,
				SizeML:          atoi(cell("size_ml")),
				Gender:          model.Gender(strings.ToLower(cell("gender"))),
				Concentration:   cell("concentration"),
				TopNotes:        splitList(cell("top_notes")),
				HeartNotes:      splitList(cell("heart_notes")),
				BaseNotes:       splitList(cell("base_notes")),
			},
		})
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d rows without a name or with an invalid price\n", skipped)
	}
	return out, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// splitList accepts comma or pipe separated cells
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if v := strings.TrimSpace(field); v != "" {
			out = append(out, v)
		}
	}
	return out
}
