package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportType string

const (
	ImportReviews  ImportType = "reviews"
	ImportComments ImportType = "comments"
)

var (
	ErrUnsupportedImportType = errors.New("import type must be reviews or comments")
	ErrUnsupportedFileType   = errors.New("file must be .csv or .xlsx")
	ErrMissingColumns        = errors.New("missing required columns")
	ErrEmptyImport           = errors.New("file has no data rows")
)

var requiredColumns = map[ImportType][]string{
	ImportReviews:  {"product_slug", "name", "email", "rating", "comment"},
	ImportComments: {"blog_slug", "name", "email", "content"},
}

// importedReview and importedComment mirror the column limits of the target tables
type importedReview struct {
	Name    string `col:"name" validate:"required,max=120"`
	Email   string `col:"email" validate:"required,email,max=200"`
	Title   string `col:"title" validate:"max=200"`
	Comment string `col:"comment" validate:"required,max=5000"`
}

type importedComment struct {
	Name    string `col:"name" validate:"required,max=120"`
	Email   string `col:"email" validate:"required,email,max=200"`
	Content string `col:"content" validate:"required,max=3000"`
}

var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("col")
	})
	return v
}

// rowProblem describes the first failing column of an imported row
func rowProblem(row interface{}) string {
	err := rowValidator.Struct(row)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// MissingColumnsError lists the required headers absent from the file
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

type ImportService interface {
	Import(importType ImportType, filename string, r io.Reader) (*ImportResult, error)
}

type importService struct {
	db          *gorm.DB
	reviewRepo  repository.ReviewRepository
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
	blogRepo    repository.BlogRepository
}

func NewImportService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	blogRepo repository.BlogRepository,
) ImportService {
	return &importService{
		db:          db,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		productRepo: productRepo,
		blogRepo:    blogRepo,
	}
}

// readRows returns every row of a CSV file or of the first XLSX sheet
func readRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		return reader.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	default:
		return nil, ErrUnsupportedFileType
	}
}

// tableRow gives access to a data row by header name
type tableRow struct {
	index  map[string]int
	values []string
}

func (r tableRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func isBlankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseModeration(value string) (model.ModerationStatus, error) {
	if value == "" {
		return model.ModerationApproved, nil
	}
	status := model.ModerationStatus(strings.ToLower(value))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", value)
	}
	return status, nil
}

// Import validates headers before touching the database; valid rows are
// inserted in one transaction and bad rows are reported and skipped.
func (s *importService) Import(importType ImportType, filename string, r io.Reader) (*ImportResult, error) {
	required, ok := requiredColumns[importType]
	if !ok {
		return nil, ErrUnsupportedImportType
	}

	rows, err := readRows(filename, r)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFileType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFileType, err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: required}
	}

	index := headerIndex(rows[0])
	var missing []string
	for _, column := range required {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		logger.Warn("Import rejected: missing columns", map[string]interface{}{
			"type":    importType,
			"missing": missing,
		})
		return nil, &MissingColumnsError{Columns: missing}
	}
	if len(rows) == 1 {
		return nil, ErrEmptyImport
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	switch importType {
	case ImportReviews:
		err = s.importReviews(index, rows[1:], result)
	case ImportComments:
		err = s.importComments(index, rows[1:], result)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Import finished", map[string]interface{}{
		"type":     importType,
		"file":     filename,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
	return result, nil
}

func (result *ImportResult) skip(row int, message string) {
	result.Skipped++
	result.Errors = append(result.Errors, ImportRowError{Row: row, Message: message})
}

func (s *importService) importReviews(index map[string]int, rows [][]string, result *ImportResult) error {
	products := make(map[string]*model.Product)
	var reviews []model.Review
	touched := make(map[uint]bool)

	for i, values := range rows {
		line := i + 2
		if isBlankRow(values) {
			continue
		}
		row := tableRow{index: index, values: values}

		slug := row.get("product_slug")
		product, ok := products[slug]
		if !ok {
			found, err := s.productRepo.FindBySlug(slug)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			product = found
			products[slug] = found
		}
		if product == nil {
			result.skip(line, fmt.Sprintf("unknown product %q", slug))
			continue
		}

		rating, err := strconv.Atoi(row.get("rating"))
		if err != nil || rating < 1 || rating > 5 {
			result.skip(line, "rating must be a whole number between 1 and 5")
			continue
		}
		fields := importedReview{
			Name:    row.get("name"),
			Email:   strings.ToLower(row.get("email")),
			Title:   row.get("title"),
			Comment: row.get("comment"),
		}
		if problem := rowProblem(fields); problem != "" {
			result.skip(line, problem)
			continue
		}
		status, err := parseModeration(row.get("status"))
		if err != nil {
			result.skip(line, err.Error())
			continue
		}

		productID := product.ID
		reviews = append(reviews, model.Review{
			ProductID: &productID,
			Name:      fields.Name,
			Email:     fields.Email,
			Rating:    rating,
			Title:     fields.Title,
			Comment:   fields.Comment,
			Status:    status,
			Imported:  true,
		})
		touched[productID] = true
	}

	if len(reviews) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		if err := reviewRepo.CreateBatch(reviews); err != nil {
			return err
		}
		for productID := range touched {
			summary, err := reviewRepo.ProductRatingSummary(productID)
			if err != nil {
				return err
			}
			if err := productRepo.UpdateRatingSummary(productID, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	result.Imported = len(reviews)
	return nil
}

func (s *importService) importComments(index map[string]int, rows [][]string, result *ImportResult) error {
	blogs := make(map[string]*model.Blog)
	var comments []model.Comment

	for i, values := range rows {
		line := i + 2
		if isBlankRow(values) {
			continue
		}
		row := tableRow{index: index, values: values}

		slug := row.get("blog_slug")
		blog, ok := blogs[slug]
		if !ok {
			found, err := s.blogRepo.FindBySlug(slug)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			blog = found
			blogs[slug] = found
		}
		if blog == nil {
			result.skip(line, fmt.Sprintf("unknown blog %q", slug))
			continue
		}

		fields := importedComment{
			Name:    row.get("name"),
			Email:   strings.ToLower(row.get("email")),
			Content: row.get("content"),
		}
		if problem := rowProblem(fields); problem != "" {
			result.skip(line, problem)
			continue
		}
		status, err := parseModeration(row.get("status"))
		if err != nil {
			result.skip(line, err.Error())
			continue
		}

		comments = append(comments, model.Comment{
			BlogID:   blog.ID,
			Name:     fields.Name,
			Email:    fields.Email,
			Content:  fields.Content,
			Status:   status,
			Imported: true,
		})
	}

	if len(comments) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.WithTx(tx).CreateBatch(comments)
	})
	if err != nil {
		return err
	}
	result.Imported = len(comments)
	return nil
}
