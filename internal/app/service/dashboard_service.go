package service

import (
	"bytes"
	"fmt"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const recentOrdersOnDashboard = 5

// DashboardSummary is the admin landing page payload
type DashboardSummary struct {
	OrdersByStatus   map[model.OrderStatus]int64 `json:"orders_by_status"`
	TotalOrders      int64                       `json:"total_orders"`
	Revenue          decimal.Decimal             `json:"revenue"`
	PendingReviews   int64                       `json:"pending_reviews"`
	PendingComments  int64                       `json:"pending_comments"`
	PendingQuestions int64                       `json:"pending_questions"`
	NewMessages      int64                       `json:"new_messages"`
	PublishedBlogs   int64                       `json:"published_blogs"`
	Customers        int64                       `json:"customers"`
	LowStock         []model.Product             `json:"low_stock"`
	RecentOrders     []model.Order               `json:"recent_orders"`
}

type DashboardService interface {
	Summary() (*DashboardSummary, error)
	ExportOrders(filter model.OrderFilter) ([]byte, error)
}

type dashboardService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	reviewRepo   repository.ReviewRepository
	commentRepo  repository.CommentRepository
	questionRepo repository.QuestionRepository
	contactRepo  repository.ContactRepository
	blogRepo     repository.BlogRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
}

type DashboardRepos struct {
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Reviews   repository.ReviewRepository
	Comments  repository.CommentRepository
	Questions repository.QuestionRepository
	Contacts  repository.ContactRepository
	Blogs     repository.BlogRepository
	Users     repository.UserRepository
	Settings  repository.SettingsRepository
}

func NewDashboardService(repos DashboardRepos) DashboardService {
	return &dashboardService{
		orderRepo:    repos.Orders,
		productRepo:  repos.Products,
		reviewRepo:   repos.Reviews,
		commentRepo:  repos.Comments,
		questionRepo: repos.Questions,
		contactRepo:  repos.Contacts,
		blogRepo:     repos.Blogs,
		userRepo:     repos.Users,
		settingsRepo: repos.Settings,
	}
}

func (s *dashboardService) Summary() (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	var err error

	if summary.OrdersByStatus, err = s.orderRepo.CountByStatus(); err != nil {
		return nil, err
	}
	for _, count := range summary.OrdersByStatus {
		summary.TotalOrders += count
	}
	if summary.Revenue, err = s.orderRepo.Revenue(); err != nil {
		return nil, err
	}
	if summary.PendingReviews, err = s.reviewRepo.CountByStatus(model.ModerationPending); err != nil {
		return nil, err
	}
	if summary.PendingComments, err = s.commentRepo.CountByStatus(model.ModerationPending); err != nil {
		return nil, err
	}
	if summary.PendingQuestions, err = s.questionRepo.CountByStatus(model.QuestionStatusPending); err != nil {
		return nil, err
	}
	if summary.NewMessages, err = s.contactRepo.CountByStatus(model.ContactStatusNew); err != nil {
		return nil, err
	}
	if summary.PublishedBlogs, err = s.blogRepo.CountByStatus(model.BlogStatusPublished); err != nil {
		return nil, err
	}
	if summary.Customers, err = s.userRepo.CountByRole(model.RoleUser); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if summary.LowStock, err = s.productRepo.FindLowStock(settings.LowStockThreshold); err != nil {
		return nil, err
	}
	if summary.RecentOrders, err = s.orderRepo.FindRecent(recentOrdersOnDashboard); err != nil {
		return nil, err
	}
	return summary, nil
}

var exportHeaders = []string{
	"Order number", "Date", "Status", "Customer", "Email", "Phone", "Address",
	"Items", "Subtotal", "Discount", "Shipping", "Tax", "Total", "Coupon", "Payment", "Tracking",
}

// ExportOrders writes the filtered orders to a single-sheet XLSX workbook
func (s *dashboardService) ExportOrders(filter model.OrderFilter) ([]byte, error) {
	filter.Page = 0
	filter.Limit = 0
	orders, _, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Orders"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for r, order := range orders {
		items := 0
		for _, item := range order.OrderItems {
			items += item.Quantity
		}
		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			string(order.Status),
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.ShippingAddress(),
			items,
			order.Subtotal.InexactFloat64(),
			order.Discount.InexactFloat64(),
			order.ShippingFee.InexactFloat64(),
			order.Tax.InexactFloat64(),
			order.Total.InexactFloat64(),
			order.CouponCode,
			string(order.PaymentMethod),
			order.TrackingNumber,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	logger.Info("Orders exported", map[string]interface{}{
		"count": len(orders),
	})
	return buf.Bytes(), nil
}
