package service

import (
	"bytes"
	"html/template"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
)

var labelTemplate = template.Must(template.New("label").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Delivery label {{.Order.OrderNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 0; padding: 24px; }
  .label { border: 2px solid #000; width: 100mm; padding: 6mm; }
  .row { border-bottom: 1px dashed #999; padding: 3mm 0; }
  .row:last-child { border-bottom: none; }
  h1 { font-size: 16pt; margin: 0; letter-spacing: 2px; }
  .big { font-size: 14pt; font-weight: bold; }
  table { width: 100%; border-collapse: collapse; font-size: 9pt; }
  td { padding: 1mm 0; }
  @media print { body { padding: 0; } .no-print { display: none; } }
</style>
</head>
<body>
<div class="label">
  <div class="row">
    <h1>{{.Settings.SiteName}}</h1>
    {{if .Settings.Address}}<div>{{.Settings.Address}}</div>{{end}}
    {{if .Settings.ContactPhone}}<div>{{.Settings.ContactPhone}}</div>{{end}}
  </div>
  <div class="row">
    <div>Ship to</div>
    <div class="big">{{.Order.CustomerName}}</div>
    <div>{{.Order.AddressLine1}}</div>
    {{if .Order.AddressLine2}}<div>{{.Order.AddressLine2}}</div>{{end}}
    <div>{{.Order.PostalCode}} {{.Order.City}}{{if .Order.State}}, {{.Order.State}}{{end}}</div>
    <div>{{.Order.Country}}</div>
    <div>Tel. {{.Order.CustomerPhone}}</div>
  </div>
  <div class="row">
    <div>Order <span class="big">{{.Order.OrderNumber}}</span></div>
    <div>Date {{.Date}}</div>
    {{if .Order.TrackingNumber}}<div>{{.Order.Carrier}} {{.Order.TrackingNumber}}</div>{{end}}
  </div>
  <div class="row">
    <table>
    {{range .Order.OrderItems}}<tr><td>{{.ProductName}}</td><td align="right">x{{.Quantity}}</td></tr>
    {{end}}</table>
  </div>
  <div class="row">
    {{if .CashOnDelivery}}<div class="big">COD: {{.Amount}} {{.Settings.Currency}}</div>
    {{else}}<div class="big">PAID</div>{{end}}
  </div>
</div>
<button class="no-print" onclick="window.print()">Print</button>
</body>
</html>
`))

type labelData struct {
	Order          *model.Order
	Settings       *model.Settings
	Date           string
	CashOnDelivery bool
	Amount         string
}

type LabelService interface {
	RenderLabel(orderID uint) ([]byte, error)
}

type labelService struct {
	orderService OrderService
	settingsRepo repository.SettingsRepository
}

func NewLabelService(orderService OrderService, settingsRepo repository.SettingsRepository) LabelService {
	return &labelService{
		orderService: orderService,
		settingsRepo: settingsRepo,
	}
}

// RenderLabel produces a printable HTML delivery label for an order
func (s *labelService) RenderLabel(orderID uint) ([]byte, error) {
	order, err := s.orderService.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	data := labelData{
		Order:          order,
		Settings:       settings,
		Date:           order.CreatedAt.In(time.Local).Format("02 Jan 2006"),
		CashOnDelivery: order.PaymentMethod == model.PaymentCashOnDelivery,
		Amount:         order.Total.StringFixed(2),
	}
	var buf bytes.Buffer
	if err := labelTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
