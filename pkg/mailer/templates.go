package mailer

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// OrderLine is one purchased item as shown in customer email
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// OrderEmail carries the values rendered into order emails
type OrderEmail struct {
	StoreName      string
	CustomerName   string
	OrderNumber    string
	Items          []OrderLine
	Subtotal       string
	Discount       string
	Shipping       string
	Tax            string
	Total          string
	Currency       string
	TrackURL       string
	Carrier        string
	TrackingNumber string
	TrackingURL    string
}

// ContactReplyEmail carries an admin reply to a contact message
type ContactReplyEmail struct {
	StoreName    string
	CustomerName string
	Subject      string
	Original     string
	Reply        string
}

// LowStockLine is one product in the low-stock report
type LowStockLine struct {
	Name  string
	Slug  string
	Stock int
}

// PasswordResetEmail carries the reset link sent to a customer
type PasswordResetEmail struct {
	StoreName    string
	CustomerName string
	ResetURL     string
	ExpiresIn    string
}

type LowStockEmail struct {
	StoreName string
	Threshold int
	Products  []LowStockLine
}

const orderConfirmationHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; color: #222; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="font-weight: normal; letter-spacing: 2px;">{{.StoreName}}</h1>
  <p>Dear {{.CustomerName}},</p>
  <p>Thank you for your order. We are preparing it with care.</p>
  <p style="background: #f6f3ee; padding: 12px;">Order number <strong>{{.OrderNumber}}</strong></p>
  <table style="width: 100%; border-collapse: collapse;">
    <thead><tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th><th align="right">Total</th></tr></thead>
    <tbody>
    {{range .Items}}<tr>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee;">{{.Name}}</td>
      <td align="center">{{.Quantity}}</td>
      <td align="right">{{.UnitPrice}}</td>
      <td align="right">{{.LineTotal}}</td>
    </tr>{{end}}
    </tbody>
  </table>
  <p align="right">Subtotal: {{.Subtotal}} {{.Currency}}<br>
  {{if ne .Discount "0"}}Discount: -{{.Discount}} {{.Currency}}<br>{{end}}
  Shipping: {{.Shipping}} {{.Currency}}<br>
  Tax: {{.Tax}} {{.Currency}}<br>
  <strong>Total: {{.Total}} {{.Currency}}</strong></p>
  {{if .TrackURL}}<p>You can follow your order at <a href="{{.TrackURL}}">{{.TrackURL}}</a>.</p>{{end}}
</body></html>`

const orderConfirmationText = `{{.StoreName}}

Dear {{.CustomerName}},

Thank you for your order {{.OrderNumber}}.
{{range .Items}}
- {{.Name}} x{{.Quantity}}: {{.LineTotal}}{{end}}

Subtotal: {{.Subtotal}} {{.Currency}}
Shipping: {{.Shipping}} {{.Currency}}
Tax: {{.Tax}} {{.Currency}}
Total: {{.Total}} {{.Currency}}
{{if .TrackURL}}
Track your order: {{.TrackURL}}{{end}}
`

const orderShippedHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; color: #222; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="font-weight: normal; letter-spacing: 2px;">{{.StoreName}}</h1>
  <p>Dear {{.CustomerName}},</p>
  <p>Your order <strong>{{.OrderNumber}}</strong> is on its way.</p>
  <p style="background: #f6f3ee; padding: 12px;">
    {{if .Carrier}}Carrier: {{.Carrier}}<br>{{end}}
    Tracking number: <strong>{{.TrackingNumber}}</strong>
  </p>
  {{if .TrackingURL}}<p><a href="{{.TrackingURL}}">Track your parcel</a></p>{{end}}
</body></html>`

const orderShippedText = `{{.StoreName}}

Dear {{.CustomerName}},

Your order {{.OrderNumber}} is on its way.
{{if .Carrier}}Carrier: {{.Carrier}}
{{end}}Tracking number: {{.TrackingNumber}}
{{if .TrackingURL}}Track your parcel: {{.TrackingURL}}
{{end}}`

const contactReplyHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; color: #222; max-width: 600px; margin: 0 auto; padding: 20px;">
  <p>Dear {{.CustomerName}},</p>
  <p style="white-space: pre-line;">{{.Reply}}</p>
  <hr>
  <p style="color: #777; font-size: 13px;">Your message: {{.Subject}}<br><span style="white-space: pre-line;">{{.Original}}</span></p>
  <p>{{.StoreName}}</p>
</body></html>`

const contactReplyText = `Dear {{.CustomerName}},

{{.Reply}}

--
Your message: {{.Subject}}
{{.Original}}

{{.StoreName}}
`

const lowStockHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif;">
  <h2>{{.StoreName}}: low stock report</h2>
  <p>Products at or below {{.Threshold}} units:</p>
  <ul>{{range .Products}}<li>{{.Name}} ({{.Slug}}): {{.Stock}}</li>{{end}}</ul>
</body></html>`

const lowStockText = `{{.StoreName}}: low stock report
Products at or below {{.Threshold}} units:
{{range .Products}}- {{.Name}} ({{.Slug}}): {{.Stock}}
{{end}}`

const passwordResetHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; color: #222; max-width: 600px; margin: 0 auto; padding: 20px;">
  <p>Dear {{.CustomerName}},</p>
  <p>We received a request to reset your {{.StoreName}} password.</p>
  <p><a href="{{.ResetURL}}">Choose a new password</a></p>
  <p style="color: #777; font-size: 13px;">The link expires in {{.ExpiresIn}}. If you did not ask for it you can ignore this email.</p>
</body></html>`

const passwordResetText = `Dear {{.CustomerName}},

We received a request to reset your {{.StoreName}} password.
Choose a new password here: {{.ResetURL}}

The link expires in {{.ExpiresIn}}. If you did not ask for it you can ignore this email.
`

var (
	htmlTemplates = map[string]*htmltemplate.Template{
		"order_confirmation": htmltemplate.Must(htmltemplate.New("order_confirmation").Parse(orderConfirmationHTML)),
		"order_shipped":      htmltemplate.Must(htmltemplate.New("order_shipped").Parse(orderShippedHTML)),
		"contact_reply":      htmltemplate.Must(htmltemplate.New("contact_reply").Parse(contactReplyHTML)),
		"low_stock":          htmltemplate.Must(htmltemplate.New("low_stock").Parse(lowStockHTML)),
		"password_reset":     htmltemplate.Must(htmltemplate.New("password_reset").Parse(passwordResetHTML)),
	}
	textTemplates = map[string]*texttemplate.Template{
		"order_confirmation": texttemplate.Must(texttemplate.New("order_confirmation").Parse(orderConfirmationText)),
		"order_shipped":      texttemplate.Must(texttemplate.New("order_shipped").Parse(orderShippedText)),
		"contact_reply":      texttemplate.Must(texttemplate.New("contact_reply").Parse(contactReplyText)),
		"low_stock":          texttemplate.Must(texttemplate.New("low_stock").Parse(lowStockText)),
		"password_reset":     texttemplate.Must(texttemplate.New("password_reset").Parse(passwordResetText)),
	}
)

func render(name string, data interface{}) (string, string, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates[name].Execute(&html, data); err != nil {
		return "", "", err
	}
	if err := textTemplates[name].Execute(&text, data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}

// BuildOrderConfirmation renders the "order received" email
func BuildOrderConfirmation(to string, data OrderEmail) (Message, error) {
	html, text, err := render("order_confirmation", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Your " + data.StoreName + " order " + data.OrderNumber,
		HTML:    html,
		Text:    text,
	}, nil
}

// BuildOrderShipped renders the tracking email
func BuildOrderShipped(to string, data OrderEmail) (Message, error) {
	html, text, err := render("order_shipped", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Order " + data.OrderNumber + " has shipped",
		HTML:    html,
		Text:    text,
	}, nil
}

func BuildContactReply(to string, data ContactReplyEmail) (Message, error) {
	html, text, err := render("contact_reply", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Re: " + data.Subject,
		HTML:    html,
		Text:    text,
	}, nil
}

func BuildLowStockReport(to string, data LowStockEmail) (Message, error) {
	html, text, err := render("low_stock", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: data.StoreName + " low stock report",
		HTML:    html,
		Text:    text,
	}, nil
}

func BuildPasswordReset(to string, data PasswordResetEmail) (Message, error) {
	html, text, err := render("password_reset", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Reset your " + data.StoreName + " password",
		HTML:    html,
		Text:    text,
	}, nil
}
