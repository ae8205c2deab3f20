package model

import "time"

type NotificationChannel string
type NotificationKind string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"

	KindOrderConfirmation NotificationKind = "order_confirmation"
	KindOrderTracking     NotificationKind = "order_tracking"
	KindContactReply      NotificationKind = "contact_reply"
	KindLowStockReport    NotificationKind = "low_stock_report"
)

// NotificationLog records every outbound email or WhatsApp attempt
type NotificationLog struct {
	ID         uint                `gorm:"primarykey" json:"id"`
	OrderID    *uint               `gorm:"index" json:"order_id,omitempty"`
	Channel    NotificationChannel `gorm:"type:varchar(20);not null;index" json:"channel"`
	Kind       NotificationKind    `gorm:"type:varchar(40);not null;index" json:"kind"`
	Recipient  string              `gorm:"size:200;not null" json:"recipient"`
	Success    bool                `gorm:"default:false" json:"success"`
	Error      string              `gorm:"type:text" json:"error,omitempty"`
	ProviderID string              `gorm:"size:120" json:"provider_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

type OrderConfirmationRequest struct {
	OrderID      uint `json:"order_id" binding:"required"`
	SendEmail    bool `json:"send_email"`
	SendWhatsApp bool `json:"send_whatsapp"`
}

type OrderTrackingNotificationRequest struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	Carrier        string `json:"carrier" binding:"max=80"`
	TrackingNumber string `json:"tracking_number" binding:"max=80"`
	TrackingURL    string `json:"tracking_url" binding:"omitempty,url,max=500"`
	SendEmail      bool   `json:"send_email"`
	SendWhatsApp   bool   `json:"send_whatsapp"`
}

// NotificationResults reports per-channel outcomes without failing the request
type NotificationResults struct {
	EmailSent    bool     `json:"email_sent"`
	WhatsAppSent bool     `json:"whatsapp_sent"`
	Errors       []string `json:"errors"`
}
