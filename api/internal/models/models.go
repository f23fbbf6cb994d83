package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DashboardUser is a staff account stored in the key-path store's user_db
// node, keyed by uid.
type DashboardUser struct {
	Name         string       `json:"name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Color        int64        `json:"color,omitempty"`
	UserRestrict UserRestrict `json:"userRestrict"`
}

// UserRestrict holds the per-screen permission flags of a dashboard
// account. A false flag hides the corresponding screen.
type UserRestrict struct {
	Admin           bool `json:"admin"`
	Invoice         bool `json:"invoice"`
	InvoiceAll      bool `json:"invoiceAll"`
	OrderAll        bool `json:"orderAll"`
	VolumeAndParams bool `json:"volumeAndParams"`
	SearchCode      bool `json:"searchCode"`
	Shop            bool `json:"shop"`
	Tasks           bool `json:"tasks"`
}

// HexToARGB converts a "#RRGGBB" color to the ARGB integer form the mobile
// clients store, with the alpha byte forced to 0xFF.
func HexToARGB(hex string) (int64, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid hex color %q", hex)
	}
	var rgb int64
	if _, err := fmt.Sscanf(strings.ToLower(hex), "%06x", &rgb); err != nil {
		return 0, fmt.Errorf("invalid hex color %q", hex)
	}
	return 0xFF000000 | rgb, nil
}

// ARGBToHex converts a stored ARGB integer back to "#RRGGBB", dropping the
// alpha byte.
func ARGBToHex(argb int64) string {
	return fmt.Sprintf("#%06X", argb&0xFFFFFF)
}

// TelegramUser is a Telegram-bot-linked account in tg_user_db, keyed by
// chat id.
type TelegramUser struct {
	ChatID           int64  `json:"chatId"`
	Name             string `json:"name,omitempty"`
	Text             string `json:"text,omitempty"`
	AddedToList      bool   `json:"addedToList"`
	ScanThreshold    bool   `json:"scanThreshold"`
	SendErrorMessage bool   `json:"sendErrorMessage"`
	UpdateID         int64  `json:"updateId,omitempty"`
}

// SalesOrder is one record of order_salles_db. Date uses the store's
// "YYYY-MM-DD HH:MM:SS" form.
type SalesOrder struct {
	Date           string  `json:"date"`
	PaymentAmount  float64 `json:"paymentAmount"`
	FirstName      string  `json:"fName,omitempty"`
	LastName       string  `json:"lName,omitempty"`
	PrimaryContact string  `json:"primaryContact,omitempty"`
}

// ClientName renders the display name: first/last name when present,
// otherwise the primary contact.
func (o SalesOrder) ClientName() string {
	name := strings.TrimSpace(strings.TrimSpace(o.FirstName) + " " + strings.TrimSpace(o.LastName))
	if name != "" {
		return name
	}
	return strings.TrimSpace(o.PrimaryContact)
}

func (o SalesOrder) Year() string {
	if len(o.Date) < 4 {
		return ""
	}
	return o.Date[0:4]
}

func (o SalesOrder) Month() string {
	if len(o.Date) < 7 {
		return ""
	}
	return o.Date[5:7]
}

// ThresholdSettings is the scan-threshold alert configuration node.
// UpdateDate keeps the legacy "DD-MM-YYYY HH:MM:SS" form the mobile clients
// render verbatim.
type ThresholdSettings struct {
	Threshold  int    `json:"threshold"`
	Message    string `json:"message"`
	UpdateDate string `json:"updateDate"`
}

// ThresholdSummary is the per-day rollup in scan_threshold_db consumed by
// the dashboard cards and the alert evaluator.
type ThresholdSummary struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalProducts int     `json:"totalProducts"`
	TotalWeight   float64 `json:"totalWeight"`
	TotalVolume   float64 `json:"totalVolume"`
}

// FileDocument is a parsed Excel catalog persisted in Postgres.
type FileDocument struct {
	FileID     uuid.UUID
	DocumentID string
	FileName   string
	Headers    []string
	Rows       json.RawMessage
	UploadedBy string
	CreatedAt  time.Time
}

// AuditLog is one admin-mutation audit record.
type AuditLog struct {
	AuditID      uuid.UUID
	OccurredAt   time.Time
	ActorUserID  *uuid.UUID
	Subject      string
	Action       string
	ResourceType *string
	ResourceID   *string
	RequestID    string
	Method       string
	Path         string
	StatusCode   int
	DurationMS   int64
	ClientIP     string
	UserAgent    string
	Details      []byte
}
