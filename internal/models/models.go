package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string
	WalletAddress string
	Amount        decimal.Decimal
	Status        OrderStatus
	TxHash        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentProfile holds the bank transfer details presented to buyers.
// At most one profile is active at a time.
type PaymentProfile struct {
	ID                 string
	BankName           string
	AccountNumber      string
	AccountHolder      string
	QRImageURL         string
	Note               string
	AdminWalletAddress string
	UsdtRate           decimal.Decimal
	IsActive           bool
	UpdatedAt          time.Time
}

// PaymentInstructions is the snapshot of the active profile attached to a
// freshly created order.
type PaymentInstructions struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	QRImageURL    string
	Note          string
}

type Token struct {
	Address   string
	Symbol    string
	Name      string
	Decimals  int
	LogoURI   string
	UpdatedAt time.Time
}

type AdminUser struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
