package domain

import "github.com/shopspring/decimal"

type Vendor struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	MinimumOrder decimal.Decimal `json:"minimum_order"`
	Active       bool            `json:"active"`
}

type MenuItem struct {
	ID        int             `json:"id"`
	VendorID  int             `json:"vendor_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}
