package models

import (
	"encoding/json"
	"time"
)

// Item statuses. Delisting never deletes the row so order snapshots stay valid.
const (
	ItemActive   = "active"
	ItemDelisted = "delisted"
)

type Farmer struct {
	Identity     string    `json:"identity"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Barangay     string    `json:"barangay"`
	IsRegistered bool      `json:"is_registered"`
	RegisteredAt time.Time `json:"registered_at"`
}

type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	Unit      string    `json:"unit"`
	Cost      int64     `json:"cost"` // smallest currency unit
	Rating    int64     `json:"rating"`
	Stock     int64     `json:"stock"`
	Seller    string    `json:"seller"`
	Status    string    `json:"status"` // "active", "delisted"
	CreatedAt time.Time `json:"created_at"`
}

// Order holds a copy of the item as it was when bought, not a reference.
type Order struct {
	Buyer        string    `json:"buyer"`
	Index        int64     `json:"index"`
	Item         Item      `json:"item"`
	BuyerAddress string    `json:"buyer_address"`
	Phone        string    `json:"phone"`
	PaidAmount   int64     `json:"paid_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

type Event struct {
	Seq       int64           `json:"seq"`
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type Account struct {
	ID       int    `json:"id"`
	Identity string `json:"identity"`
	Secret   string `json:"-"` // bcrypt hash
}
