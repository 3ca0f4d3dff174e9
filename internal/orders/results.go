package orders

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"tradebot/internal/binance"
)

// OrderResult is the uniform outcome of a placement or cancellation
// attempt. It is produced once and never mutated; the caller owns it.
type OrderResult struct {
	Success     bool
	OrderID     int64
	Symbol      string
	Status      string
	ExecutedQty decimal.Decimal
	AvgPrice    decimal.Decimal
	HasAvgPrice bool
	Message     string
	Raw         json.RawMessage
}

// OrderStatusResult is the outcome of a single-order query
type OrderStatusResult struct {
	Success bool
	Order   *binance.OrderResponse
	Message string
}

// OpenOrdersResult is the outcome of an open-orders listing
type OpenOrdersResult struct {
	Success bool
	Orders  []binance.OrderResponse
	Message string
}

// OrderHistoryResult is the outcome of an order-history listing
type OrderHistoryResult struct {
	Success bool
	Orders  []binance.OrderResponse
	Message string
}

// LeverageResult is the outcome of a set-leverage call
type LeverageResult struct {
	Success  bool
	Symbol   string
	Leverage int
	Message  string
}

// BalanceResult is the outcome of a balance query
type BalanceResult struct {
	Success   bool
	Asset     string
	Available decimal.Decimal
	Wallet    decimal.Decimal
	Message   string
}

// PositionsResult is the outcome of a position query
type PositionsResult struct {
	Success   bool
	Positions []binance.Position
	Message   string
}
