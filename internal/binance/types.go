package binance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderRequest carries the wire parameters for placing a futures order.
// Side and Type are already in exchange vocabulary (BUY/SELL and
// MARKET/LIMIT/STOP) by the time a request reaches this package.
type OrderRequest struct {
	Symbol           string
	Side             string
	Type             string
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	StopPrice        decimal.Decimal
	TimeInForce      string // defaults to GTC for non-MARKET orders
	ReduceOnly       bool
	NewClientOrderID string
}

// OrderResponse is the exchange's view of an order, returned by the place,
// cancel, query and list endpoints. Raw keeps the untouched response body
// for callers that want to surface it.
type OrderResponse struct {
	OrderID       int64           `json:"orderId"`
	Symbol        string          `json:"symbol"`
	Status        string          `json:"status"`
	ClientOrderID string          `json:"clientOrderId"`
	Price         decimal.Decimal `json:"price"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	CumQuote      decimal.Decimal `json:"cumQuote"`
	TimeInForce   string          `json:"timeInForce"`
	Type          string          `json:"type"`
	ReduceOnly    bool            `json:"reduceOnly"`
	ClosePosition bool            `json:"closePosition"`
	Side          string          `json:"side"`
	PositionSide  string          `json:"positionSide"`
	StopPrice     decimal.Decimal `json:"stopPrice"`
	WorkingType   string          `json:"workingType"`
	OrigType      string          `json:"origType"`
	Time          int64           `json:"time"`
	UpdateTime    int64           `json:"updateTime"`

	Raw json.RawMessage `json:"-"`
}

// AccountResponse represents futures account information
type AccountResponse struct {
	FeeTier                 int             `json:"feeTier"`
	CanTrade                bool            `json:"canTrade"`
	CanDeposit              bool            `json:"canDeposit"`
	CanWithdraw             bool            `json:"canWithdraw"`
	UpdateTime              int64           `json:"updateTime"`
	TotalWalletBalance      decimal.Decimal `json:"totalWalletBalance"`
	TotalUnrealizedProfit   decimal.Decimal `json:"totalUnrealizedProfit"`
	TotalMarginBalance      decimal.Decimal `json:"totalMarginBalance"`
	TotalPositionInitMargin decimal.Decimal `json:"totalPositionInitialMargin"`
	AvailableBalance        decimal.Decimal `json:"availableBalance"`
	MaxWithdrawAmount       decimal.Decimal `json:"maxWithdrawAmount"`
	Assets                  []AssetBalance  `json:"assets"`
	Positions               []AccountPosition `json:"positions"`
}

// AssetBalance is a single asset entry in the futures account
type AssetBalance struct {
	Asset              string          `json:"asset"`
	WalletBalance      decimal.Decimal `json:"walletBalance"`
	UnrealizedProfit   decimal.Decimal `json:"unrealizedProfit"`
	MarginBalance      decimal.Decimal `json:"marginBalance"`
	MaintMargin        decimal.Decimal `json:"maintMargin"`
	InitialMargin      decimal.Decimal `json:"initialMargin"`
	AvailableBalance   decimal.Decimal `json:"availableBalance"`
	MaxWithdrawAmount  decimal.Decimal `json:"maxWithdrawAmount"`
	CrossWalletBalance decimal.Decimal `json:"crossWalletBalance"`
}

// AccountPosition is a position entry embedded in the account response
type AccountPosition struct {
	Symbol           string          `json:"symbol"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
	Leverage         string          `json:"leverage"`
	Isolated         bool            `json:"isolated"`
	PositionSide     string          `json:"positionSide"`
	UpdateTime       int64           `json:"updateTime"`
}

// Position represents an entry from the position risk endpoint
type Position struct {
	Symbol           string          `json:"symbol"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	MarkPrice        decimal.Decimal `json:"markPrice"`
	UnRealizedProfit decimal.Decimal `json:"unRealizedProfit"`
	LiquidationPrice decimal.Decimal `json:"liquidationPrice"`
	Leverage         string          `json:"leverage"`
	MarginType       string          `json:"marginType"`
	IsolatedMargin   decimal.Decimal `json:"isolatedMargin"`
	PositionSide     string          `json:"positionSide"`
	UpdateTime       int64           `json:"updateTime"`
}

// LeverageResponse is returned by the set-leverage endpoint
type LeverageResponse struct {
	Leverage         int    `json:"leverage"`
	MaxNotionalValue string `json:"maxNotionalValue"`
	Symbol           string `json:"symbol"`
}

// ExchangeInfo represents futures exchange trading rules
type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// SymbolInfo represents trading symbol information
type SymbolInfo struct {
	Symbol            string   `json:"symbol"`
	Status            string   `json:"status"`
	BaseAsset         string   `json:"baseAsset"`
	QuoteAsset        string   `json:"quoteAsset"`
	PricePrecision    int      `json:"pricePrecision"`
	QuantityPrecision int      `json:"quantityPrecision"`
	OrderTypes        []string `json:"orderTypes"`
	TimeInForce       []string `json:"timeInForce"`
}
