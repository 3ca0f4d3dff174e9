package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tradebot/internal/binance"
	"tradebot/internal/rest"
)

// ExchangeClient is the surface of the API client the Manager depends on.
// *binance.Client satisfies it; tests substitute their own.
type ExchangeClient interface {
	PlaceOrder(ctx context.Context, req *binance.OrderRequest) (*binance.OrderResponse, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (*binance.OrderResponse, error)
	GetOrder(ctx context.Context, symbol string, orderID int64) (*binance.OrderResponse, error)
	GetOpenOrders(ctx context.Context, symbol string) ([]binance.OrderResponse, error)
	ListOrders(ctx context.Context, symbol string, limit int) ([]binance.OrderResponse, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) (*binance.LeverageResponse, error)
	GetBalance(ctx context.Context, asset string) (*binance.AssetBalance, error)
	GetPositions(ctx context.Context, symbol string) ([]binance.Position, error)
}

// Manager orchestrates order lifecycle operations. It is the single layer
// where errors stop: every operation returns a result value, never an
// error, so the CLI above it only deals with one shape.
type Manager struct {
	client ExchangeClient
	logger zerolog.Logger
}

// NewManager creates a new order manager
func NewManager(client ExchangeClient, logger zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		logger: logger,
	}
}

// wireOrderType maps the client-facing order type to the exchange's wire
// vocabulary. The switch is exhaustive and fails closed: a variant added
// later without a mapping produces an error, not a silently dropped order.
func wireOrderType(orderType OrderType) (string, error) {
	switch orderType {
	case TypeMarket:
		return "MARKET", nil
	case TypeLimit:
		return "LIMIT", nil
	case TypeStopLimit:
		return "STOP", nil
	default:
		return "", fmt.Errorf("unsupported order type: %s", orderType)
	}
}

// PlaceOrder performs exactly one placement attempt for a validated intent.
// Only the transport's low-level retry applies; the business operation is
// never replayed.
func (m *Manager) PlaceOrder(ctx context.Context, intent *Intent) OrderResult {
	m.logger.Info().
		Str("symbol", intent.Symbol).
		Str("side", string(intent.Side)).
		Str("type", string(intent.Type)).
		Str("quantity", intent.Quantity.String()).
		Msg("Placing order")

	wireType, err := wireOrderType(intent.Type)
	if err != nil {
		return OrderResult{
			Symbol:  intent.Symbol,
			Message: err.Error(),
		}
	}

	req := &binance.OrderRequest{
		Symbol:           intent.Symbol,
		Side:             string(intent.Side),
		Type:             wireType,
		Quantity:         intent.Quantity,
		NewClientOrderID: uuid.NewString(),
	}
	if intent.HasPrice {
		req.Price = intent.Price
	}
	if intent.HasStopPrice {
		req.StopPrice = intent.StopPrice
	}

	resp, err := m.client.PlaceOrder(ctx, req)
	if err != nil {
		msg := translateError(err)
		m.logger.Error().Str("symbol", intent.Symbol).Str("reason", msg).Msg("Order placement failed")
		return OrderResult{
			Symbol:  intent.Symbol,
			Message: msg,
			Raw:     rawBody(err),
		}
	}

	result := OrderResult{
		Success:     true,
		OrderID:     resp.OrderID,
		Symbol:      intent.Symbol,
		Status:      resp.Status,
		ExecutedQty: resp.ExecutedQty,
		Message:     "Order placed successfully",
		Raw:         resp.Raw,
	}

	// The exchange omits avgPrice on some responses; derive it from the
	// cumulative quote value. For partially filled orders this is an
	// approximation, not an authoritative fill price.
	switch {
	case resp.AvgPrice.Sign() > 0:
		result.AvgPrice = resp.AvgPrice
		result.HasAvgPrice = true
	case resp.ExecutedQty.Sign() > 0 && resp.CumQuote.Sign() > 0:
		result.AvgPrice = resp.CumQuote.Div(resp.ExecutedQty)
		result.HasAvgPrice = true
	}

	m.logger.Info().
		Int64("order_id", result.OrderID).
		Str("status", result.Status).
		Str("executed_qty", result.ExecutedQty.String()).
		Msg("Order placed")

	return result
}

// CancelOrder cancels an existing order
func (m *Manager) CancelOrder(ctx context.Context, symbol string, orderID int64) OrderResult {
	m.logger.Info().Str("symbol", symbol).Int64("order_id", orderID).Msg("Cancelling order")

	resp, err := m.client.CancelOrder(ctx, symbol, orderID)
	if err != nil {
		msg := translateError(err)
		m.logger.Error().Str("symbol", symbol).Str("reason", msg).Msg("Cancel failed")
		return OrderResult{
			Symbol:  symbol,
			Message: msg,
			Raw:     rawBody(err),
		}
	}

	return OrderResult{
		Success: true,
		OrderID: resp.OrderID,
		Symbol:  resp.Symbol,
		Status:  resp.Status,
		Message: "Order cancelled successfully",
		Raw:     resp.Raw,
	}
}

// GetOrderStatus queries a single order
func (m *Manager) GetOrderStatus(ctx context.Context, symbol string, orderID int64) OrderStatusResult {
	resp, err := m.client.GetOrder(ctx, symbol, orderID)
	if err != nil {
		return OrderStatusResult{Message: translateError(err)}
	}
	return OrderStatusResult{Success: true, Order: resp}
}

// GetOpenOrders lists open orders, optionally filtered by symbol
func (m *Manager) GetOpenOrders(ctx context.Context, symbol string) OpenOrdersResult {
	orders, err := m.client.GetOpenOrders(ctx, symbol)
	if err != nil {
		return OpenOrdersResult{Message: translateError(err)}
	}

	m.logger.Info().Int("count", len(orders)).Msg("Retrieved open orders")
	return OpenOrdersResult{Success: true, Orders: orders}
}

// ListOrderHistory lists past orders for a symbol
func (m *Manager) ListOrderHistory(ctx context.Context, symbol string, limit int) OrderHistoryResult {
	orders, err := m.client.ListOrders(ctx, symbol, limit)
	if err != nil {
		return OrderHistoryResult{Message: translateError(err)}
	}
	return OrderHistoryResult{Success: true, Orders: orders}
}

// SetLeverage sets leverage for a symbol. The exchange's "leverage not
// modified" rejection is idempotent success, not failure.
func (m *Manager) SetLeverage(ctx context.Context, symbol string, leverage int) LeverageResult {
	m.logger.Info().Str("symbol", symbol).Int("leverage", leverage).Msg("Setting leverage")

	resp, err := m.client.SetLeverage(ctx, symbol, leverage)
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeLeverageNotModified {
			m.logger.Info().Str("symbol", symbol).Int("leverage", leverage).Msg("Leverage already set")
			return LeverageResult{
				Success:  true,
				Symbol:   symbol,
				Leverage: leverage,
				Message:  fmt.Sprintf("Leverage already set to %dx", leverage),
			}
		}
		return LeverageResult{Symbol: symbol, Message: translateError(err)}
	}

	return LeverageResult{
		Success:  true,
		Symbol:   resp.Symbol,
		Leverage: resp.Leverage,
		Message:  fmt.Sprintf("Leverage set to %dx", resp.Leverage),
	}
}

// GetAccountBalance reports the balance for one asset
func (m *Manager) GetAccountBalance(ctx context.Context, asset string) BalanceResult {
	balance, err := m.client.GetBalance(ctx, asset)
	if err != nil {
		return BalanceResult{Asset: asset, Message: translateError(err)}
	}

	return BalanceResult{
		Success:   true,
		Asset:     balance.Asset,
		Available: balance.AvailableBalance,
		Wallet:    balance.WalletBalance,
	}
}

// GetPositions reports open positions, optionally for one symbol
func (m *Manager) GetPositions(ctx context.Context, symbol string) PositionsResult {
	positions, err := m.client.GetPositions(ctx, symbol)
	if err != nil {
		return PositionsResult{Message: translateError(err)}
	}

	// The position risk endpoint returns every symbol; drop flat entries
	open := make([]binance.Position, 0, len(positions))
	for _, p := range positions {
		if !p.PositionAmt.IsZero() {
			open = append(open, p)
		}
	}

	return PositionsResult{Success: true, Positions: open}
}
