package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"tradebot/internal/rest"
)

// Client exposes one method per Binance Futures operation on top of the
// REST transport. It translates typed requests into wire parameters and
// unmarshals responses into explicit structs.
type Client struct {
	restClient *rest.Client
	logger     zerolog.Logger
}

// NewClient creates a Binance Futures API client
func NewClient(restClient *rest.Client, logger zerolog.Logger) (*Client, error) {
	if restClient == nil {
		return nil, fmt.Errorf("rest client is required")
	}
	return &Client{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// Ping checks connectivity to the unsigned test endpoint
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.restClient.Do(ctx, "GET", "/fapi/v1/ping", nil, false)
	return rest.ErrorWithContext(err, "Ping")
}

// GetExchangeInfo fetches trading rules and symbol information. The symbol
// is optional; when empty the full exchange listing is returned.
func (c *Client) GetExchangeInfo(ctx context.Context, symbol string) (*ExchangeInfo, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}

	body, err := c.restClient.Do(ctx, "GET", "/fapi/v1/exchangeInfo", params, false)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "GetExchangeInfo")
	}

	var info ExchangeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, rest.ErrorWithContext(err, "GetExchangeInfo")
	}

	return &info, nil
}

// GetAccountInfo retrieves the futures account state
func (c *Client) GetAccountInfo(ctx context.Context) (*AccountResponse, error) {
	body, err := c.restClient.Do(ctx, "GET", "/fapi/v2/account", nil, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "GetAccountInfo")
	}

	var account AccountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, rest.ErrorWithContext(err, "GetAccountInfo")
	}

	return &account, nil
}

// GetBalance finds the balance entry for an asset by exact name match. A
// missing asset is not an error: a zero-value placeholder comes back so
// callers can report "0" uniformly.
func (c *Client) GetBalance(ctx context.Context, asset string) (*AssetBalance, error) {
	account, err := c.GetAccountInfo(ctx)
	if err != nil {
		return nil, err
	}

	for i := range account.Assets {
		if account.Assets[i].Asset == asset {
			return &account.Assets[i], nil
		}
	}

	c.logger.Debug().Str("asset", asset).Msg("Asset not present in account, returning zero balance")
	return &AssetBalance{Asset: asset}, nil
}

// SetLeverage sets the initial leverage for a symbol
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) (*LeverageResponse, error) {
	if symbol == "" {
		return nil, &MissingParameterError{Param: "symbol"}
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("leverage", strconv.Itoa(leverage))

	body, err := c.restClient.Do(ctx, "POST", "/fapi/v1/leverage", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "SetLeverage")
	}

	var resp LeverageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, rest.ErrorWithContext(err, "SetLeverage")
	}

	return &resp, nil
}

// GetPositions retrieves position risk entries, optionally for one symbol
func (c *Client) GetPositions(ctx context.Context, symbol string) ([]Position, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}

	body, err := c.restClient.Do(ctx, "GET", "/fapi/v2/positionRisk", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "GetPositions")
	}

	var positions []Position
	if err := json.Unmarshal(body, &positions); err != nil {
		return nil, rest.ErrorWithContext(err, "GetPositions")
	}

	return positions, nil
}

// PlaceOrder places a futures order. Required-field checks run locally and
// fail with MissingParameterError before any network traffic.
func (c *Client) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if req.Symbol == "" {
		return nil, &MissingParameterError{Param: "symbol"}
	}
	if req.Side == "" {
		return nil, &MissingParameterError{Param: "side"}
	}
	if req.Type == "" {
		return nil, &MissingParameterError{Param: "type"}
	}
	if req.Quantity.Sign() <= 0 {
		return nil, &MissingParameterError{Param: "quantity"}
	}
	if (req.Type == "LIMIT" || req.Type == "STOP") && req.Price.Sign() <= 0 {
		return nil, &MissingParameterError{
			Param:  "price",
			Reason: fmt.Sprintf("%s orders require a price", req.Type),
		}
	}
	if req.Type == "STOP" && req.StopPrice.Sign() <= 0 {
		return nil, &MissingParameterError{
			Param:  "stopPrice",
			Reason: "STOP orders require a stop price",
		}
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(req.Symbol))
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	params.Set("quantity", req.Quantity.String())

	if req.Type != "MARKET" {
		tif := req.TimeInForce
		if tif == "" {
			tif = "GTC"
		}
		params.Set("timeInForce", tif)
	}
	if req.Price.Sign() > 0 {
		params.Set("price", req.Price.String())
	}
	if req.StopPrice.Sign() > 0 {
		params.Set("stopPrice", req.StopPrice.String())
	}
	if req.ReduceOnly {
		params.Set("reduceOnly", "true")
	}
	if req.NewClientOrderID != "" {
		params.Set("newClientOrderId", req.NewClientOrderID)
	}

	c.logger.Info().
		Str("symbol", req.Symbol).
		Str("side", req.Side).
		Str("type", req.Type).
		Str("quantity", req.Quantity.String()).
		Msg("Placing order")

	body, err := c.restClient.Do(ctx, "POST", "/fapi/v1/order", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "PlaceOrder")
	}

	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, rest.ErrorWithContext(err, "PlaceOrder")
	}
	resp.Raw = json.RawMessage(body)

	c.logger.Info().
		Int64("order_id", resp.OrderID).
		Str("status", resp.Status).
		Msg("Order accepted")

	return &resp, nil
}

// CancelOrder cancels an active order. The order ID check runs locally.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*OrderResponse, error) {
	if symbol == "" {
		return nil, &MissingParameterError{Param: "symbol"}
	}
	if orderID <= 0 {
		return nil, &MissingParameterError{Param: "orderId", Reason: "an order ID is required to cancel"}
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.restClient.Do(ctx, "DELETE", "/fapi/v1/order", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "CancelOrder")
	}

	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, rest.ErrorWithContext(err, "CancelOrder")
	}
	resp.Raw = json.RawMessage(body)

	return &resp, nil
}

// GetOrder queries a single order
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*OrderResponse, error) {
	if symbol == "" {
		return nil, &MissingParameterError{Param: "symbol"}
	}
	if orderID <= 0 {
		return nil, &MissingParameterError{Param: "orderId"}
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.restClient.Do(ctx, "GET", "/fapi/v1/order", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "GetOrder")
	}

	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, rest.ErrorWithContext(err, "GetOrder")
	}
	resp.Raw = json.RawMessage(body)

	return &resp, nil
}

// GetOpenOrders lists open orders, optionally filtered by symbol
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]OrderResponse, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}

	body, err := c.restClient.Do(ctx, "GET", "/fapi/v1/openOrders", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "GetOpenOrders")
	}

	var orders []OrderResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, rest.ErrorWithContext(err, "GetOpenOrders")
	}

	return orders, nil
}

// ListOrders returns order history for a symbol, most recent last
func (c *Client) ListOrders(ctx context.Context, symbol string, limit int) ([]OrderResponse, error) {
	if symbol == "" {
		return nil, &MissingParameterError{Param: "symbol"}
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.restClient.Do(ctx, "GET", "/fapi/v1/allOrders", params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "ListOrders")
	}

	var orders []OrderResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, rest.ErrorWithContext(err, "ListOrders")
	}

	return orders, nil
}

// SignedGet performs a raw signed GET against an arbitrary read endpoint
// and returns the untouched response body.
func (c *Client) SignedGet(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	body, err := c.restClient.Do(ctx, "GET", path, params, true)
	if err != nil {
		return nil, rest.ErrorWithContext(err, "SignedGet")
	}
	return json.RawMessage(body), nil
}

// TestConnection probes the unsigned metadata endpoint, then the signed
// account endpoint. Both must succeed. It never returns an error; any
// failure is reported as false.
func (c *Client) TestConnection(ctx context.Context) bool {
	if _, err := c.GetExchangeInfo(ctx, ""); err != nil {
		c.logger.Error().Err(err).Msg("Public endpoint check failed")
		return false
	}
	c.logger.Info().Msg("Public endpoint reachable")

	if _, err := c.GetAccountInfo(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Signed endpoint check failed")
		return false
	}
	c.logger.Info().Msg("Signed endpoint reachable")

	return true
}
