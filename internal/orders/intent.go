package orders

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the order direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType is the client-facing order type vocabulary. The wire mapping
// to exchange order types happens in the Manager.
type OrderType string

const (
	TypeMarket    OrderType = "MARKET"
	TypeLimit     OrderType = "LIMIT"
	TypeStopLimit OrderType = "STOP_LIMIT"
)

// ValidationError identifies which field failed and why. Validation never
// partially succeeds: either a complete Intent is produced or one of these.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RawOrder is an order exactly as the caller supplied it, before any
// validation. All fields are strings; Price and StopPrice may be empty.
type RawOrder struct {
	Symbol    string
	Side      string
	Type      string
	Quantity  string
	Price     string
	StopPrice string
}

// Intent is a validated, immutable order. HasPrice/HasStopPrice distinguish
// "absent" from "zero"; a zero decimal never passes validation anyway.
type Intent struct {
	Symbol       string
	Side         Side
	Type         OrderType
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	HasPrice     bool
	HasStopPrice bool
}

// Raw converts the intent back to caller form. Validating the result
// reproduces the intent.
func (i *Intent) Raw() RawOrder {
	raw := RawOrder{
		Symbol:   i.Symbol,
		Side:     string(i.Side),
		Type:     string(i.Type),
		Quantity: i.Quantity.String(),
	}
	if i.HasPrice {
		raw.Price = i.Price.String()
	}
	if i.HasStopPrice {
		raw.StopPrice = i.StopPrice.String()
	}
	return raw
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// ParseSide matches a side string case-insensitively
func ParseSide(raw string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	}
	return "", &ValidationError{
		Field:   "side",
		Message: fmt.Sprintf("%q is not a valid side. Valid options are: BUY, SELL", raw),
	}
}

// ParseOrderType matches an order type string case-insensitively
func ParseOrderType(raw string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(TypeMarket):
		return TypeMarket, nil
	case string(TypeLimit):
		return TypeLimit, nil
	case string(TypeStopLimit):
		return TypeStopLimit, nil
	}
	return "", &ValidationError{
		Field:   "type",
		Message: fmt.Sprintf("%q is not a valid order type. Valid options are: MARKET, LIMIT, STOP_LIMIT", raw),
	}
}

// ValidateOrder checks every field of a raw order and, when all checks
// pass, produces the immutable Intent consumed by the Manager. Field checks
// run first, cross-field requirements after.
func ValidateOrder(raw RawOrder) (*Intent, error) {
	side, err := ParseSide(raw.Side)
	if err != nil {
		return nil, err
	}

	orderType, err := ParseOrderType(raw.Type)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
	if symbol == "" {
		return nil, &ValidationError{Field: "symbol", Message: "symbol cannot be empty"}
	}
	if !symbolPattern.MatchString(symbol) {
		return nil, &ValidationError{
			Field:   "symbol",
			Message: fmt.Sprintf("%q must be 3-20 uppercase alphanumeric characters (e.g. BTCUSDT)", symbol),
		}
	}

	quantity, err := parsePositiveDecimal("quantity", raw.Quantity)
	if err != nil {
		return nil, err
	}
	if !quantity.Round(6).Equal(quantity) {
		return nil, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("%s has too many decimal places; at most 6 are allowed", quantity),
		}
	}

	intent := &Intent{
		Symbol:   symbol,
		Side:     side,
		Type:     orderType,
		Quantity: quantity,
	}

	if strings.TrimSpace(raw.Price) != "" {
		price, err := parsePositiveDecimal("price", raw.Price)
		if err != nil {
			return nil, err
		}
		if !price.Round(8).Equal(price) {
			return nil, &ValidationError{
				Field:   "price",
				Message: fmt.Sprintf("%s has too many decimal places; at most 8 are allowed", price),
			}
		}
		intent.Price = price
		intent.HasPrice = true
	}

	if strings.TrimSpace(raw.StopPrice) != "" {
		stopPrice, err := parsePositiveDecimal("stop price", raw.StopPrice)
		if err != nil {
			return nil, err
		}
		intent.StopPrice = stopPrice
		intent.HasStopPrice = true
	}

	switch orderType {
	case TypeLimit:
		if !intent.HasPrice {
			return nil, &ValidationError{Field: "price", Message: "LIMIT orders require a price"}
		}
	case TypeStopLimit:
		if !intent.HasPrice {
			return nil, &ValidationError{Field: "price", Message: "STOP_LIMIT orders require a limit price"}
		}
		if !intent.HasStopPrice {
			return nil, &ValidationError{Field: "stop price", Message: "STOP_LIMIT orders require a stop price"}
		}
	case TypeMarket:
		// Market orders take no prices; extras are ignored
		intent.Price = decimal.Decimal{}
		intent.StopPrice = decimal.Decimal{}
		intent.HasPrice = false
		intent.HasStopPrice = false
	}

	return intent, nil
}

func parsePositiveDecimal(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q is not a valid number", raw),
		}
	}
	if value.Sign() <= 0 {
		return decimal.Decimal{}, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be positive, got %s", value),
		}
	}
	return value, nil
}
