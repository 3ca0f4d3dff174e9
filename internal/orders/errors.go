package orders

import (
	"errors"
	"fmt"

	"tradebot/internal/binance"
	"tradebot/internal/rest"
)

// codeLeverageNotModified is reported by the exchange when the requested
// leverage equals the current one; the Manager treats it as success.
const codeLeverageNotModified = -4046

// errorMessages translates the exchange's error taxonomy into stable text.
// Unknown codes fall back to the exchange's own message plus the code.
var errorMessages = map[int]string{
	-1021: "Request timestamp outside of the recvWindow.",
	-1100: "Invalid character in request parameter.",
	-1101: "Too many parameters in request.",
	-1102: "Missing required parameter.",
	-1103: "Unknown parameter in request.",
	-1104: "Duplicate parameter in request.",
	-1105: "Empty parameter value.",
	-2010: "Insufficient balance for this order.",
	-2011: "Unknown order sent.",
	-2012: "Order is already cancelled.",
	-2013: "Order does not exist.",
	-2014: "API key format invalid.",
	-2015: "Invalid API key, IP, or permission.",
	-2026: "Order cost exceeds account balance.",
	-4000: "Invalid price or quantity precision.",
	-4001: "Price is not within valid range.",
	-4002: "Quantity is below minimum.",
	-4003: "Quantity exceeds maximum.",
	-4004: "Invalid order type.",
	-4005: "Invalid side parameter.",
	-4014: "Price is too high or too low.",
	-4015: "Stop price is too high or too low.",
	-4046: "No need to change leverage (already set).",
	-4061: "Order type requires stop price.",
	-4062: "Stop price invalid.",
}

// translateError converts any error escaping the lower layers into text
// suitable for a result message. Every error kind lands here; nothing is
// allowed to propagate past the Manager.
func translateError(err error) string {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		if msg, ok := errorMessages[apiErr.Code]; ok {
			return fmt.Sprintf("%s (code %d)", msg, apiErr.Code)
		}
		return fmt.Sprintf("%s (code %d)", apiErr.Message, apiErr.Code)
	}

	var transportErr *rest.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Kind == rest.TransportTimeout {
			return "Request timed out. Please check your network connection."
		}
		return "Failed to connect to the exchange. Please check your network."
	}

	var mpErr *binance.MissingParameterError
	if errors.As(err, &mpErr) {
		return mpErr.Error()
	}

	return fmt.Sprintf("Unexpected error: %v", err)
}

// rawBody extracts the exchange's response body from a domain error, when
// one exists, so results can carry it through.
func rawBody(err error) []byte {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Raw
	}
	return nil
}
