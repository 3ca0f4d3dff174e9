package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"tradebot/internal/binance"
	"tradebot/internal/config"
	"tradebot/internal/orders"
)

type app struct {
	manager *orders.Manager
	client  *binance.Client
	cfg     *config.Config
	out     io.Writer
}

func (a *app) runPlace(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("place", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair, e.g. BTCUSDT")
	side := fs.String("side", "", "BUY or SELL")
	orderType := fs.String("type", "MARKET", "MARKET, LIMIT or STOP_LIMIT")
	quantity := fs.String("quantity", "", "order quantity in base asset")
	price := fs.String("price", "", "limit price (LIMIT and STOP_LIMIT)")
	stopPrice := fs.String("stop-price", "", "trigger price (STOP_LIMIT)")
	leverage := fs.Int("leverage", 0, "set leverage before placing (0 keeps current)")
	fs.Parse(args)

	intent, err := orders.ValidateOrder(orders.RawOrder{
		Symbol:    *symbol,
		Side:      *side,
		Type:      *orderType,
		Quantity:  *quantity,
		Price:     *price,
		StopPrice: *stopPrice,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return false
	}

	lev := *leverage
	if lev == 0 {
		lev = a.cfg.Binance.DefaultLeverage
	}
	if lev > 0 {
		levResult := a.manager.SetLeverage(ctx, intent.Symbol, lev)
		if !levResult.Success {
			// Order placement proceeds at the current leverage
			log.Warn().Str("symbol", intent.Symbol).Str("reason", levResult.Message).Msg("Leverage not applied")
			fmt.Fprintf(a.out, "Warning: %s\n", levResult.Message)
		}
	}

	result := a.manager.PlaceOrder(ctx, intent)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	fmt.Fprintf(a.out, "%s\n", result.Message)
	w := newTable(a.out)
	fmt.Fprintf(w, "Order ID\t%d\n", result.OrderID)
	fmt.Fprintf(w, "Symbol\t%s\n", result.Symbol)
	fmt.Fprintf(w, "Status\t%s\n", result.Status)
	fmt.Fprintf(w, "Executed Qty\t%s\n", result.ExecutedQty)
	if result.HasAvgPrice {
		fmt.Fprintf(w, "Avg Price\t%s\n", result.AvgPrice)
	}
	w.Flush()
	return true
}

func (a *app) runCancel(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair")
	orderID := fs.Int64("order-id", 0, "exchange order ID")
	fs.Parse(args)

	result := a.manager.CancelOrder(ctx, *symbol, *orderID)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	fmt.Fprintf(a.out, "%s (order %d, status %s)\n", result.Message, result.OrderID, result.Status)
	return true
}

func (a *app) runStatus(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair")
	orderID := fs.Int64("order-id", 0, "exchange order ID")
	fs.Parse(args)

	result := a.manager.GetOrderStatus(ctx, *symbol, *orderID)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	o := result.Order
	w := newTable(a.out)
	fmt.Fprintf(w, "Order ID\t%d\n", o.OrderID)
	fmt.Fprintf(w, "Symbol\t%s\n", o.Symbol)
	fmt.Fprintf(w, "Side\t%s\n", o.Side)
	fmt.Fprintf(w, "Type\t%s\n", o.Type)
	fmt.Fprintf(w, "Status\t%s\n", o.Status)
	fmt.Fprintf(w, "Price\t%s\n", o.Price)
	fmt.Fprintf(w, "Orig Qty\t%s\n", o.OrigQty)
	fmt.Fprintf(w, "Executed Qty\t%s\n", o.ExecutedQty)
	if o.StopPrice.Sign() > 0 {
		fmt.Fprintf(w, "Stop Price\t%s\n", o.StopPrice)
	}
	w.Flush()
	return true
}

func (a *app) runOpenOrders(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair (empty lists all symbols)")
	fs.Parse(args)

	result := a.manager.GetOpenOrders(ctx, *symbol)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	if len(result.Orders) == 0 {
		fmt.Fprintln(a.out, "No open orders")
		return true
	}

	printOrders(a.out, result.Orders)
	return true
}

func (a *app) runHistory(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair (required)")
	limit := fs.Int("limit", 20, "maximum number of orders")
	fs.Parse(args)

	result := a.manager.ListOrderHistory(ctx, *symbol, *limit)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	if len(result.Orders) == 0 {
		fmt.Fprintln(a.out, "No orders found")
		return true
	}

	printOrders(a.out, result.Orders)
	return true
}

func (a *app) runBalance(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	asset := fs.String("asset", "USDT", "asset to report")
	fs.Parse(args)

	result := a.manager.GetAccountBalance(ctx, *asset)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	w := newTable(a.out)
	fmt.Fprintf(w, "Asset\t%s\n", result.Asset)
	fmt.Fprintf(w, "Wallet Balance\t%s\n", result.Wallet)
	fmt.Fprintf(w, "Available\t%s\n", result.Available)
	w.Flush()
	return true
}

func (a *app) runLeverage(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("leverage", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair")
	leverage := fs.Int("value", 1, "leverage multiplier")
	fs.Parse(args)

	result := a.manager.SetLeverage(ctx, *symbol, *leverage)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	fmt.Fprintln(a.out, result.Message)
	return true
}

func (a *app) runPositions(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("positions", flag.ExitOnError)
	symbol := fs.String("symbol", "", "trading pair (empty lists all symbols)")
	fs.Parse(args)

	result := a.manager.GetPositions(ctx, *symbol)
	if !result.Success {
		fmt.Fprintf(a.out, "Error: %s\n", result.Message)
		return false
	}

	if len(result.Positions) == 0 {
		fmt.Fprintln(a.out, "No open positions")
		return true
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "SYMBOL\tAMOUNT\tENTRY\tMARK\tPNL\tLEVERAGE\tMARGIN")
	for _, p := range result.Positions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%sx\t%s\n",
			p.Symbol, p.PositionAmt, p.EntryPrice, p.MarkPrice,
			p.UnRealizedProfit, p.Leverage, p.MarginType)
	}
	w.Flush()
	return true
}

func (a *app) runTest(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	fs.Parse(args)

	fmt.Fprintf(a.out, "Checking connectivity to %s...\n", a.cfg.Binance.BaseURL)
	if a.client.TestConnection(ctx) {
		fmt.Fprintln(a.out, "Connection and credentials OK")
		return true
	}

	fmt.Fprintln(a.out, "Connection test failed. Check your network, base URL and API credentials.")
	return false
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printOrders(out io.Writer, list []binance.OrderResponse) {
	w := newTable(out)
	fmt.Fprintln(w, "ORDER ID\tSYMBOL\tSIDE\tTYPE\tPRICE\tQTY\tFILLED\tSTATUS")
	for _, o := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderID, o.Symbol, o.Side, o.Type, o.Price, o.OrigQty, o.ExecutedQty, o.Status)
	}
	w.Flush()
}
