package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"genfity-order-admin/internal/config"
	"genfity-order-admin/internal/console"
	"genfity-order-admin/internal/format"
	"genfity-order-admin/internal/logger"
	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/query"
	"genfity-order-admin/internal/queue"
	"genfity-order-admin/internal/settlement"
)

func ordersCommand() cli.Command {
	queryFlag := cli.StringFlag{Name: "query, q", Usage: "console location query, e.g. status=OPEN&page=2"}
	return cli.Command{
		Name:  "orders",
		Usage: "work with the orders list from the terminal",
		Subcommands: []cli.Command{
			{
				Name:  "list",
				Usage: "print one page of orders",
				Flags: []cli.Flag{
					queryFlag,
					cli.StringSliceFlag{Name: "set", Usage: "apply key=value to the location (repeatable)"},
				},
				Action: ordersList,
			},
			{
				Name:  "settle",
				Usage: "record a cash payment for an order on the current page",
				Flags: []cli.Flag{
					queryFlag,
					cli.StringFlag{Name: "order", Usage: "order id"},
					cli.StringFlag{Name: "cash", Usage: "amount received; defaults to the order total"},
				},
				Action: ordersSettle,
			},
		},
	}
}

func watchCommand() cli.Command {
	return cli.Command{
		Name:   "watch",
		Usage:  "print operator notices published by running consoles",
		Action: watch,
	}
}

// cliPage builds a single-operator page whose notices go to the CLI logger.
func cliPage() (*console.Page, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logger.NewCLI()
	if err != nil {
		return nil, nil, err
	}
	client := newOrdersClient(cfg, log)
	page := console.NewPage(client, nil, notify.Log{Logger: log}, format.Location(cfg.DisplayTimezone))
	return page, log, nil
}

type paramUpdate struct {
	key   string
	value string
}

func parseSets(raw []string) ([]paramUpdate, error) {
	out := make([]paramUpdate, 0, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || !query.IsKey(key) {
			return nil, fmt.Errorf("invalid --set %q: expected one of %s as key=value", item, strings.Join(query.Keys, ", "))
		}
		out = append(out, paramUpdate{key: key, value: value})
	}
	return out, nil
}

func ordersList(c *cli.Context) error {
	updates, err := parseSets(c.StringSlice("set"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	page, log, err := cliPage()
	if err != nil {
		return err
	}
	defer log.Sync()

	page.Navigate(c.String("query"))
	for _, u := range updates {
		page.SetParam(u.key, u.value)
	}

	ctx, cancel := signalContext()
	defer cancel()
	if err := page.Sync(ctx); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	writeOrdersTable(os.Stdout, page.View())
	return nil
}

func writeOrdersTable(w io.Writer, view console.PageView) {
	fmt.Fprintf(w, "location: %s\n", locationLabel(view.Location))
	if view.List.Error != "" {
		fmt.Fprintf(w, "error: %s\n", view.List.Error)
	}
	if view.List.Empty {
		fmt.Fprintln(w, view.List.EmptyMessage)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tQUEUE\tCREATED\tCUSTOMER\tDINING\tSTATUS\tTOTAL\t")
	for _, row := range view.List.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.ID, row.Code, dash(row.QueueNumber), row.CreatedAt, dash(row.CustomerName), row.DiningLabel, row.Status, row.Total)
	}
	_ = tw.Flush()

	p := view.List.Pagination
	fmt.Fprintf(w, "page %d of %d (%d orders)\n", p.Page, p.TotalPages, p.Total)
}

func locationLabel(location string) string {
	if location == "" {
		return "(defaults)"
	}
	return location
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func ordersSettle(c *cli.Context) error {
	orderID := strings.TrimSpace(c.String("order"))
	if orderID == "" {
		return cli.NewExitError("--order is required", 2)
	}
	page, log, err := cliPage()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	page.Navigate(c.String("query"))
	if err := page.Sync(ctx); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := page.OpenDetail(orderID); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if c.IsSet("cash") {
		err = page.SetCash(c.String("cash"))
	} else {
		err = page.FillTotal()
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	panel := page.View().Panel
	if panel.Cash == nil {
		return cli.NewExitError(settlement.ErrNotSettleable.Error(), 1)
	}
	fmt.Printf("order %s total %s, cash %s\n", panel.Code, panel.Total, panel.Cash.Text)
	if !panel.Cash.Sufficient {
		fmt.Printf("short by %s\n", panel.Cash.Shortfall)
	}

	if err := page.Settle(ctx); err != nil {
		code := 1
		if errors.Is(err, settlement.ErrInsufficientCash) {
			code = 3
		}
		return cli.NewExitError(err.Error(), code)
	}
	fmt.Printf("order %s marked as PAID (Cash), change %s\n", panel.Code, panel.Cash.Change)
	return nil
}

func watch(c *cli.Context) error {
	cfg := config.Load()
	log, err := logger.NewCLI()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.RabbitMQURL == "" {
		return cli.NewExitError("RABBITMQ_URL is required for watch", 2)
	}
	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer qc.Close()
	if err := qc.Declare(queue.Binding{Exchange: notify.EventsExchange, Queue: notify.NoticesQueue, RoutingKey: notify.NoticesBinding}); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	err = qc.ConsumeWithRetry(ctx, notify.NoticesQueue, func(ctx context.Context, body []byte) error {
		n, err := notify.DecodeEvent(body)
		if err != nil {
			log.Warn("undecodable notice dropped", zap.Error(err))
			return nil
		}
		printNotice(os.Stdout, n)
		return nil
	}, 3, 2*time.Second)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printNotice(w io.Writer, n notify.Notice) {
	line := fmt.Sprintf("%s [%s] %s", n.At.Format(time.RFC3339), strings.ToUpper(string(n.Level)), n.Message)
	if n.OrderID != "" {
		line += " (order " + n.OrderID + ")"
	}
	fmt.Fprintln(w, line)
}
