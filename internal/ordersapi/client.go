package ordersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"genfity-order-admin/internal/auth"
	"genfity-order-admin/internal/middleware"
	"genfity-order-admin/internal/orders"
)

const (
	opListOrders = "list_orders"
	opPayCash    = "pay_cash"

	fallbackPayCashMessage = "failed to record cash payment"
)

// Error is a non-2xx answer from the orders backend. Message carries the backend's
// own error text when it sent one.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the orders backend. It sets no timeout of its own; callers bound
// requests with their context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenSource
	logger     *zap.Logger
}

func New(baseURL string, tokens *auth.TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     logger,
	}
}

func (c *Client) ListOrders(ctx context.Context, params url.Values) (orders.Page, error) {
	endpoint := c.baseURL + "/orders"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return orders.Page{}, err
	}
	req.Header.Set("Cache-Control", "no-store")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("orders list request failed", zap.Error(err))
		return orders.Page{}, fmt.Errorf("list orders: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := readError(res, opListOrders, fmt.Sprintf("failed to load orders (%d)", res.StatusCode))
		c.logger.Warn("orders list rejected", zap.Int("status", res.StatusCode), zap.String("message", apiErr.Message))
		return orders.Page{}, apiErr
	}

	var page orders.Page
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return orders.Page{}, fmt.Errorf("decode orders page: %w", err)
	}
	if page.Items == nil {
		page.Items = []orders.Order{}
	}
	return page, nil
}

type payCashRequest struct {
	Amount json.Number `json:"amount"`
}

// PayCash records a cash payment of amount against the order.
func (c *Client) PayCash(ctx context.Context, orderID string, amount decimal.Decimal) error {
	body, err := json.Marshal(payCashRequest{Amount: json.Number(amount.String())})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/orders/" + url.PathEscape(orderID) + "/pay-cash"
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pay cash request failed", zap.String("orderId", orderID), zap.Error(err))
		return fmt.Errorf("pay cash: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := readError(res, opPayCash, fallbackPayCashMessage)
		c.logger.Warn("pay cash rejected",
			zap.String("orderId", orderID),
			zap.Int("status", res.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", middleware.RequestIDFromContext(ctx))

	authorization, err := c.tokens.AuthorizationHeader()
	if err != nil {
		return nil, fmt.Errorf("sign service token: %w", err)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req, nil
}

func readError(res *http.Response, op string, fallback string) *Error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	message := fallback
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		message = payload.Error
	}
	return &Error{Op: op, Status: res.StatusCode, Message: message}
}
