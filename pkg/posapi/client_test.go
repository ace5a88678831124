package posapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append(opts, WithHTTPClient(&http.Client{Transport: rt}))
	client, err := NewClient("http://backend.test/api/", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestCreateOrderRequest(t *testing.T) {
	var capturedURL, capturedMethod, capturedAuth string
	var payload map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedMethod = req.Method
		capturedAuth = req.Header.Get("Authorization")
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"data":{"id":"ord-1","table_id":"t-4","channel":"dine_in"}}`), nil
	}, WithToken("secret"))

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{TableID: "t-4", Channel: "dine_in"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if capturedURL != "http://backend.test/api/orders" || capturedMethod != http.MethodPost {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
	if capturedAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
	if payload["table_id"] != "t-4" || payload["channel"] != "dine_in" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if order.ID != "ord-1" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrderBareResponse(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "" {
			t.Fatalf("no token configured but Authorization was sent")
		}
		return jsonResponse(http.StatusOK, `{"id":"ord-2"}`), nil
	})

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{Channel: "takeaway"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "ord-2" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
}

func TestCreateOrderMissingID(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{}}`), nil
	})
	if _, err := client.CreateOrder(context.Background(), CreateOrderRequest{Channel: "dine_in"}); err == nil {
		t.Fatalf("expected error when backend omits the order id")
	}
}

func TestAddOrderItemRequest(t *testing.T) {
	var capturedURL string
	var payload map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		body, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(body, &payload)
		return jsonResponse(http.StatusCreated, `{"id":"item-1","product_id":"p-1","quantity":2}`), nil
	})

	_, err := client.AddOrderItem(context.Background(), "ord 1", AddOrderItemRequest{
		ProductID: "p-1",
		Quantity:  2,
		Note:      "no onions",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if capturedURL != "http://backend.test/api/orders/ord%201/items" {
		t.Fatalf("unexpected url %q", capturedURL)
	}
	ids, ok := payload["modifier_ids"].([]any)
	if !ok || len(ids) != 0 {
		t.Fatalf("modifier_ids should be an empty list, got %#v", payload["modifier_ids"])
	}
	if payload["quantity"].(float64) != 2 || payload["note"] != "no onions" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestUpdateTableStatus(t *testing.T) {
	var capturedMethod, capturedURL, capturedBody string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedMethod = req.Method
		capturedURL = req.URL.String()
		body, _ := io.ReadAll(req.Body)
		capturedBody = string(body)
		return jsonResponse(http.StatusNoContent, ""), nil
	})

	if err := client.UpdateTableStatus(context.Background(), "t-4", TableStatusOccupied); err != nil {
		t.Fatalf("update table status: %v", err)
	}
	if capturedMethod != http.MethodPatch || capturedURL != "http://backend.test/api/tables/t-4/status" {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
	if capturedBody != `{"status":"occupied"}` {
		t.Fatalf("unexpected body %s", capturedBody)
	}
}

func TestPaymentsRoundTrip(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodPost && req.URL.Path == "/api/payments":
			var body map[string]any
			raw, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(raw, &body)
			if body["amount"] != "25.5" || body["method"] != "cash" {
				t.Fatalf("unexpected payment payload %+v", body)
			}
			return jsonResponse(http.StatusCreated, `{"data":{"id":"pay-1","order_id":"ord-1","method":"cash","amount":"25.50","status":"pending"}}`), nil
		case req.Method == http.MethodGet && req.URL.Path == "/api/payments/pay-1":
			return jsonResponse(http.StatusOK, `{"id":"pay-1","status":"paid","amount":25.5}`), nil
		}
		t.Fatalf("unexpected request %s %s", req.Method, req.URL)
		return nil, nil
	})

	created, err := client.CreatePayment(context.Background(), CreatePaymentRequest{
		OrderID: "ord-1",
		Method:  "cash",
		Amount:  decimal.RequireFromString("25.5"),
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if created.ID != "pay-1" || created.Status != "pending" || !created.Amount.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("unexpected payment %+v", created)
	}

	fetched, err := client.GetPayment(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if fetched.Status != "paid" {
		t.Fatalf("unexpected status %q", fetched.Status)
	}
}

func TestNonSuccessStatusProducesAPIError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "nested error", body: `{"error":{"code":"CONFLICT","message":"table is closed"}}`, want: "table is closed"},
		{name: "top level message", body: `{"message":"kitchen offline"}`, want: "kitchen offline"},
		{name: "string error", body: `{"error":"bad product"}`, want: "bad product"},
		{name: "plain text", body: "  upstream exploded \n", want: "upstream exploded"},
		{name: "empty", body: "", want: "backend responded with status 422"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnprocessableEntity, tc.body), nil
			})

			_, err := client.CreateOrder(context.Background(), CreateOrderRequest{Channel: "dine_in"})
			if err == nil {
				t.Fatalf("expected error")
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError in chain, got %v", err)
			}
			if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Message != tc.want {
				t.Fatalf("unexpected api error %+v", apiErr)
			}
			if UpstreamMessage(err) != tc.want {
				t.Fatalf("UpstreamMessage = %q", UpstreamMessage(err))
			}
			if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected dependency code, got %v", err)
			}
		})
	}
}

func TestTransportErrorIsDependency(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	err := client.UpdateTableStatus(context.Background(), "t-1", TableStatusOccupied)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if UpstreamMessage(err) != "" {
		t.Fatalf("transport errors carry no upstream message")
	}
}
