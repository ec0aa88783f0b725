// Package payments builds payment links and Stripe payment intents for
// settling a member's owed amount. Link construction is pure formatting; the
// Stripe client is a thin wrapper over the PaymentIntents endpoint.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultStripeAPIURL = "https://api.stripe.com/v1"

// UPILink returns a upi://pay deeplink for mobile payment apps.
func UPILink(payeeUPI, payeeName string, amount decimal.Decimal, note string) string {
	params := url.Values{}
	params.Set("pa", payeeUPI)
	params.Set("pn", payeeName)
	params.Set("am", amount.StringFixed(2))
	params.Set("cu", "INR")
	params.Set("tn", note)
	return "upi://pay?" + params.Encode()
}

// VenmoLink returns a venmo.com pay link.
func VenmoLink(username string, amount decimal.Decimal, note string) string {
	params := url.Values{}
	params.Set("txn", "pay")
	params.Set("recipients", username)
	params.Set("amount", amount.StringFixed(2))
	params.Set("note", note)
	return "https://venmo.com/?" + params.Encode()
}

// PaymentIntent is the subset of the Stripe PaymentIntent object the API
// returns to clients.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type StripeClient struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewStripeClient(apiKey string) *StripeClient {
	return &StripeClient{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: defaultStripeAPIURL,
	}
}

// CreatePaymentIntent creates a card PaymentIntent for the given amount.
// Stripe amounts are in the currency's smallest unit.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, description string) (*PaymentIntent, error) {
	minorUnits := amount.Shift(2).Round(0)

	form := url.Values{}
	form.Set("amount", minorUnits.String())
	form.Set("currency", strings.ToLower(currency))
	form.Set("payment_method_types[]", "card")
	form.Set("description", description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call stripe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, errBody)
	}

	intent := &PaymentIntent{}
	if err := json.NewDecoder(resp.Body).Decode(intent); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return intent, nil
}
