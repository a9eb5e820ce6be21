package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type TelrConfig struct {
	StoreID    int
	AuthKey    string
	APIURL     string
	Mode       string
	SuccessURL string
	FailureURL string
	CancelURL  string
}

// TestMode reports whether transactions are flagged as test even on the live endpoint.
func (c TelrConfig) TestMode() bool {
	mode := strings.ToLower(c.Mode)
	return mode == "sandbox" || mode == "dev"
}

func (c TelrConfig) Valid() bool {
	return c.StoreID != 0 && c.AuthKey != "" && c.APIURL != ""
}

type telrResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Telr creates hosted payment pages through Telr's order API.
type Telr struct {
	cfg    TelrConfig
	client *http.Client
}

var _ Gateway = (*Telr)(nil)

func NewTelr(cfg TelrConfig, client *http.Client) *Telr {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Telr{cfg: cfg, client: client}
}

func (t *Telr) CreatePayment(ctx context.Context, req Request) (Session, error) {
	if !t.cfg.Valid() {
		return Session{}, ErrNotConfigured
	}
	test := 0
	if t.cfg.TestMode() {
		test = 1
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   t.cfg.StoreID,
		"authkey": t.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      req.CartID,
			"test":        test,
			"amount":      req.Amount.StringFixed(2),
			"currency":    req.Currency,
			"description": req.Description,
		},
		"customer": map[string]interface{}{
			"name":  req.Customer.Name,
			"email": req.Customer.Email,
			"phone": req.Customer.Phone,
			"address": map[string]string{
				"line1":   req.Address.Address,
				"line2":   req.Address.Locality,
				"city":    req.Address.City,
				"region":  req.Address.Region,
				"country": req.Address.Country,
			},
		},
		"return": map[string]string{
			"authorised": t.cfg.SuccessURL,
			"declined":   t.cfg.FailureURL,
			"cancelled":  t.cfg.CancelURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Session{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Session{}, fmt.Errorf("%w: reach telr: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("%w: read telr response: %v", ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("%w: telr status %d: %s", ErrGateway, resp.StatusCode, string(raw))
	}

	var tr telrResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return Session{}, fmt.Errorf("%w: decode telr response: %v", ErrGateway, err)
	}
	if tr.Error != nil {
		return Session{}, fmt.Errorf("%w: telr %s: %s", ErrGateway, tr.Error.Code, tr.Error.Message)
	}
	if tr.Order.URL == "" {
		return Session{}, fmt.Errorf("%w: telr returned empty payment url", ErrGateway)
	}

	log.Info().Str("cart_id", req.CartID).Str("ref", tr.Order.Ref).Bool("test", test == 1).Msg("telr payment created")
	return Session{Ref: tr.Order.Ref, URL: tr.Order.URL}, nil
}
