package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"sokoni/models"

	"go.uber.org/zap"
)

// MpesaGateway calls the serverless STK push proxy that fronts Safaricom Daraja.
type MpesaGateway struct {
	proxyURL    string
	apiKey      string
	callbackURL string
	client      *http.Client
	logger      *zap.Logger
}

func NewMpesaGateway(proxyURL, apiKey, callbackURL string, timeout time.Duration, logger *zap.Logger) *MpesaGateway {
	return &MpesaGateway{
		proxyURL:    proxyURL,
		apiKey:      apiKey,
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type stkPushBody struct {
	Phone       string `json:"phone"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

func (g *MpesaGateway) InitiatePush(ctx context.Context, req models.PaymentRequest) (*models.PushResponse, error) {
	if g.proxyURL == "" {
		return nil, errors.New("mpesa proxy url not configured")
	}
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	body := stkPushBody{
		Phone: phone,
		// M-Pesa only accepts whole shillings.
		Amount:      int64(math.Ceil(req.Amount)),
		Reference:   req.Reference,
		Description: req.Description,
		CallbackURL: g.callbackURL,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal stk push: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.proxyURL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build stk push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read stk push response: %w", err)
	}

	var out models.PushResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode stk push response (status %d): %w", resp.StatusCode, err)
	}
	// The proxy relays gateway rejections with a 4xx and a populated body.
	if out.ResponseCode == "" {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("stk push proxy returned status %d", resp.StatusCode)
		}
		return nil, errors.New("stk push response missing ResponseCode")
	}

	g.logger.Info("stk push sent",
		zap.String("reference", req.Reference),
		zap.String("responseCode", out.ResponseCode),
		zap.String("checkoutRequestID", out.CheckoutRequestID),
	)
	return &out, nil
}

// NormalizePhone converts Kenyan numbers ("0712...", "+254712...", "712...") to 2547XXXXXXXX.
func NormalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, "254"):
	case strings.HasPrefix(p, "0"):
		p = "254" + p[1:]
	case len(p) == 9:
		p = "254" + p
	}
	if len(p) != 12 {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone number %q", phone)
		}
	}
	return p, nil
}
