package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Paystack is a thin client for the transaction endpoints of the Paystack
// REST API. Amounts are sent in minor currency units.
type Paystack struct {
	BaseURL string
	Secret  string
	Client  *http.Client
}

func NewPaystack(baseURL, secret string) *Paystack {
	return &Paystack{
		BaseURL: baseURL,
		Secret:  secret,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type InitializeRequest struct {
	Email       string                 `json:"email"`
	AmountMinor int64                  `json:"amount"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction asks the gateway for a checkout session. A gateway
// rejection comes back as a ServiceError carrying the gateway's message.
func (p *Paystack) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	envelope, err := p.call(ctx, http.MethodPost, "/transaction/initialize", req)
	if err != nil {
		return nil, err
	}
	data := struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}{}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, WrapError(err, "paystack initialize response")
	}
	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyTransaction reports whether the gateway settled the referenced
// transaction successfully.
func (p *Paystack) VerifyTransaction(ctx context.Context, reference string) (bool, error) {
	envelope, err := p.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return false, err
	}
	data := struct {
		Status string `json:"status"`
	}{}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return false, WrapError(err, "paystack verify response")
	}
	return data.Status == "success", nil
}

func (p *Paystack) call(ctx context.Context, method, endpoint string, body interface{}) (*paystackEnvelope, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Secret)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack request: %w", err)
	}
	defer resp.Body.Close()

	envelope := paystackEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("paystack response: %w", err)
	}
	if !envelope.Status {
		message := envelope.Message
		if message == "" {
			message = "Transaction verification failed"
		}
		return nil, ErrGateway(message)
	}
	return &envelope, nil
}
