// File: internal/infra/adapters/slip/easyslip_gateway.go
package slip

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"video-unlock-service/internal/domain"
	"video-unlock-service/internal/domain/model"
	"video-unlock-service/internal/domain/ports/adapter"
)

var _ adapter.SlipVerifier = (*EasySlipGateway)(nil)

// EasySlipGateway implements adapter.SlipVerifier against the EasySlip
// verify API. It sends the slip image as base64 JSON and maps the structured
// response into SlipEvidence. Any transport failure, non-success provider
// status or shape deviation comes back as domain.ErrExternalService.
type EasySlipGateway struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewEasySlipGateway(baseURL, accessToken string, timeout time.Duration) (*EasySlipGateway, error) {
	if accessToken == "" {
		return nil, errors.New("access token empty")
	}
	if baseURL == "" {
		baseURL = "https://developer.easyslip.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EasySlipGateway{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

func (g *EasySlipGateway) Name() string { return "easyslip" }

// verifyResponse mirrors the provider's wire shape. Only the fields the
// acceptance checks need are decoded; the full data object is kept raw.
type verifyResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type verifyData struct {
	TransRef    string `json:"transRef"`
	Date        string `json:"date"`
	CountryCode string `json:"countryCode"`
	Amount      struct {
		Amount float64 `json:"amount"`
	} `json:"amount"`
	Receiver struct {
		Bank struct {
			Short string `json:"short"`
		} `json:"bank"`
		Account struct {
			Name struct {
				TH string `json:"th"`
				EN string `json:"en"`
			} `json:"name"`
			Proxy struct {
				Account string `json:"account"`
			} `json:"proxy"`
		} `json:"account"`
	} `json:"receiver"`
	Sender struct {
		Bank struct {
			Short string `json:"short"`
		} `json:"bank"`
		Account struct {
			Name struct {
				TH string `json:"th"`
				EN string `json:"en"`
			} `json:"name"`
		} `json:"account"`
	} `json:"sender"`
}

func (g *EasySlipGateway) Verify(ctx context.Context, image []byte) (*model.SlipEvidence, error) {
	payload := map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/v1/verify", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrExternalService, err)
	}
	if out.Status != http.StatusOK || len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrExternalService, out.Status)
	}

	var data verifyData
	if err := json.Unmarshal(out.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", domain.ErrExternalService, err)
	}
	when, err := time.Parse(time.RFC3339, data.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad transfer date %q", domain.ErrExternalService, data.Date)
	}

	return &model.SlipEvidence{
		TransRef:    data.TransRef,
		Amount:      data.Amount.Amount,
		Date:        when,
		CountryCode: data.CountryCode,
		ReceiverName: model.AccountName{
			TH: data.Receiver.Account.Name.TH,
			EN: data.Receiver.Account.Name.EN,
		},
		ReceiverProxy: data.Receiver.Account.Proxy.Account,
		SenderName: model.AccountName{
			TH: data.Sender.Account.Name.TH,
			EN: data.Sender.Account.Name.EN,
		},
		SenderBank: data.Sender.Bank.Short,
		Raw:        out.Data,
	}, nil
}
