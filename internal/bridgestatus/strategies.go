package bridgestatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crossfund/internal/types"
)

func newStatusClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func get(ctx context.Context, client *http.Client, reqURL string, headers map[string]string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// SocketStrategy polls GET /v2/bridge-status?transactionHash=….
type SocketStrategy struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

func NewSocketStrategy(apiKey string) *SocketStrategy {
	return &SocketStrategy{baseURL: "https://api.socket.tech", httpClient: newStatusClient(), apiKey: apiKey}
}

func (s *SocketStrategy) Name() string { return "Socket" }

type socketStatusResponse struct {
	Result struct {
		DestinationTransactionHash string `json:"destinationTransactionHash"`
		SourceTxStatus             string `json:"sourceTxStatus"`
		DestinationTxStatus        string `json:"destinationTxStatus"`
	} `json:"result"`
}

func (s *SocketStrategy) CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error) {
	params := url.Values{}
	params.Set("transactionHash", sourceTxHash)
	reqURL := fmt.Sprintf("%s/v2/bridge-status?%s", s.baseURL, params.Encode())

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["API-KEY"] = s.apiKey
	}
	body, err := get(ctx, s.httpClient, reqURL, headers)
	if err != nil {
		return nil, err
	}
	var parsed socketStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	status := &types.BridgeStatus{Provider: s.Name(), State: StateInProgress}
	if parsed.Result.DestinationTransactionHash != "" {
		status.State = StateCompleted
		status.DestinationTxHash = parsed.Result.DestinationTransactionHash
	} else if parsed.Result.SourceTxStatus == "FAILED" {
		status.State = StateFailed
	}
	return status, nil
}

// LiFiStrategy polls GET /v1/status?txHash=….
type LiFiStrategy struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

func NewLiFiStrategy(apiKey string) *LiFiStrategy {
	return &LiFiStrategy{baseURL: "https://li.quest", httpClient: newStatusClient(), apiKey: apiKey}
}

func (s *LiFiStrategy) Name() string { return "LiFi" }

type lifiStatusResponse struct {
	Status    string `json:"status"`
	Receiving struct {
		TxHash string `json:"txHash"`
	} `json:"receiving"`
}

func (s *LiFiStrategy) CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error) {
	params := url.Values{}
	params.Set("txHash", sourceTxHash)
	reqURL := fmt.Sprintf("%s/v1/status?%s", s.baseURL, params.Encode())

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["x-lifi-api-key"] = s.apiKey
	}
	body, err := get(ctx, s.httpClient, reqURL, headers)
	if err != nil {
		return nil, err
	}
	var parsed lifiStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	status := &types.BridgeStatus{Provider: s.Name(), State: StateInProgress}
	switch parsed.Status {
	case "DONE":
		status.State = StateCompleted
		status.DestinationTxHash = parsed.Receiving.TxHash
	case "FAILED":
		status.State = StateFailed
	}
	return status, nil
}

// AcrossStrategy polls GET /api/deposit/status?originChainId&depositTxHash.
type AcrossStrategy struct {
	baseURL    string
	httpClient *http.Client
}

func NewAcrossStrategy() *AcrossStrategy {
	return &AcrossStrategy{baseURL: "https://app.across.to", httpClient: newStatusClient()}
}

func (s *AcrossStrategy) Name() string { return "Across" }

type acrossStatusResponse struct {
	Status     string `json:"status"`
	FillTxHash string `json:"fillTxHash"`
}

func (s *AcrossStrategy) CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error) {
	params := url.Values{}
	params.Set("originChainId", strconv.FormatUint(chainID, 10))
	params.Set("depositTxHash", sourceTxHash)
	reqURL := fmt.Sprintf("%s/api/deposit/status?%s", s.baseURL, params.Encode())

	body, err := get(ctx, s.httpClient, reqURL, nil)
	if err != nil {
		return nil, err
	}
	var parsed acrossStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	status := &types.BridgeStatus{Provider: s.Name(), State: StateInProgress}
	if parsed.Status == "filled" {
		status.State = StateCompleted
		status.DestinationTxHash = parsed.FillTxHash
	}
	return status, nil
}

// StargateStrategy polls GET /tx/{hash} (LayerZero's scan API).
type StargateStrategy struct {
	baseURL    string
	httpClient *http.Client
}

func NewStargateStrategy() *StargateStrategy {
	return &StargateStrategy{baseURL: "https://scan.layerzero-api.com", httpClient: newStatusClient()}
}

func (s *StargateStrategy) Name() string { return "Stargate" }

type stargateStatusResponse struct {
	Messages []struct {
		Status            string `json:"status"`
		DstTxHash         string `json:"dstTxHash"`
	} `json:"messages"`
}

func (s *StargateStrategy) CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error) {
	reqURL := fmt.Sprintf("%s/tx/%s", s.baseURL, sourceTxHash)

	body, err := get(ctx, s.httpClient, reqURL, nil)
	if err != nil {
		return nil, err
	}
	var parsed stargateStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	status := &types.BridgeStatus{Provider: s.Name(), State: StateInProgress}
	if len(parsed.Messages) == 0 {
		return status, nil
	}
	switch parsed.Messages[0].Status {
	case "DELIVERED":
		status.State = StateCompleted
		status.DestinationTxHash = parsed.Messages[0].DstTxHash
	case "FAILED":
		status.State = StateFailed
	}
	return status, nil
}
