package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// kmsSignRequest/kmsSignResponse mirror the teacher's dual-layer KMS
// signing contract in clients/kms_client.go, trimmed to the fields a
// generic raw-transaction-hash signature needs.
type kmsSignRequest struct {
	KeyAlias string `json:"key_alias"`
	ChainID  uint64 `json:"chain_id"`
	Data     string `json:"data"`
}

type kmsSignResponse struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// KMSSigner signs via a remote key-management service instead of holding
// a private key in process memory, adapted from the teacher's
// KMSClient.SignWithKMS flow.
type KMSSigner struct {
	providers  *ProviderPool
	httpClient *http.Client
	baseURL    string
	authToken  string
	keyAlias   string
	address    ethcommon.Address
}

func NewKMSSigner(providers *ProviderPool, baseURL, authToken, keyAlias, address string) *KMSSigner {
	return &KMSSigner{
		providers:  providers,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		authToken:  authToken,
		keyAlias:   keyAlias,
		address:    ethcommon.HexToAddress(address),
	}
}

func (s *KMSSigner) GetAddress(ctx context.Context) (string, error) {
	return s.address.Hex(), nil
}

func (s *KMSSigner) SendTransaction(ctx context.Context, tx *types.TxnData) (SentTx, error) {
	client, cerr := s.providers.Get(tx.ChainID)
	if cerr != nil {
		return nil, cerr
	}

	nonce, err := client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, errs.NetworkError(err)
	}

	unsigned, err := s.buildUnsignedTx(tx, nonce)
	if err != nil {
		return nil, err
	}

	chainID := new(big.Int).SetUint64(tx.ChainID)
	signer := ethtypes.NewLondonSigner(chainID)
	hash := signer.Hash(unsigned)

	sig, err := s.remoteSign(ctx, tx.ChainID, hash.Bytes())
	if err != nil {
		if isUserRejection(err) {
			return nil, errs.UserRejected().WithDetails(map[string]any{"txId": tx.ID})
		}
		return nil, err
	}

	signedTx, err := unsigned.WithSignature(signer, sig)
	if err != nil {
		return nil, errs.UnknownError(err)
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, errs.NetworkError(err)
	}

	return &ethSentTx{client: client, tx: signedTx}, nil
}

func (s *KMSSigner) buildUnsignedTx(tx *types.TxnData, nonce uint64) (*ethtypes.Transaction, *errs.Error) {
	to := ethcommon.HexToAddress(tx.To)
	data, err := hex.DecodeString(strings.TrimPrefix(tx.Data, "0x"))
	if err != nil {
		return nil, errs.InvalidParams("transaction data is not valid hex")
	}
	value := tx.Value
	if value == nil {
		value = big.NewInt(0)
	}

	if tx.MaxFeePerGas != nil && tx.MaxPriorityFeePerGas != nil {
		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(tx.ChainID),
			Nonce:     nonce,
			GasTipCap: tx.MaxPriorityFeePerGas,
			GasFeeCap: tx.MaxFeePerGas,
			Gas:       tx.GasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		}), nil
	}

	gasPrice := tx.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      tx.GasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

func (s *KMSSigner) remoteSign(ctx context.Context, chainID uint64, hash []byte) ([]byte, error) {
	reqBody := kmsSignRequest{
		KeyAlias: s.keyAlias,
		ChainID:  chainID,
		Data:     hex.EncodeToString(hash),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errs.UnknownError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/dual-layer/sign", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.ClassifyHTTPStatus(resp.StatusCode, string(body))
	}

	var parsed kmsSignResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("kms signing failed: %s", parsed.Error)
	}
	return hex.DecodeString(strings.TrimPrefix(parsed.Signature, "0x"))
}

func isUserRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied")
}

// ethSentTx wraps a broadcast go-ethereum transaction, waiting for its
// receipt with bind.WaitMined as blockchain_transaction_service.go's
// waitForTransactionWithRetry does first. A failed wait is returned as a
// NetworkError; the Executor does not retry it.
type ethSentTx struct {
	client *ethclient.Client
	tx     *ethtypes.Transaction
}

func (t *ethSentTx) Hash() string {
	return t.tx.Hash().Hex()
}

func (t *ethSentTx) Wait(ctx context.Context, confirmations int) (*Receipt, *errs.Error) {
	receipt, err := bind.WaitMined(ctx, t.client, t.tx)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	result := &Receipt{
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status == 0 {
		result.RevertReason = "execution reverted"
	}
	return result, nil
}
