// Package nodeclient adapts the chain node's read-only REST surface this
// engine consumes for UTXO lookup, balance queries, and transaction
// broadcast (spec.md §6, "Node HTTP surface (consumed)").
//
// Grounded on the teacher codebase's internal/rpcclient.Client (bounded
// http.Client timeout, typed error wrapping, JSON body decode), adapted
// from that package's JSON-RPC 2.0 method-call framing to three fixed
// REST endpoints, since the node's UTXO surface here is plain REST rather
// than RPC.
package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/txmodel"
)

// Client is an HTTP client for the chain node's address/transaction
// endpoints.
type Client struct {
	host string
	http *http.Client
}

// New creates a Client targeting host (e.g. "https://api.hoosat.fi") with
// the given call timeout.
func New(host string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		host: host,
		http: &http.Client{Timeout: timeout},
	}
}

// UTXOEntry is one element of the GET /addresses/{address}/utxos response.
type UTXOEntry struct {
	Outpoint     txmodel.WireOutpoint     `json:"outpoint"`
	Amount       uint64                   `json:"amount"`
	ScriptPubKey txmodel.WireScriptPubKey `json:"scriptPublicKey"`
	Address      string                   `json:"address"`
}

// Balance is the GET /addresses/{address}/balance response.
type Balance struct {
	Confirmed uint64 `json:"confirmed"`
	Pending   uint64 `json:"pending"`
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return &engerr.NetworkError{Message: fmt.Sprintf("build request: %v", err)}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &engerr.NetworkError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &engerr.NetworkError{Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return &engerr.NetworkError{Message: fmt.Sprintf("node returned status %d: %s", resp.StatusCode, string(data))}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &engerr.NetworkError{Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// UTXOs fetches the unspent outputs owned by address.
func (c *Client) UTXOs(ctx context.Context, address string) ([]UTXOEntry, error) {
	var entries []UTXOEntry
	if err := c.get(ctx, "/addresses/"+address+"/utxos", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetBalance fetches the confirmed/pending balance owned by address.
func (c *Client) GetBalance(ctx context.Context, address string) (Balance, error) {
	var bal Balance
	if err := c.get(ctx, "/addresses/"+address+"/balance", &bal); err != nil {
		return Balance{}, err
	}
	return bal, nil
}

type submitRequest struct {
	Transaction txmodel.WireTransaction `json:"transaction"`
}

type submitResponse struct {
	TransactionID string `json:"transactionId"`
}

// SubmitTransaction broadcasts tx and returns its transaction id.
func (c *Client) SubmitTransaction(ctx context.Context, tx *txmodel.Transaction) (string, error) {
	body, err := json.Marshal(submitRequest{Transaction: tx.ToWire()})
	if err != nil {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("encode transaction: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("node returned status %d: %s", resp.StatusCode, string(data))}
	}

	var sr submitResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return "", &engerr.NetworkError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return sr.TransactionID, nil
}
