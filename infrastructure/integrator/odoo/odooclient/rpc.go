package odooclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int64  `json:"id"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Debug   string `json:"debug"`
	} `json:"data"`
}

// post envia o envelope JSON-RPC e devolve o campo "result"
func (c *OdooClient) post(ctx context.Context, httpClient *http.Client, path string, params any) (json.RawMessage, *rpcError, error) {
	url := c.endpoint(path)

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		ID:      c.nextID(),
		Params:  params,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao serializar a requisição: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	var response rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, nil, &TransportError{URL: url, Err: fmt.Errorf("erro ao decodificar a resposta: %w", err)}
	}

	if response.Error != nil {
		return nil, response.Error, nil
	}

	return response.Result, nil, nil
}

func (e *rpcError) toRemote(model, method string) *RemoteError {
	detail := e.Data.Message
	if detail == "" {
		detail = e.Data.Name
	}
	return &RemoteError{
		Model:   model,
		Method:  method,
		Code:    e.Code,
		Message: e.Message,
		Name:    e.Data.Name,
		Detail:  detail,
	}
}
