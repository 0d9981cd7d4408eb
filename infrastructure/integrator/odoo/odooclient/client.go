package odooclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vfg2006/stock-report-sync/internal/config"
)

type Client interface {
	Authenticate(ctx context.Context, credentials Credentials) (*Session, error)
	Invoke(ctx context.Context, session *Session, call Call) (json.RawMessage, error)
	SetActiveEntity(ctx context.Context, session *Session, entityID int) bool
	CSRFToken(ctx context.Context, session *Session) (string, error)
	Download(ctx context.Context, session *Session, form url.Values) ([]byte, error)
}

type OdooClient struct {
	baseURL   string
	lang      string
	timezone  string
	timeout   time.Duration
	requestID atomic.Int64
}

// NewClient cria o cliente JSON-RPC do ERP a partir da configuração
func NewClient(cfg *config.Config) Client {
	timeout := cfg.Odoo.RequestTimeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &OdooClient{
		baseURL:  cfg.Odoo.URL,
		lang:     cfg.Odoo.Lang,
		timezone: cfg.Odoo.Timezone,
		timeout:  timeout,
	}
}

func (c *OdooClient) nextID() int64 {
	return c.requestID.Add(1)
}

func (c *OdooClient) endpoint(path string) string {
	return c.baseURL + path
}

func (c *OdooClient) newHTTPClient(jar http.CookieJar) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
	}
}
