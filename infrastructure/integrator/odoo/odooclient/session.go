package odooclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/sirupsen/logrus"
)

type Credentials struct {
	DB       string
	Login    string
	Password string
}

// Session é o handle autenticado no ERP. Só SetActiveEntity altera a empresa ativa.
type Session struct {
	BaseURL        string
	DB             string
	UID            int
	Lang           string
	Timezone       string
	UserContext    map[string]any
	ActiveEntityID int

	httpClient *http.Client
}

// Context monta o contexto enviado em cada chamada, sempre escopado à empresa ativa
func (s *Session) Context() map[string]any {
	ctx := make(map[string]any, len(s.UserContext)+5)
	for key, value := range s.UserContext {
		ctx[key] = value
	}

	if s.Lang != "" {
		ctx["lang"] = s.Lang
	}
	if s.Timezone != "" {
		ctx["tz"] = s.Timezone
	}
	ctx["uid"] = s.UID

	if s.ActiveEntityID != 0 {
		ctx["allowed_company_ids"] = []int{s.ActiveEntityID}
		ctx["company_id"] = s.ActiveEntityID
	}

	return ctx
}

type authenticateResult struct {
	UID         json.RawMessage `json:"uid"`
	UserContext map[string]any  `json:"user_context"`
	CompanyID   json.RawMessage `json:"company_id"`
}

func (c *OdooClient) Authenticate(ctx context.Context, credentials Credentials) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cookie jar: %w", err)
	}
	httpClient := c.newHTTPClient(jar)

	params := map[string]any{
		"db":       credentials.DB,
		"login":    credentials.Login,
		"password": credentials.Password,
	}

	result, remoteErr, err := c.post(ctx, httpClient, "/web/session/authenticate", params)
	if err != nil {
		return nil, &AuthError{Login: credentials.Login, Err: err}
	}
	if remoteErr != nil {
		return nil, &AuthError{Login: credentials.Login, Err: remoteErr.toRemote("", "authenticate")}
	}

	var auth authenticateResult
	if len(result) > 0 && string(result) != "null" {
		if err := json.Unmarshal(result, &auth); err != nil {
			return nil, &AuthError{Login: credentials.Login, Err: fmt.Errorf("resposta de login inválida: %w", err)}
		}
	}

	// uid vem como false quando as credenciais são recusadas
	var uid int
	if err := json.Unmarshal(auth.UID, &uid); err != nil || uid == 0 {
		return nil, &AuthError{Login: credentials.Login, Err: ErrNoUID}
	}

	session := &Session{
		BaseURL:     c.baseURL,
		DB:          credentials.DB,
		UID:         uid,
		Lang:        c.lang,
		Timezone:    c.timezone,
		UserContext: auth.UserContext,
		httpClient:  httpClient,
	}

	var companyID int
	if err := json.Unmarshal(auth.CompanyID, &companyID); err == nil {
		session.ActiveEntityID = companyID
	}

	logrus.WithFields(logrus.Fields{
		"uid":   uid,
		"login": credentials.Login,
	}).Info("Autenticado no ERP com sucesso")

	return session, nil
}
