package odooclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var csrfTokenPattern = regexp.MustCompile(`csrf_token:\s*"([^"]+)"`)

const xlsxContentType = "spreadsheetml"

// CSRFToken extrai o token CSRF da página /web, exigido pelo download de relatórios
func (c *OdooClient) CSRFToken(ctx context.Context, session *Session) (string, error) {
	url := c.endpoint("/web")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	resp, err := session.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	match := csrfTokenPattern.FindSubmatch(page)
	if match == nil {
		return "", fmt.Errorf("csrf_token não encontrado na página /web")
	}

	return string(match[1]), nil
}

// Download envia o formulário para /report/download e devolve o conteúdo do xlsx
func (c *OdooClient) Download(ctx context.Context, session *Session, form url.Values) ([]byte, error) {
	endpoint := c.endpoint("/report/download")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// algumas instalações recusam o download sem o token no cabeçalho e sem o Referer do /web
	req.Header.Set("X-CSRF-Token", form.Get("csrf_token"))
	req.Header.Set("Referer", c.endpoint("/web"))

	resp, err := session.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	if contentType := resp.Header.Get("Content-Type"); !strings.Contains(contentType, xlsxContentType) {
		return nil, fmt.Errorf("download retornou conteúdo inesperado: %s", contentType)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	return content, nil
}
