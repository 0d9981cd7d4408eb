package odooclient

import (
	"errors"
	"fmt"
)

var ErrNoUID = errors.New("o ERP não retornou o uid do usuário")

// AuthError indica falha no login. É fatal para a execução inteira.
type AuthError struct {
	Login string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("falha na autenticação do usuário %s: %v", e.Login, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RemoteError é o campo "error" do envelope JSON-RPC
type RemoteError struct {
	Model   string
	Method  string
	Code    int
	Message string
	Name    string
	Detail  string
}

func (e *RemoteError) Error() string {
	target := e.Method
	if e.Model != "" {
		target = e.Model + "." + e.Method
	}
	if e.Detail != "" {
		return fmt.Sprintf("erro remoto em %s (%d %s): %s", target, e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("erro remoto em %s (%d): %s", target, e.Code, e.Message)
}

// TransportError cobre falhas de rede e respostas HTTP fora da faixa 2xx
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("requisição para %s falhou com status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("requisição para %s falhou: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAuthError verifica se o erro é de autenticação
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
