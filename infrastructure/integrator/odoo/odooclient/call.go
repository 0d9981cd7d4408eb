package odooclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Call descreve um procedimento remoto (model.method) e seus argumentos
type Call struct {
	Model   string
	Method  string
	Args    []any
	Kwargs  map[string]any
	Context map[string]any
	// Button envia a chamada para /web/dataset/call_button (ações de wizard)
	Button bool
}

func (c Call) path() string {
	if c.Button {
		return "/web/dataset/call_button"
	}
	return fmt.Sprintf("/web/dataset/call_kw/%s/%s", c.Model, c.Method)
}

func (c *OdooClient) Invoke(ctx context.Context, session *Session, call Call) (json.RawMessage, error) {
	if session == nil || session.httpClient == nil {
		return nil, fmt.Errorf("sessão do ERP não inicializada")
	}

	callContext := session.Context()
	for key, value := range call.Context {
		callContext[key] = value
	}

	kwargs := make(map[string]any, len(call.Kwargs)+1)
	for key, value := range call.Kwargs {
		kwargs[key] = value
	}
	kwargs["context"] = callContext

	args := call.Args
	if args == nil {
		args = []any{}
	}

	params := map[string]any{
		"model":  call.Model,
		"method": call.Method,
		"args":   args,
		"kwargs": kwargs,
	}

	result, remoteErr, err := c.post(ctx, session.httpClient, call.path(), params)
	if err != nil {
		return nil, err
	}
	if remoteErr != nil {
		return nil, remoteErr.toRemote(call.Model, call.Method)
	}

	return result, nil
}

// SetActiveEntity troca a empresa do usuário. Falhas são registradas e retornam false.
func (c *OdooClient) SetActiveEntity(ctx context.Context, session *Session, entityID int) bool {
	logger := logrus.WithFields(logrus.Fields{
		"entity_id": entityID,
	})

	result, err := c.Invoke(ctx, session, Call{
		Model:  "res.users",
		Method: "write",
		Args: []any{
			[]int{session.UID},
			map[string]any{"company_id": entityID},
		},
		Context: map[string]any{
			"allowed_company_ids": []int{entityID},
		},
	})
	if err != nil {
		logger.WithError(err).Warn("Não foi possível trocar a empresa ativa")
		return false
	}

	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil || !ok {
		logger.Warnf("ERP recusou a troca de empresa: %s", string(result))
		return false
	}

	session.ActiveEntityID = entityID
	logger.Debug("Empresa ativa alterada")
	return true
}
