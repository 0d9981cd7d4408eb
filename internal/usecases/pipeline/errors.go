package pipeline

import "errors"

var (
	// ErrEntitySwitch indica que o ERP não aceitou a troca de empresa. Pode ser repetido.
	ErrEntitySwitch = errors.New("não foi possível trocar a empresa ativa")
	// ErrUnknownReport indica um nome de relatório que não está configurado
	ErrUnknownReport = errors.New("relatório não configurado")
)
