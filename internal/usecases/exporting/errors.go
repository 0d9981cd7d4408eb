package exporting

import (
	"errors"
	"fmt"
)

// ErrNoData sinaliza tabela vazia: a sincronização deve ser pulada, não é falha
var ErrNoData = errors.New("nenhum dado para exportar")

// NotFoundError indica que não existe artefato em disco para o dataset
type NotFoundError struct {
	DatasetKey string
	Dir        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nenhum artefato encontrado para %s em %s", e.DatasetKey, e.Dir)
}

// IsNotFound verifica se o erro é de artefato inexistente
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
