package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"gopkg.in/yaml.v3"
)

type reportsFile struct {
	Entities []domain.Entity       `mapstructure:"entities"`
	Reports  []domain.ReportConfig `mapstructure:"reports"`
}

// LoadReports lê o arquivo com as empresas e as variantes de relatório.
// O viper não é usado aqui porque ele converte as chaves para minúsculas, e os valores
// do wizard são nomes de campos do ERP (all_Customer).
func LoadReports(path string) ([]domain.Entity, []domain.ReportConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao ler arquivo de relatórios %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, nil, fmt.Errorf("erro ao ler arquivo de relatórios %s: %w", path, err)
	}

	var file reportsFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, nil, fmt.Errorf("erro ao decodificar arquivo de relatórios %s: %w", path, err)
	}

	if len(file.Entities) == 0 {
		return nil, nil, fmt.Errorf("nenhuma empresa configurada em %s", path)
	}

	names := make(map[string]bool, len(file.Reports))
	for _, report := range file.Reports {
		if err := report.Validate(); err != nil {
			return nil, nil, err
		}
		if names[report.Name] {
			return nil, nil, fmt.Errorf("relatório %s configurado mais de uma vez", report.Name)
		}
		names[report.Name] = true
	}

	return file.Entities, file.Reports, nil
}
