package exporting

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
	"github.com/xuri/excelize/v2"
)

// IndexColumn é a coluna de índice sintética gravada à esquerda de cada artefato
const IndexColumn = "#"

const sheetName = "Sheet1"

type Exporter interface {
	WriteArtifact(table domain.Table, datasetKey, dateStamp string) (*domain.Artifact, error)
	ReadLatestArtifact(datasetKey string) (domain.Table, *domain.Artifact, error)
}

type Service struct {
	dir string
}

func NewService(cfg *config.Config) Exporter {
	return &Service{dir: cfg.App.DownloadDir}
}

// DatasetKey identifica os artefatos de uma empresa e de um tipo de relatório
func DatasetKey(entity domain.Entity, report domain.ReportConfig) string {
	return fmt.Sprintf("%s_%s", entity.Slug(), report.Kind)
}

func (s *Service) artifactPath(datasetKey, dateStamp string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.xlsx", datasetKey, dateStamp))
}

func (s *Service) WriteArtifact(table domain.Table, datasetKey, dateStamp string) (*domain.Artifact, error) {
	if table.IsEmpty() {
		return nil, ErrNoData
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "erro ao criar diretório %s", s.dir)
	}

	file := excelize.NewFile()
	defer file.Close()

	header := append([]any{IndexColumn}, toAny(table.Columns)...)
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "erro ao gravar cabeçalho")
	}

	for i, row := range table.Values()[1:] {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao calcular célula")
		}

		line := append([]any{i}, row...)
		if err := file.SetSheetRow(sheetName, cell, &line); err != nil {
			return nil, errors.Wrapf(err, "erro ao gravar linha %d", i+1)
		}
	}

	path := s.artifactPath(datasetKey, dateStamp)
	if err := file.SaveAs(path); err != nil {
		return nil, errors.Wrapf(err, "erro ao salvar artefato %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler artefato %s", path)
	}

	logrus.WithFields(logrus.Fields{
		"path": path,
		"rows": len(table.Rows),
	}).Info("Artefato gravado")

	return &domain.Artifact{
		Path:       path,
		DatasetKey: datasetKey,
		DateStamp:  dateStamp,
		ModTime:    info.ModTime(),
		Rows:       len(table.Rows),
	}, nil
}

// ReadLatestArtifact lê o artefato mais recente (por data de modificação) do dataset
func (s *Service) ReadLatestArtifact(datasetKey string) (domain.Table, *domain.Artifact, error) {
	artifact, err := s.latest(datasetKey)
	if err != nil {
		return domain.Table{}, nil, err
	}

	file, err := excelize.OpenFile(artifact.Path)
	if err != nil {
		return domain.Table{}, nil, errors.Wrapf(err, "erro ao abrir artefato %s", artifact.Path)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, artifact, nil
	}

	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, nil, errors.Wrapf(err, "erro ao ler artefato %s", artifact.Path)
	}
	if len(rows) == 0 {
		return domain.Table{}, artifact, nil
	}

	header := rows[0]
	offset := 0
	if len(header) > 0 && header[0] == IndexColumn {
		offset = 1
	}
	columns := header[offset:]

	table := domain.Table{Columns: columns, Rows: make([]domain.FlatRow, 0, len(rows)-1)}
	for _, line := range rows[1:] {
		row := make(domain.FlatRow, len(columns))
		for i, column := range columns {
			value := ""
			if i+offset < len(line) {
				value = line[i+offset]
			}
			row[column] = value
		}
		table.Rows = append(table.Rows, row)
	}
	artifact.Rows = len(table.Rows)

	return table, artifact, nil
}

func (s *Service) latest(datasetKey string) (*domain.Artifact, error) {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(datasetKey) + `_([^_]+)\.xlsx$`)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{DatasetKey: datasetKey, Dir: s.dir}
		}
		return nil, errors.Wrapf(err, "erro ao listar %s", s.dir)
	}

	var latest *domain.Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		match := pattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if latest == nil || info.ModTime().After(latest.ModTime) {
			latest = &domain.Artifact{
				Path:       filepath.Join(s.dir, entry.Name()),
				DatasetKey: datasetKey,
				DateStamp:  match[1],
				ModTime:    info.ModTime(),
			}
		}
	}

	if latest == nil {
		return nil, &NotFoundError{DatasetKey: datasetKey, Dir: s.dir}
	}

	return latest, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
