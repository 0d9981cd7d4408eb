package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vfg2006/stock-report-sync/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputOption = "USER_ENTERED"

var ErrWorksheetNotFound = errors.New("aba não encontrada na planilha")

// Worksheet identifica uma aba já aberta de uma planilha
type Worksheet struct {
	SpreadsheetID string
	Title         string
	SheetID       int64
}

// A1 qualifica um intervalo com o nome da aba ("'Closing'!A1")
func (w *Worksheet) A1(rangeA1 string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(w.Title, "'", "''"), rangeA1)
}

// Grid é o contrato mínimo com a planilha de destino
type Grid interface {
	OpenWorksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error)
	Clear(ctx context.Context, worksheet *Worksheet, rangeA1 string) error
	Update(ctx context.Context, worksheet *Worksheet, anchor string, values [][]any) error
}

type SheetsClient struct {
	service *sheets.Service
}

// NewClient cria o cliente da API do Google Sheets com a conta de serviço configurada
func NewClient(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (Grid, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsJSON(cfg.Google.CredentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		}
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente do Google Sheets: %w", err)
	}

	return &SheetsClient{service: service}, nil
}

func (c *SheetsClient) OpenWorksheet(ctx context.Context, spreadsheetID, title string) (*Worksheet, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir planilha %s: %w", spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return &Worksheet{
				SpreadsheetID: spreadsheetID,
				Title:         title,
				SheetID:       sheet.Properties.SheetId,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, title)
}

func (c *SheetsClient) Clear(ctx context.Context, worksheet *Worksheet, rangeA1 string) error {
	_, err := c.service.Spreadsheets.Values.BatchClear(worksheet.SpreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: []string{worksheet.A1(rangeA1)},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("erro ao limpar %s: %w", worksheet.A1(rangeA1), err)
	}

	return nil
}

func (c *SheetsClient) Update(ctx context.Context, worksheet *Worksheet, anchor string, values [][]any) error {
	_, err := c.service.Spreadsheets.Values.Update(worksheet.SpreadsheetID, worksheet.A1(anchor), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("erro ao escrever em %s: %w", worksheet.A1(anchor), err)
	}

	return nil
}
