package odoo

import (
	"context"
	"errors"

	"github.com/vfg2006/stock-report-sync/infrastructure/integrator/odoo/odooclient"
	"github.com/vfg2006/stock-report-sync/internal/config"
	"github.com/vfg2006/stock-report-sync/internal/domain"
)

var ErrUnknownSource = errors.New("origem de relatório desconhecida")

// ComputedReport guarda o que a etapa de cálculo produziu para a leitura seguinte
type ComputedReport struct {
	Report     domain.ReportConfig
	Period     domain.Period
	EntityID   int
	WizardID   int
	ReportName string
}

type ReportIntegrator interface {
	Authenticate(ctx context.Context) (*odooclient.Session, error)
	SwitchEntity(ctx context.Context, session *odooclient.Session, entity domain.Entity) bool
	ComputeReport(ctx context.Context, session *odooclient.Session, report domain.ReportConfig, period domain.Period) (*ComputedReport, error)
	FetchRecords(ctx context.Context, session *odooclient.Session, computed *ComputedReport) (*domain.RecordSet, error)
}

type OdooService struct {
	cfg    *config.Config
	Client odooclient.Client
}

func New(cfg *config.Config, client odooclient.Client) ReportIntegrator {
	return &OdooService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *OdooService) Authenticate(ctx context.Context) (*odooclient.Session, error) {
	return s.Client.Authenticate(ctx, odooclient.Credentials{
		DB:       s.cfg.Odoo.DB,
		Login:    s.cfg.Odoo.Username,
		Password: s.cfg.Odoo.Password,
	})
}

func (s *OdooService) SwitchEntity(ctx context.Context, session *odooclient.Session, entity domain.Entity) bool {
	return s.Client.SetActiveEntity(ctx, session, entity.ID)
}

// ComputeReport prepara o relatório no ERP. Relatórios de leitura direta não têm etapa de cálculo.
func (s *OdooService) ComputeReport(ctx context.Context, session *odooclient.Session, report domain.ReportConfig, period domain.Period) (*ComputedReport, error) {
	computed := &ComputedReport{
		Report:   report,
		Period:   period,
		EntityID: session.ActiveEntityID,
	}

	switch report.Source {
	case domain.ReportSourceSearch, domain.ReportSourceMethod:
		return computed, nil
	case domain.ReportSourceWizard, domain.ReportSourceDownload:
		wizardID, err := s.saveWizard(ctx, session, report, period)
		if err != nil {
			return nil, err
		}
		computed.WizardID = wizardID

		reportName, err := s.pressButton(ctx, session, report, wizardID)
		if err != nil {
			return nil, err
		}
		computed.ReportName = reportName

		if report.Source == domain.ReportSourceDownload && reportName == "" {
			return nil, errors.New("o ERP não retornou o report_name para download")
		}

		return computed, nil
	default:
		return nil, ErrUnknownSource
	}
}

func (s *OdooService) FetchRecords(ctx context.Context, session *odooclient.Session, computed *ComputedReport) (*domain.RecordSet, error) {
	switch computed.Report.Source {
	case domain.ReportSourceWizard, domain.ReportSourceSearch:
		return s.searchRead(ctx, session, computed)
	case domain.ReportSourceMethod:
		return s.callMethod(ctx, session, computed)
	case domain.ReportSourceDownload:
		return s.download(ctx, session, computed)
	default:
		return nil, ErrUnknownSource
	}
}
