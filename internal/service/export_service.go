package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
	"github.com/noah-isme/art-studio-api/pkg/export"
	"github.com/noah-isme/art-studio-api/pkg/i18n"
)

// Supported timetable formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type groupLister interface {
	Authorize(session *models.Session, write bool) error
	List(ctx context.Context, session *models.Session) ([]models.Group, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered file ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the group timetable as CSV or PDF with day names in
// the requested locale.
type ExportService struct {
	groups groupLister
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the defaults from pkg/export.
func NewExportService(groups groupLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{groups: groups, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Timetable renders all groups in list order. The session is checked before
// the query parameters.
func (s *ExportService) Timetable(ctx context.Context, session *models.Session, format, locale string) (*ExportResult, error) {
	if err := s.groups.Authorize(session, false); err != nil {
		return nil, err
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Invalid("format", "format must be csv or pdf")
	}
	days, err := i18n.NewWeekdays(locale)
	if err != nil {
		return nil, appErrors.Invalid("locale", fmt.Sprintf("locale must be one of %s", strings.Join(i18n.Supported(), ", ")))
	}

	groups, err := s.groups.List(ctx, session)
	if err != nil {
		return nil, err
	}

	data := timetableDataset(groups, days)
	stamp := s.now().UTC().Format("20060102")

	var payload []byte
	result := &ExportResult{Filename: fmt.Sprintf("groups-%s.%s", stamp, format)}
	switch format {
	case FormatPDF:
		payload, err = s.pdf.Render(data, "Studio timetable")
		result.ContentType = "application/pdf"
	default:
		payload, err = s.csv.Render(data)
		result.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		s.logger.Error("failed to render timetable", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	result.Payload = payload
	return result, nil
}

func timetableDataset(groups []models.Group, days *i18n.Weekdays) export.Dataset {
	headers := []string{"Name", "Day 1", "Day 2", "Start", "End"}
	rows := make([]map[string]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, map[string]string{
			"Name":  g.Name,
			"Day 1": days.Label(g.Day1),
			"Day 2": days.Label(g.Day2),
			"Start": g.StartTime,
			"End":   g.EndTime,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
