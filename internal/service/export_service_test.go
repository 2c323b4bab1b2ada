package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
	"github.com/noah-isme/art-studio-api/pkg/export"
)

type listerStub struct {
	groups []models.Group
	err    error
}

func (s listerStub) Authorize(session *models.Session, write bool) error {
	if session == nil {
		return appErrors.ErrUnauthorized
	}
	return nil
}

func (s listerStub) List(ctx context.Context, session *models.Session) ([]models.Group, error) {
	if session == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return s.groups, s.err
}

type failingPDF struct{}

func (failingPDF) Render(data export.Dataset, title string) ([]byte, error) {
	return nil, errors.New("font missing")
}

func newExportServiceForTest(lister groupLister, pdf pdfRenderer) *ExportService {
	svc := NewExportService(lister, nil, pdf, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }
	return svc
}

var timetableGroups = []models.Group{
	{ID: "g2", Name: "Watercolor", Day1: "Monday", Day2: "Thursday", StartTime: "18:00", EndTime: "19:30"},
	{ID: "g1", Name: "Sketch", Day1: "Saturday", Day2: "Sunday", StartTime: "10:00", EndTime: "11:00"},
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest(listerStub{groups: timetableGroups}, nil)

	res, err := svc.Timetable(context.Background(), adminSession, "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "groups-20240309.csv", res.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(res.Payload, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Day 1", "Day 2", "Start", "End"}, records[0])
	assert.Equal(t, []string{"Watercolor", "Понедельник", "Четверг", "18:00", "19:30"}, records[1])
	assert.Equal(t, "Sketch", records[2][0])
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(listerStub{groups: timetableGroups}, nil)

	res, err := svc.Timetable(context.Background(), adminSession, "PDF", "en")
	require.NoError(t, err)
	assert.Equal(t, "groups-20240309.pdf", res.Filename)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("%PDF")))
}

func TestExportServiceRejectsInput(t *testing.T) {
	svc := newExportServiceForTest(listerStub{groups: timetableGroups}, nil)

	_, err := svc.Timetable(context.Background(), adminSession, "xlsx", "")
	assert.Equal(t, "format", appErrors.FromError(err).Field)

	_, err = svc.Timetable(context.Background(), adminSession, "csv", "de")
	assert.Equal(t, "locale", appErrors.FromError(err).Field)

	_, err = svc.Timetable(context.Background(), nil, "csv", "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestExportServiceChecksSessionBeforeParameters(t *testing.T) {
	svc := newExportServiceForTest(listerStub{groups: timetableGroups}, nil)

	_, err := svc.Timetable(context.Background(), nil, "xml", "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	_, err = svc.Timetable(context.Background(), nil, "csv", "fr")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := newExportServiceForTest(listerStub{groups: timetableGroups}, failingPDF{})

	_, err := svc.Timetable(context.Background(), adminSession, "pdf", "")
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.NotContains(t, appErr.Message, "font")
}
