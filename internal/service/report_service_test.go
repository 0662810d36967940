package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

type stubBalanceProvider struct {
	overview *models.BalanceOverview
}

func (s *stubBalanceProvider) BalanceOverview(_ context.Context, _ int) (*models.BalanceOverview, error) {
	return s.overview, nil
}

func TestReportServiceBalanceReportCSV(t *testing.T) {
	paidAt := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	provider := &stubBalanceProvider{overview: &models.BalanceOverview{
		TotalBalance: 5000,
		LastPayments: []models.Booking{{
			MemberEmail:   "ana@example.com",
			TrainerID:     "t-1",
			ClassID:       "c-1",
			AmountPaid:    2500,
			TransactionID: "tx-1",
			PaymentTime:   paidAt,
		}},
	}}

	svc := NewReportService(provider, zap.NewNop())
	report, err := svc.BalanceReport(context.Background(), FormatCSV, 6)
	require.NoError(t, err)

	assert.Equal(t, "balance-overview.csv", report.Filename)
	assert.Equal(t, "text/csv", report.ContentType)

	lines := strings.Split(strings.TrimSpace(string(report.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Member,Trainer ID,Class ID,Amount (cents),Transaction,Paid At", lines[0])
	assert.Equal(t, "ana@example.com,t-1,c-1,2500,tx-1,2026-01-05 09:30", lines[1])
	assert.Equal(t, "TOTAL,,,5000,,", lines[2])
}

func TestReportServiceBalanceReportPDF(t *testing.T) {
	svc := NewReportService(&stubBalanceProvider{overview: &models.BalanceOverview{}}, zap.NewNop())

	report, err := svc.BalanceReport(context.Background(), FormatPDF, 6)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Data), "%PDF"))
}

func TestReportServiceBalanceReportUnknownFormat(t *testing.T) {
	svc := NewReportService(&stubBalanceProvider{overview: &models.BalanceOverview{}}, zap.NewNop())

	_, err := svc.BalanceReport(context.Background(), ReportFormat("xml"), 6)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
