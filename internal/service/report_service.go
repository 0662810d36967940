package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/fitify-app/fitify-api/internal/models"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
	"github.com/fitify-app/fitify-api/pkg/export"
)

// ReportFormat selects the rendering of an exported report.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

type balanceProvider interface {
	BalanceOverview(ctx context.Context, lastN int) (*models.BalanceOverview, error)
}

// Report is a rendered export ready to stream to the client.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders the admin balance overview as a downloadable file.
type ReportService struct {
	bookings balanceProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(bookings balanceProvider, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		bookings: bookings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// BalanceReport exports recent payment activity in the requested format.
func (s *ReportService) BalanceReport(ctx context.Context, format ReportFormat, lastN int) (*Report, error) {
	overview, err := s.bookings.BalanceOverview(ctx, lastN)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Member", "Trainer ID", "Class ID", "Amount (cents)", "Transaction", "Paid At"},
	}
	for _, p := range overview.LastPayments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Member":         p.MemberEmail,
			"Trainer ID":     p.TrainerID,
			"Class ID":       p.ClassID,
			"Amount (cents)": strconv.FormatInt(p.AmountPaid, 10),
			"Transaction":    p.TransactionID,
			"Paid At":        p.PaymentTime.Format("2006-01-02 15:04"),
		})
	}
	dataset.Rows = append(dataset.Rows, map[string]string{
		"Member":         "TOTAL",
		"Amount (cents)": strconv.FormatInt(overview.TotalBalance, 10),
	})

	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{Filename: "balance-overview.csv", ContentType: "text/csv", Data: data}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, "Balance Overview")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{Filename: "balance-overview.pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
}
