package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	payrollerrors "go-fleetpay/internal/payroll/errors"
	"go-fleetpay/internal/shared/request"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var statementContentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

type Statement struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StatementStore keeps rendered statements by file name.
type StatementStore interface {
	Load(name string) ([]byte, bool, error)
	// Save writes data unless name already exists and reports whether it wrote.
	Save(name string, data []byte) (bool, error)
}

type fileStatementStore struct {
	dir string
}

func NewFileStatementStore(dir string) (StatementStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fileStatementStore{dir: dir}, nil
}

func (s *fileStatementStore) Load(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *fileStatementStore) Save(name string, data []byte) (bool, error) {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}

func StatementFilename(p Payroll, format string) string {
	return fmt.Sprintf("payroll-%06d.%s", p.PayrollNumber, format)
}

// RenderStatement renders a payroll in the given format.
func RenderStatement(p Payroll, format string) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return renderWorkbook(p)
	case FormatPDF:
		return buildStatementPDF(statementLines(p)), nil
	default:
		return nil, payrollerrors.ErrInvalidStatementFormat
	}
}

func (s *service) Statement(ctx context.Context, id, ownDriverID int64, format string) (Statement, error) {
	contentType, ok := statementContentTypes[format]
	if !ok {
		return Statement{}, payrollerrors.ErrInvalidStatementFormat
	}

	p, err := s.findPayroll(ctx, id, ownDriverID)
	if err != nil {
		return Statement{}, err
	}

	name := StatementFilename(*p, format)
	if s.Statements != nil {
		data, found, err := s.Statements.Load(name)
		if err != nil {
			s.logger.Warn("load stored statement failed", zap.String("file", name), zap.Error(err))
		}
		if found {
			return Statement{Filename: name, ContentType: contentType, Content: data}, nil
		}
	}

	data, err := RenderStatement(*p, format)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Filename: name, ContentType: contentType, Content: data}, nil
}

func (s *service) RenderStatements(ctx context.Context, payrollID int64) (int, error) {
	if s.Statements == nil {
		return 0, errors.New("statement store is not configured")
	}

	p, err := s.findPayroll(ctx, payrollID, 0)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, format := range []string{FormatXLSX, FormatPDF} {
		name := StatementFilename(*p, format)
		if _, found, err := s.Statements.Load(name); err != nil {
			return written, err
		} else if found {
			continue
		}

		data, err := RenderStatement(*p, format)
		if err != nil {
			return written, err
		}
		ok, err := s.Statements.Save(name, data)
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func renderWorkbook(p Payroll) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Statement"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	put := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cell, &values)
	}
	heading := func(values ...any) error {
		start := row
		if err := put(values...); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, start)
		last, _ := excelize.CoordinatesToCellName(len(values), start)
		return f.SetCellStyle(sheet, first, last, bold)
	}

	steps := []func() error{
		func() error { return heading("Payroll", p.PayrollNumber) },
		func() error { return put("Emission date", p.EmissionDate.Format(request.DateLayout)) },
		func() error { return put("Driver", p.DriverName) },
		func() error {
			return put("Period", p.StartDate.Format(request.DateLayout)+" - "+p.EndDate.Format(request.DateLayout))
		},
		func() error { return put() },
		func() error { return heading("Date", "Time", "Route", "Load", "Trips", "Cost per trip", "Total") },
	}
	for _, d := range p.Details {
		steps = append(steps, func() error {
			return put(d.Date.Format(request.DateLayout), d.Time, d.RouteName, d.LoadNumber, d.Trips,
				d.CostPerTrip.InexactFloat64(), d.Total.InexactFloat64())
		})
	}
	steps = append(steps,
		func() error { return put() },
		func() error { return heading("Expense date", "Description", "Amount") },
	)
	for _, e := range p.ExpenseDetails {
		steps = append(steps, func() error {
			return put(e.Date.Format(request.DateLayout), e.Description, e.Amount.InexactFloat64())
		})
	}
	steps = append(steps,
		func() error { return put() },
		func() error { return heading("Advance date", "Amount", "Paid before", "Deducted") },
	)
	for _, a := range p.AdvanceDeductionDetails {
		steps = append(steps, func() error {
			return put(a.Date.Format(request.DateLayout), a.Amount.InexactFloat64(), a.PaidAmount.InexactFloat64(), a.DeductedAmount.InexactFloat64())
		})
	}
	steps = append(steps,
		func() error { return put() },
		func() error { return put("Gross payment", p.TotalGrossPayment.InexactFloat64()) },
		func() error { return put("Expenses", p.TotalExpenses.InexactFloat64()) },
		func() error { return put("Advances deducted", p.TotalAdvancesDeducted.InexactFloat64()) },
		func() error { return heading("Net payment", p.TotalNetPayment.InexactFloat64()) },
	)

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statementLines(p Payroll) []string {
	lines := []string{
		fmt.Sprintf("PAYROLL No. %06d", p.PayrollNumber),
		"Emission date: " + p.EmissionDate.Format(request.DateLayout),
		"Driver: " + p.DriverName,
		"Period: " + p.StartDate.Format(request.DateLayout) + " to " + p.EndDate.Format(request.DateLayout),
		"",
		"TRIPS",
	}
	for _, d := range p.Details {
		lines = append(lines, fmt.Sprintf("%s %-5s %-24.24s x%-3d %10s %12s",
			d.Date.Format(request.DateLayout), d.Time, d.RouteName, d.Trips, d.CostPerTrip.StringFixed(2), d.Total.StringFixed(2)))
	}
	lines = append(lines, "", "EXPENSES")
	for _, e := range p.ExpenseDetails {
		lines = append(lines, fmt.Sprintf("%s %-40.40s %12s", e.Date.Format(request.DateLayout), e.Description, e.Amount.StringFixed(2)))
	}
	lines = append(lines, "", "ADVANCE DEDUCTIONS")
	for _, a := range p.AdvanceDeductionDetails {
		lines = append(lines, fmt.Sprintf("%s advance %10s deducted %12s", a.Date.Format(request.DateLayout), a.Amount.StringFixed(2), a.DeductedAmount.StringFixed(2)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%-20s %12s", "Gross payment", p.TotalGrossPayment.StringFixed(2)),
		fmt.Sprintf("%-20s %12s", "Expenses", p.TotalExpenses.StringFixed(2)),
		fmt.Sprintf("%-20s %12s", "Advances deducted", p.TotalAdvancesDeducted.StringFixed(2)),
		fmt.Sprintf("%-20s %12s", "NET PAYMENT", p.TotalNetPayment.StringFixed(2)),
	)
	return lines
}
