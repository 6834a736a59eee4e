package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quotedesk/internal/config"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetName    = "見積書"
	itemHeadRow  = 11
	firstItemRow = itemHeadRow + 1
)

// column layout of the item table
type layout struct {
	headers []string
	amount  string
	note    string
	formula func(row int) string
}

var (
	layoutWithCoefficient = layout{
		headers: []string{"No", "品名", "単位", "数量", "単価", "係数", "金額", "備考"},
		amount:  "G",
		note:    "H",
		formula: func(row int) string { return fmt.Sprintf("D%d*F%d*E%d", row, row, row) },
	}
	layoutPlain = layout{
		headers: []string{"No", "品名", "単位", "数量", "単価", "金額", "備考"},
		amount:  "F",
		note:    "G",
		formula: func(row int) string { return fmt.Sprintf("D%d*E%d", row, row) },
	}
)

// ExcelExporter renders a finalized estimate as an .xlsx quotation whose
// amounts, subtotal, tax and total are live formulas. Each formula cell also
// carries its computed value, so viewers that skip recalculation agree with
// the formulas.
type ExcelExporter struct {
	taxRate float64
	log     *zap.Logger
}

var _ interfaces.IEstimateExporter = (*ExcelExporter)(nil)

func NewExcelExporter(settings config.Settings, log *zap.Logger) *ExcelExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExcelExporter{taxRate: settings.TaxRate, log: log.Named("excel")}
}

var fileNameCleaner = strings.NewReplacer(`/`, "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_")

func (x *ExcelExporter) FileName(bundle entities.ExportBundle) string {
	name := "見積書_" + bundle.Estimate.ID
	if p := strings.TrimSpace(bundle.Estimate.ProjectName); p != "" {
		name += "_" + fileNameCleaner.Replace(p)
	}
	return name + ".xlsx"
}

func (x *ExcelExporter) Export(ctx context.Context, bundle entities.ExportBundle, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.log.Warn("closing workbook", zap.Error(err))
		}
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return exportError(err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return exportError(err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return exportError(err)
	}

	e := bundle.Estimate
	lay := layoutPlain
	if bundle.UsesCoefficient {
		lay = layoutWithCoefficient
	}

	if err := x.writeHeader(f, styles, e); err != nil {
		return exportError(err)
	}
	last, subtotal, err := x.writeItems(f, styles, lay, e.Items)
	if err != nil {
		return exportError(err)
	}
	if err := x.writeTotals(f, styles, lay, last, subtotal, e.Notes); err != nil {
		return exportError(err)
	}

	if err := f.Write(w); err != nil {
		return pkg.IOError("write workbook", err)
	}
	x.log.Info("estimate exported", zap.String("id", e.ID), zap.Int("items", len(e.Items)), zap.Bool("coefficient", bundle.UsesCoefficient))
	return nil
}

type styles struct {
	title  int
	bold   int
	header int
	money  int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 3}); err != nil {
		return s, err
	}
	return s, nil
}

func (x *ExcelExporter) writeHeader(f *excelize.File, st styles, e entities.Estimate) error {
	if err := f.MergeCell(sheetName, "A1", "H1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "A1", "御見積書"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", st.title); err != nil {
		return err
	}

	customer := e.Customer.Company
	if e.Customer.Department != "" {
		customer += " " + e.Customer.Department
	}
	contact := ""
	if e.Customer.Contact != "" {
		contact = e.Customer.Contact + " 様"
	}
	rows := [][2]string{
		{"見積No", e.ID},
		{"発行日", e.IssueDate.String()},
		{"お客様", customer + " 御中"},
		{"ご担当", contact},
		{"住所", e.Customer.Address},
		{"件名", e.ProjectName},
		{"発行者", e.Issuer},
	}
	for i, r := range rows {
		row := 3 + i
		if err := f.SetCellValue(sheetName, "A"+strconv.Itoa(row), r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, "B"+strconv.Itoa(row), r[1]); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheetName, "A3", "A9", st.bold)
}

// writeItems fills the item table and returns the last row used together
// with the sum of the amounts written.
func (x *ExcelExporter) writeItems(f *excelize.File, st styles, lay layout, items []entities.LineItem) (int, decimal.Decimal, error) {
	subtotal := decimal.Zero
	for i, h := range lay.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, itemHeadRow)
		if err != nil {
			return 0, subtotal, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return 0, subtotal, err
		}
	}
	endHead, _ := excelize.CoordinatesToCellName(len(lay.headers), itemHeadRow)
	if err := f.SetCellStyle(sheetName, "A"+strconv.Itoa(itemHeadRow), endHead, st.header); err != nil {
		return 0, subtotal, err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 36); err != nil {
		return 0, subtotal, err
	}

	row := firstItemRow
	n := 0
	for _, it := range items {
		r := strconv.Itoa(row)
		switch v := it.(type) {
		case entities.CategoryHeader:
			if err := f.SetCellValue(sheetName, "B"+r, v.Name); err != nil {
				return 0, subtotal, err
			}
			if err := f.SetCellStyle(sheetName, "B"+r, "B"+r, st.bold); err != nil {
				return 0, subtotal, err
			}
		case entities.BillableItem:
			n++
			values := map[string]any{
				"A": n,
				"B": v.Name,
				"C": v.Unit,
				"D": v.Quantity,
				"E": v.UnitPrice,
			}
			if lay.amount == "G" {
				values["F"] = v.Coefficient
			}
			values[lay.note] = v.Note
			for col, val := range values {
				if err := f.SetCellValue(sheetName, col+r, val); err != nil {
					return 0, subtotal, err
				}
			}
			amount := v.AmountDecimal(lay.amount == "G")
			subtotal = subtotal.Add(amount)
			if err := setFormula(f, lay.amount+r, lay.formula(row), amount); err != nil {
				return 0, subtotal, err
			}
			if err := f.SetCellStyle(sheetName, lay.amount+r, lay.amount+r, st.money); err != nil {
				return 0, subtotal, err
			}
		default:
			continue
		}
		row++
	}
	return row - 1, subtotal, nil
}

func (x *ExcelExporter) writeTotals(f *excelize.File, st styles, lay layout, last int, subtotal decimal.Decimal, notes string) error {
	label := string(rune(lay.amount[0] - 1))
	sub := last + 2
	tax := sub + 1
	total := sub + 2

	taxAmount := subtotal.Mul(decimal.NewFromFloat(x.taxRate)).Truncate(0)

	lines := []struct {
		row     int
		label   string
		formula string
		value   decimal.Decimal
	}{
		{sub, "小計", fmt.Sprintf("SUM(%s%d:%s%d)", lay.amount, firstItemRow, lay.amount, max(last, firstItemRow)), subtotal},
		{tax, fmt.Sprintf("消費税（%s%%）", strconv.FormatFloat(x.taxRate*100, 'f', -1, 64)),
			fmt.Sprintf("ROUNDDOWN(%s%d*%s,0)", lay.amount, sub, strconv.FormatFloat(x.taxRate, 'f', -1, 64)), taxAmount},
		{total, "合計", fmt.Sprintf("%s%d+%s%d", lay.amount, sub, lay.amount, tax), subtotal.Add(taxAmount)},
	}
	for _, l := range lines {
		r := strconv.Itoa(l.row)
		if err := f.SetCellValue(sheetName, label+r, l.label); err != nil {
			return err
		}
		if err := setFormula(f, lay.amount+r, l.formula, l.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, label+r, lay.amount+r, st.bold); err != nil {
			return err
		}
	}

	if strings.TrimSpace(notes) == "" {
		return nil
	}
	r := strconv.Itoa(total + 2)
	if err := f.SetCellValue(sheetName, "A"+r, "備考"); err != nil {
		return err
	}
	return f.SetCellValue(sheetName, "B"+r, notes)
}

// setFormula stores the computed value as the formula's cached result so
// readers that do not recalculate still see the amount.
func setFormula(f *excelize.File, cell, formula string, value decimal.Decimal) error {
	if err := f.SetCellValue(sheetName, cell, value.InexactFloat64()); err != nil {
		return err
	}
	return f.SetCellFormula(sheetName, cell, formula)
}

func exportError(err error) error {
	return pkg.NewDomainError(pkg.KindInternal, "EXPORT_FAILED", "workbook could not be built", err)
}
