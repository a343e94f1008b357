package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"rinsetu/internal/domain"
)

// WriteWorkbook renders the full evaluation of a session as an XLSX workbook
// with one sheet per pipeline stage.
func WriteWorkbook(w io.Writer, sess *domain.Session) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeDecisionSheet(f, sess); err != nil {
		return err
	}
	if err := writeChecksSheet(f, sess); err != nil {
		return err
	}
	if err := writeConsistencySheet(f, sess); err != nil {
		return err
	}
	if err := writeIncomeSheet(f, sess); err != nil {
		return err
	}
	if err := writeCreditSheet(f, sess); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex("Decision"); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func writeDecisionSheet(f *excelize.File, sess *domain.Session) error {
	rows := [][]interface{}{
		{"Session", sess.Name},
		{"Session ID", sess.ID.String()},
	}
	if d := sess.Decision; d != nil {
		rows = append(rows,
			[]interface{}{"Risk Tier", string(d.RiskTier)},
			[]interface{}{"Max Loan Amount (INR)", formatMoney(d.MaxLoanAmount)},
			[]interface{}{"Interest Rate Band", string(d.InterestRateBand)},
			[]interface{}{"Evaluated At", d.EvaluatedAt.Format("2006-01-02 15:04:05 MST")},
			[]interface{}{"Verdict", strings.Join(d.VerdictReasons, "; ")},
		)
	} else {
		rows = append(rows, []interface{}{"Risk Tier", "not evaluated"})
	}
	return writeRows(f, "Decision", rows)
}

func writeChecksSheet(f *excelize.File, sess *domain.Session) error {
	rows := [][]interface{}{
		{"Document Type", "Filename", "Rule Key", "Severity", "Field", "Passed", "Message"},
	}
	filenames := make(map[string]string, len(sess.Documents))
	for i := range sess.Documents {
		filenames[sess.Documents[i].DocumentID] = sess.Documents[i].Filename
	}
	for i := range sess.Results {
		res := &sess.Results[i]
		for j := range res.Checks {
			c := &res.Checks[j]
			rows = append(rows, []interface{}{
				string(res.DocumentType), filenames[res.DocumentID],
				c.RuleKey, string(c.Severity), c.Field, formatBool(c.Passed), c.Message,
			})
		}
	}
	return writeRows(f, "Checks", rows)
}

func writeConsistencySheet(f *excelize.File, sess *domain.Session) error {
	rows := [][]interface{}{
		{"Field", "Status", "Severity", "Detail"},
	}
	if r := sess.Consistency; r != nil {
		matched := make([]string, 0, len(r.MatchedFields))
		for field := range r.MatchedFields {
			matched = append(matched, field)
		}
		sort.Strings(matched)
		for _, field := range matched {
			rows = append(rows, []interface{}{field, "matched", "", fmt.Sprintf("%d documents agree", len(r.MatchedFields[field]))})
		}
		for _, field := range r.Unverified {
			rows = append(rows, []interface{}{field, "unverified", "", "present in fewer than two documents"})
		}
		for _, c := range r.Conflicts {
			rows = append(rows, []interface{}{c.Field, "conflict", string(c.Severity), c.Detail})
		}
	}
	return writeRows(f, "Consistency", rows)
}

func writeIncomeSheet(f *excelize.File, sess *domain.Session) error {
	rows := [][]interface{}{
		{"Source Type", "Document ID", "Monthly Contribution (INR)"},
	}
	if p := sess.Income; p != nil {
		for _, src := range p.IncomeSources {
			rows = append(rows, []interface{}{string(src.SourceType), src.DocumentID, formatMoney(src.ContributionAmount)})
		}
		rows = append(rows, []interface{}{})
		rows = append(rows, []interface{}{"Monthly Income", "", formatMoney(p.MonthlyIncome)})
		rows = append(rows, []interface{}{"Monthly Obligations", "", formatMoney(p.MonthlyObligations)})
		dti := ""
		if p.DebtToIncomeRatio != nil {
			dti = strconv.FormatFloat(*p.DebtToIncomeRatio, 'f', 4, 64)
		}
		rows = append(rows, []interface{}{"Debt-to-Income Ratio", "", dti})
		rows = append(rows, []interface{}{"Low Confidence", "", formatBool(p.LowConfidence)})
	}
	return writeRows(f, "Income", rows)
}

func writeCreditSheet(f *excelize.File, sess *domain.Session) error {
	rows := [][]interface{}{
		{"Component", "Weight", "Raw Score", "Weighted", "Suggestion"},
	}
	if b := sess.Credit; b != nil {
		for _, c := range b.Components {
			rows = append(rows, []interface{}{
				string(c.Component),
				strconv.FormatFloat(c.Weight, 'f', 2, 64),
				strconv.FormatFloat(c.RawScore, 'f', 1, 64),
				strconv.FormatFloat(c.Weighted, 'f', 2, 64),
				c.Suggestion,
			})
		}
		rows = append(rows, []interface{}{})
		rows = append(rows, []interface{}{"Overall Score", strconv.Itoa(b.OverallScore)})
		rows = append(rows, []interface{}{"Band", b.Band})
	}
	return writeRows(f, "Credit", rows)
}
