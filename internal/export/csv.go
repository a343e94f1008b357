// Package export renders a session's evaluation output for download. Exports
// are generated on demand from the in-memory session and never written to
// disk server-side.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rinsetu/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// checkColumns defines the CSV header row for the per-check report.
var checkColumns = []string{
	"Document ID",
	"Document Type",
	"Filename",
	"Rule Key",
	"Rule Name",
	"Severity",
	"Field",
	"Passed",
	"Message",
}

// Writer wraps csv.Writer for exporting evaluation results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(checkColumns)
}

// WriteSession converts every rule check of every document to CSV rows.
func (w *Writer) WriteSession(sess *domain.Session) error {
	filenames := make(map[string]string, len(sess.Documents))
	for i := range sess.Documents {
		filenames[sess.Documents[i].DocumentID] = sess.Documents[i].Filename
	}

	for i := range sess.Results {
		res := &sess.Results[i]
		for j := range res.Checks {
			row := checkToRow(res, &res.Checks[j], filenames[res.DocumentID])
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func checkToRow(res *domain.ValidationResult, check *domain.RuleCheck, filename string) []string {
	row := make([]string, len(checkColumns))
	row[0] = res.DocumentID
	row[1] = string(res.DocumentType)
	row[2] = filename
	row[3] = check.RuleKey
	row[4] = check.RuleName
	row[5] = string(check.Severity)
	row[6] = check.Field
	row[7] = formatBool(check.Passed)
	row[8] = check.Message
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a session name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_session_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(sessionName, ext string) string {
	sanitized := SanitizeFilename(sessionName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
