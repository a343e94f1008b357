package regexfb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/port"
)

const aadhaarText = `Government of India
Unique Identification Authority of India (UIDAI)
Name: Priya Sharma
DOB: 15/03/1990
2345 6789 0124`

const cibilText = `CIBIL Credit Report
Credit Score: 760
PAN: ABCPE1234F
Report Date: 2024-01-15`

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"aadhaar", aadhaarText, "aadhaar"},
		{"cibil", cibilText, "cibil_report"},
		{"pan", "Income Tax Department\nPermanent Account Number\nABCPE1234F", "pan"},
		{"salary slip", "SALARY SLIP\nNet Pay: 52,000\nGross Salary: 65,000", "salary_slip"},
		{"itr", "Income Tax Return\nAssessment Year 2024-25\nTotal Income: 9,60,000", "itr"},
		{"bank statement", "Account Statement\nCurrent Balance: 1,20,000", "bank_statement"},
		{"unclassifiable", "nothing to see here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyText(tt.text))
		})
	}
}

func TestExtractAadhaarText(t *testing.T) {
	out, err := New().Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte(aadhaarText),
		ContentType: "text/plain",
		Filename:    "aadhaar.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, "aadhaar", out.DocumentType)
	assert.Equal(t, "regex", out.ProviderUsed)
	assert.Equal(t, "2345 6789 0124", out.Fields["aadhaar_number"])
	assert.Equal(t, "15/03/1990", out.Fields["dob"])
	for field := range out.Fields {
		assert.InDelta(t, 0.40, out.Confidence[field], 1e-9, "field %s", field)
	}
}

func TestExtractCIBILText(t *testing.T) {
	out, err := New().Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte(cibilText),
		ContentType: "text/plain",
	})
	require.NoError(t, err)

	assert.Equal(t, "cibil_report", out.DocumentType)
	assert.Equal(t, "760", out.Fields["cibil_score"])
	assert.Equal(t, "ABCPE1234F", out.Fields["pan_number"])
}

func TestExtractHonorsTypeHint(t *testing.T) {
	out, err := New().Extract(context.Background(), port.ExtractInput{
		FileBytes:    []byte(cibilText),
		ContentType:  "text/plain",
		DocumentType: "pan",
	})
	require.NoError(t, err)
	assert.Equal(t, "pan", out.DocumentType)
}

func TestExtractRejectsNonText(t *testing.T) {
	_, err := New().Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires text input")
}

func TestExtractNoFields(t *testing.T) {
	_, err := New().Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("nothing recognizable"),
		ContentType: "text/plain",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recognizable fields")
}
