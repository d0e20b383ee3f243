package workflow

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field extraction rules are first-match-only and case-insensitive.
// The optional currency alternation keeps a trailing `$` alternative from the
// upstream rule set; it matches empty and is retained for rule compatibility.
var (
	invoiceNumberRx  = regexp.MustCompile(`(?i)invoice\s*(?:#|number|no\.?)?\s*:?\s*([A-Z0-9-]+)`)
	totalAmountRx    = regexp.MustCompile(`(?i)(?:total|amount due|grand total)\s*:?\s*(?:SAR|SR|$)?\s*([\d,]+\.?\d*)`)
	vendorNameRx     = regexp.MustCompile(`(?i)(?:from|vendor|seller|company)\s*:?\s*([A-Za-z\s&]+)`)
	idNumberRx       = regexp.MustCompile(`(?i)(?:id|identity)\s*(?:number|no\.?)?\s*:?\s*(\d{10})`)
	holderNameRx     = regexp.MustCompile(`(?i)name\s*:?\s*([A-Za-z\s]+)`)
	accountNumberRx  = regexp.MustCompile(`(?i)account\s*(?:number|no\.?)?\s*:?\s*([A-Z0-9]+)`)
	closingBalanceRx = regexp.MustCompile(`(?i)(?:closing|final)\s*balance\s*:?\s*(?:SAR|SR|$)?\s*([\d,]+\.?\d*)`)
	netSalaryRx      = regexp.MustCompile(`(?i)(?:net pay|net salary)\s*:?\s*(?:SAR|SR|$)?\s*([\d,]+\.?\d*)`)
)

const rawTextPreviewLimit = 500

// ExtractResult holds the structured field mapping produced for a document
// along with the heuristic extraction confidence.
type ExtractResult struct {
	Fields     map[string]any
	Confidence float64
}

// Extract dispatches to the per-type rule set and returns the extracted field
// mapping tagged with the extractor version and an extraction timestamp.
// Confidence is 0.85 plus uniform jitter in [-0.10, +0.10]; the formula is
// deliberately not clamped to [0, 1].
func Extract(text string, docType DocumentType) ExtractResult {
	var fields map[string]any

	switch docType {
	case TypeInvoice:
		fields = extractInvoice(text)
	case TypeNationalID:
		fields = extractNationalID(text)
	case TypeBankStatement:
		fields = extractBankStatement(text)
	case TypePayslip:
		fields = extractPayslip(text)
	default:
		fields = map[string]any{
			"raw_text":         truncate(text, rawTextPreviewLimit),
			"extracted_fields": map[string]any{},
		}
	}

	fields["model_version"] = ExtractorVersion
	fields["extraction_timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return ExtractResult{
		Fields:     fields,
		Confidence: 0.85 + (rand.Float64()*0.2 - 0.1),
	}
}

func extractInvoice(text string) map[string]any {
	fields := map[string]any{
		"vendor_name":    nil,
		"invoice_number": nil,
		"invoice_date":   nil,
		"due_date":       nil,
		"total_amount":   nil,
		"currency":       "SAR",
		"line_items":     []any{},
	}

	if m := invoiceNumberRx.FindStringSubmatch(text); m != nil {
		fields["invoice_number"] = m[1]
	}
	if m := totalAmountRx.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			fields["total_amount"] = amount
		}
	}
	if m := vendorNameRx.FindStringSubmatch(text); m != nil {
		fields["vendor_name"] = strings.TrimSpace(m[1])
	}

	return fields
}

func extractNationalID(text string) map[string]any {
	fields := map[string]any{
		"id_number":     nil,
		"name":          nil,
		"date_of_birth": nil,
		"nationality":   "Saudi Arabia",
		"gender":        nil,
	}

	if m := idNumberRx.FindStringSubmatch(text); m != nil {
		fields["id_number"] = m[1]
	}
	if m := holderNameRx.FindStringSubmatch(text); m != nil {
		fields["name"] = strings.TrimSpace(m[1])
	}

	return fields
}

func extractBankStatement(text string) map[string]any {
	fields := map[string]any{
		"account_number":   nil,
		"account_holder":   nil,
		"statement_period": nil,
		"opening_balance":  nil,
		"closing_balance":  nil,
		"transactions":     []any{},
	}

	if m := accountNumberRx.FindStringSubmatch(text); m != nil {
		fields["account_number"] = m[1]
	}
	if m := closingBalanceRx.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			fields["closing_balance"] = amount
		}
	}

	return fields
}

func extractPayslip(text string) map[string]any {
	fields := map[string]any{
		"employee_name": nil,
		"employee_id":   nil,
		"pay_period":    nil,
		"gross_salary":  nil,
		"net_salary":    nil,
		"deductions":    []any{},
	}

	if m := netSalaryRx.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			fields["net_salary"] = amount
		}
	}

	return fields
}

// parseAmount strips thousands separators and parses the remainder as a float.
func parseAmount(s string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// truncate limits s to at most limit characters. Counting runes rather than
// bytes keeps Arabic and other multibyte text from being cut mid-character.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
