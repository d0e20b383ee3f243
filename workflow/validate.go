package workflow

// ValidateResult holds the pass/fail rule lists for a field mapping along
// with the overall validity flag and stage confidence.
type ValidateResult struct {
	Valid      bool
	Passed     []string
	Failed     []string
	Confidence float64
	Output     map[string]any
}

// Validate applies the per-type mandatory-field rules to a field mapping.
// Each rule appends to either the passed or failed list; when every rule
// passes, a synthetic "all_mandatory_fields_present" rule is appended.
// Confidence is 1.0 when valid, 0.5 otherwise. Types without rules
// (PAYSLIP, UTILITY_BILL, UNKNOWN) validate trivially.
func Validate(fields map[string]any, docType DocumentType) ValidateResult {
	passed := []string{}
	failed := []string{}

	check := func(ok bool, passRule, failRule string) {
		if ok {
			passed = append(passed, passRule)
		} else {
			failed = append(failed, failRule)
		}
	}

	switch docType {
	case TypeInvoice:
		check(present(fields["total_amount"]) && numeric(fields["total_amount"]),
			"total_amount_present", "total_amount_missing_or_invalid")
		check(present(fields["vendor_name"]), "vendor_name_present", "vendor_name_missing")
		check(present(fields["invoice_number"]), "invoice_number_present", "invoice_number_missing")
	case TypeNationalID:
		check(present(fields["id_number"]), "id_number_present", "id_number_missing")
		check(present(fields["name"]), "name_present", "name_missing")
	case TypeBankStatement:
		check(present(fields["account_number"]), "account_number_present", "account_number_missing")
	}

	if len(failed) == 0 {
		passed = append(passed, "all_mandatory_fields_present")
	}

	valid := len(failed) == 0
	confidence := 0.5
	if valid {
		confidence = 1.0
	}

	return ValidateResult{
		Valid:      valid,
		Passed:     passed,
		Failed:     failed,
		Confidence: confidence,
		Output: map[string]any{
			"is_valid":           valid,
			"passed_rules":       passed,
			"failed_rules":       failed,
			"validation_version": ValidatorVersion,
		},
	}
}

// present reports whether a field value is populated: non-nil and not an
// empty string, zero number, false, or empty collection.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// numeric reports whether a field value carries a numeric type, either
// natively or as decoded from a JSON payload.
func numeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	default:
		return false
	}
}
