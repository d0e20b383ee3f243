package workflow

import "strings"

// keywordSet binds a document type to the keywords that vote for it.
// Table order is the tie-break order: the first type reaching the maximum
// score wins.
type keywordSet struct {
	Type     DocumentType
	Keywords []string
}

var keywordTable = []keywordSet{
	{TypeInvoice, []string{"invoice", "bill", "amount due", "total", "vendor", "payment"}},
	{TypeNationalID, []string{"national id", "identity card", "id number", "date of birth", "nationality"}},
	{TypeBankStatement, []string{"bank statement", "account", "balance", "transaction", "deposit", "withdrawal"}},
	{TypePayslip, []string{"payslip", "salary", "earnings", "deductions", "net pay", "gross pay"}},
	{TypeUtilityBill, []string{"utility", "electricity", "water", "gas", "meter reading"}},
}

// ClassifyResult holds the outcome of keyword classification.
// Output is the stage payload persisted on the classify stage run.
type ClassifyResult struct {
	Type       DocumentType
	Confidence float64
	Output     map[string]any
}

// Classify scores the document text against each type's keyword set and
// returns the best-scoring type. A keyword contributes one point when it
// appears as a case-insensitive substring, regardless of repetition.
// With no keyword hits at all the result is TypeUnknown at confidence 0.3;
// otherwise confidence is min(0.95, 0.6 + score*0.07).
func Classify(text string) ClassifyResult {
	lowered := strings.ToLower(text)

	scores := make(map[string]int, len(keywordTable))
	best := TypeUnknown
	bestScore := 0

	for _, set := range keywordTable {
		score := 0
		for _, keyword := range set.Keywords {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		scores[string(set.Type)] = score
		if score > bestScore {
			best = set.Type
			bestScore = score
		}
	}

	confidence := 0.3
	if bestScore > 0 {
		confidence = min(0.95, 0.6+float64(bestScore)*0.07)
	} else {
		best = TypeUnknown
	}

	return ClassifyResult{
		Type:       best,
		Confidence: confidence,
		Output: map[string]any{
			"document_type": string(best),
			"confidence":    confidence,
			"scores":        scores,
			"model_version": ClassifierVersion,
		},
	}
}
