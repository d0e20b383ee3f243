// Package workflow implements the Basira pipeline stage algorithms.
// It provides the classification, field extraction, PII redaction, and
// validation logic invoked by the stage orchestrator, along with the
// model version tags recorded in lineage events.
package workflow

// Model and rule-set version tags captured in stage outputs and lineage events.
const (
	ClassifierVersion = "v1.2-comprehend-classifier"
	ExtractorVersion  = "textract-analyze-v3.0"
	ValidatorVersion  = "v2.1-business-rules"
	RedactorVersion   = "aws-comprehend-pii-v2.0"
)

// DocumentType labels the category assigned to a document by the classifier.
type DocumentType string

// Document types recognized by the classifier. TypeUnknown is assigned when
// no keyword set matches or when text extraction fails.
const (
	TypeInvoice       DocumentType = "INVOICE"
	TypeNationalID    DocumentType = "NATIONAL_ID"
	TypeBankStatement DocumentType = "BANK_STATEMENT"
	TypePayslip       DocumentType = "PAYSLIP"
	TypeUtilityBill   DocumentType = "UTILITY_BILL"
	TypeUnknown       DocumentType = "UNKNOWN"
)
