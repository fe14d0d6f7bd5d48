package constants

import "strings"

// DocumentCategory is the closed set of semantic labels the classifier can
// assign. Exactly one label per document; CategoryGeneral is the default.
type DocumentCategory string

const (
	CategoryInsurancePolicy    DocumentCategory = "insurance_policy"
	CategoryBill               DocumentCategory = "bill"
	CategoryFinancialStatement DocumentCategory = "financial_statement"
	CategoryReceipt            DocumentCategory = "receipt"
	CategoryMedicalRecord      DocumentCategory = "medical_record"
	CategoryContract           DocumentCategory = "contract"
	CategoryWarranty           DocumentCategory = "warranty"
	CategoryGeneral            DocumentCategory = "general"
)

var allCategories = []DocumentCategory{
	CategoryInsurancePolicy,
	CategoryBill,
	CategoryFinancialStatement,
	CategoryReceipt,
	CategoryMedicalRecord,
	CategoryContract,
	CategoryWarranty,
	CategoryGeneral,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// ParseCategory maps a stored label back to its category. Unknown labels map
// to CategoryGeneral with ok=false.
func ParseCategory(input string) (DocumentCategory, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}
	return CategoryGeneral, false
}
