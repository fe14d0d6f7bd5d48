package classify

import (
	"strings"

	"github.com/lifedash/docintel/constants"
)

type rule struct {
	category constants.DocumentCategory
	all      []string // every keyword must be present
	any      []string // at least one keyword must be present
}

// Rule order is the tie-break: the first satisfied rule wins and later ones
// are never evaluated. A warranty document that also says "contract" is a
// contract, because contract is tested first.
var rules = []rule{
	{category: constants.CategoryInsurancePolicy, all: []string{"insurance", "policy"}},
	{category: constants.CategoryBill, any: []string{"bill", "invoice"}},
	{category: constants.CategoryFinancialStatement, all: []string{"statement", "balance"}},
	{category: constants.CategoryReceipt, any: []string{"receipt"}},
	{category: constants.CategoryMedicalRecord, any: []string{"medical", "patient"}},
	{category: constants.CategoryContract, any: []string{"contract", "agreement"}},
	{category: constants.CategoryWarranty, any: []string{"warranty"}},
}

// Categorize assigns exactly one category using ordered keyword tests over
// the lowercased text.
func Categorize(text string) constants.DocumentCategory {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r.category
		}
	}
	return constants.CategoryGeneral
}

func (r rule) matches(lower string) bool {
	for _, kw := range r.all {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	if len(r.any) == 0 {
		return len(r.all) > 0
	}
	for _, kw := range r.any {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
