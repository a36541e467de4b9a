package journey

import (
	"strings"

	"github.com/siherrmann/carepath/model"
)

// MentalHealthKeywords select the mental health domain. They are checked first.
var MentalHealthKeywords = []string{"anxious", "numb", "unmotivated", "depressed", "therapist"}

// OrthopedicKeywords select the orthopedic domain
var OrthopedicKeywords = []string{"knee", "joint", "limp", "mobility", "orthopedic", "bone", "pain"}

// DetectDomain maps free text to a care domain by keyword containment.
// Mental health wins when both keyword sets match; text matching neither
// falls back to model.DefaultDomain.
func DetectDomain(text string) model.Domain {
	lower := strings.ToLower(text)

	if containsAny(lower, MentalHealthKeywords...) {
		return model.DomainMentalHealth
	}
	if containsAny(lower, OrthopedicKeywords...) {
		return model.DomainOrthopedic
	}

	return model.DefaultDomain
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords ...string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}
