package answer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/siherrmann/carepath/model"
)

// NoMatchAnswer is returned when no column and aggregation fit the question
const NoMatchAnswer = "Sorry, I couldn't match your question to the data."

type aggregation struct {
	keywords    []string
	numericOnly bool
	apply       func(column string, values []string, numbers []float64) string
}

var aggregations = []aggregation{
	{
		keywords: []string{"how many", "number of"},
		apply: func(column string, values []string, _ []float64) string {
			return fmt.Sprintf("%s: %d unique values", column, countDistinct(values))
		},
	},
	{
		keywords:    []string{"total", "sum"},
		numericOnly: true,
		apply: func(column string, _ []string, numbers []float64) string {
			return fmt.Sprintf("Total %s: %s", column, formatNumber(sum(numbers)))
		},
	},
	{
		keywords:    []string{"average", "mean"},
		numericOnly: true,
		apply: func(column string, _ []string, numbers []float64) string {
			return fmt.Sprintf("Average %s: %.2f", column, sum(numbers)/float64(len(numbers)))
		},
	},
	{
		keywords: []string{"maximum"},
		apply: func(column string, values []string, numbers []float64) string {
			return fmt.Sprintf("Maximum %s: %s", column, extreme(values, numbers, true))
		},
	},
	{
		keywords: []string{"minimum"},
		apply: func(column string, values []string, numbers []float64) string {
			return fmt.Sprintf("Minimum %s: %s", column, extreme(values, numbers, false))
		},
	},
}

// Answer dispatches a question to a single-column aggregation. The first
// column in dataset order that the question mentions decides the answer;
// when none of its aggregations applies, including a numeric-only one on a
// non-numeric column, the question is not matched.
func Answer(question string, dataset *model.Dataset) string {
	if dataset == nil {
		return NoMatchAnswer
	}

	q := strings.ToLower(question)
	for _, column := range dataset.Columns {
		if !mentions(q, column) {
			continue
		}

		values := nonEmpty(dataset.Column(column))
		numbers, numeric := parseNumbers(values)

		for _, agg := range aggregations {
			if !containsAny(q, agg.keywords) {
				continue
			}
			if agg.numericOnly && !numeric {
				return NoMatchAnswer
			}
			return agg.apply(column, values, numbers)
		}
		return NoMatchAnswer
	}

	return NoMatchAnswer
}

// mentions reports whether the question names the column, either verbatim,
// with underscores read as spaces, or without a trailing _id.
func mentions(question, column string) bool {
	name := strings.ToLower(strings.TrimSpace(column))
	if name == "" {
		return false
	}

	aliases := []string{name, strings.ReplaceAll(name, "_", " ")}
	if base, ok := strings.CutSuffix(name, "_id"); ok && base != "" {
		aliases = append(aliases, base, strings.ReplaceAll(base, "_", " "))
	}

	return containsAny(question, aliases)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseNumbers parses all values as floats. The column is numeric only if
// it has values and every one of them parses.
func parseNumbers(values []string) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		numbers = append(numbers, n)
	}
	return numbers, true
}

func countDistinct(values []string) int {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}

func sum(numbers []float64) float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return total
}

func extreme(values []string, numbers []float64, max bool) string {
	if numbers != nil {
		best := numbers[0]
		for _, n := range numbers[1:] {
			if (max && n > best) || (!max && n < best) {
				best = n
			}
		}
		return formatNumber(best)
	}

	if len(values) == 0 {
		return "n/a"
	}
	best := values[0]
	for _, v := range values[1:] {
		if (max && v > best) || (!max && v < best) {
			best = v
		}
	}
	return best
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
