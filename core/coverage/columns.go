package coverage

import "strings"

// ExtractColumns case-folds a table header into a column set
func ExtractColumns(header []string) map[string]bool {
	columns := make(map[string]bool, len(header))
	for _, h := range header {
		columns[normalize(h)] = true
	}
	return columns
}

func normalize(column string) string {
	return strings.ToLower(strings.TrimSpace(column))
}
