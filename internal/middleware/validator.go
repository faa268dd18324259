package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateDatasetID validates dataset ID format
func ValidateDatasetID(id string) error {
	if id == "" {
		return fmt.Errorf("dataset ID cannot be empty")
	}

	// UUID pattern with slug suffix: uuid-name
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}-.+$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid dataset ID format")
	}

	return nil
}

// ValidateColumnName rejects column names that cannot come from a CSV
// header cell
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if len(name) > 256 {
		return fmt.Errorf("column name too long (max 256 chars)")
	}
	for _, d := range []string{"\x00", "\n", "\r"} {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in column name")
		}
	}
	return nil
}

// ValidateQuestion bounds natural-language question length
func ValidateQuestion(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if len(q) > 2000 {
		return fmt.Errorf("question too long (max 2000 chars)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage validates page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
