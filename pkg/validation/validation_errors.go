package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	// Auth fields
	"first_name": "First name",
	"last_name":  "Last name",
	"email":      "Email",
	"password":   "Password",
	"role":       "Role",
	"code":       "Verification code",

	// Profile fields
	"title":              "Title",
	"summary":            "Summary",
	"phone":              "Phone number",
	"website":            "Website",
	"linkedin":           "LinkedIn URL",
	"github":             "GitHub URL",
	"youtube":            "YouTube URL",
	"freelance_company":  "Freelance company",
	"profile_visibility": "Profile visibility",
	"visibility":         "Profile visibility",
	"filename":           "File name",
	"path":               "File path",

	// Company fields
	"name":     "Company name",
	"industry": "Industry",
	"size":     "Company size",
	"founded":  "Founded year",

	// Job fields
	"description":      "Description",
	"requirements":     "Requirements",
	"locations":        "Locations",
	"job_type":         "Job type",
	"experience_level": "Experience level",
	"status":           "Status",
	"rejection_reason": "Rejection reason",
	"rejectionReason":  "Rejection reason",

	// Application fields
	"job_id":       "Job",
	"jobId":        "Job",
	"cover_letter": "Cover letter",
	"coverLetter":  "Cover letter",
	"content":      "Note",
	"date":         "Interview date",
	"time":         "Interview time",
	"type":         "Interview type",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Malformed JSON or a type mismatch
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError renders one failure as "<json key>: <sentence>" so clients
// can match the message to the request field they sent
func formatSingleError(e validator.FieldError) string {
	return e.Field() + ": " + describe(e)
}

func describe(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)

	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)

	case "uuid", "uuid4":
		return fmt.Sprintf("%s is not a valid identifier", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation (. ' - /)", label)

	case "valid_phone":
		return fmt.Sprintf("%s must be a phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)

	case "max_current_year":
		return fmt.Sprintf("%s cannot be later than the current year", label)

	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s failed the %s check", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatSnakeCase(fieldName)
}

// formatSnakeCase converts snake_case to spaced words with a capital first letter
func formatSnakeCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
