package claims

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation recommendation strings. Downstream components branch on
// issue severity, never on these labels, so they are display values.
const (
	ValidationReject           = "REJECT"
	ValidationFlag             = "FLAG"
	ValidationApproveWithNotes = "APPROVE_WITH_NOTES"
	ValidationApprove          = "APPROVE"
)

var requiredFields = []string{
	"patient_id", "patient_name", "date_of_birth", "policy_number",
	"provider_name", "provider_id", "service_date", "diagnosis_code",
	"procedure_code", "amount_billed",
}

var (
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	policyRe = regexp.MustCompile(`^[A-Z0-9]{8,12}$`)
	icd10Re  = regexp.MustCompile(`^[A-Z]\d{2}\.\d$`)
)

// Validate runs every structural, format, and consistency check against
// the claim and returns the full report. It never fails: malformed data
// becomes issues, not errors.
func Validate(c *Claim) *ValidationResult {
	return validateAt(c, time.Now())
}

func validateAt(c *Claim, now time.Time) *ValidationResult {
	var issues []Issue

	issues = append(issues, checkRequiredFields(c)...)
	issues = append(issues, checkFormats(c)...)
	issues = append(issues, checkAmount(c)...)
	issues = append(issues, checkConsistency(c, now)...)

	result := &ValidationResult{
		IsValid:     true,
		Issues:      issues,
		TotalIssues: len(issues),
		Timestamp:   now,
	}
	for _, issue := range issues {
		if issue.Severity == SeverityHigh {
			result.IsValid = false
			break
		}
	}
	result.Recommendation = recommendationFor(issues)
	return result
}

func fieldValue(c *Claim, name string) string {
	switch name {
	case "patient_id":
		return c.PatientID
	case "patient_name":
		return c.PatientName
	case "date_of_birth":
		return c.DateOfBirth
	case "policy_number":
		return c.PolicyNumber
	case "provider_name":
		return c.ProviderName
	case "provider_id":
		return c.ProviderID
	case "service_date":
		return c.ServiceDate
	case "diagnosis_code":
		return c.DiagnosisCode
	case "procedure_code":
		return c.ProcedureCode
	case "amount_billed":
		if c.AmountBilled.IsZero() {
			return ""
		}
		return string(c.AmountBilled)
	}
	return ""
}

// checkRequiredFields emits a single aggregate issue naming every
// absent field, not one issue per field.
func checkRequiredFields(c *Claim) []Issue {
	var missing []string
	for _, name := range requiredFields {
		if fieldValue(c, name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []Issue{{
		Type:     IssueMissingData,
		Severity: SeverityHigh,
		Fields:   missing,
		Message:  "Missing required fields: " + strings.Join(missing, ", "),
	}}
}

// checkFormats validates field formats independently; absent fields are
// skipped because the required-field check already reported them.
func checkFormats(c *Claim) []Issue {
	var issues []Issue

	for _, f := range []struct {
		name  string
		value string
	}{
		{"date_of_birth", c.DateOfBirth},
		{"service_date", c.ServiceDate},
	} {
		if f.value == "" {
			continue
		}
		if !dateRe.MatchString(f.value) {
			issues = append(issues, Issue{
				Type:     IssueFormatError,
				Severity: SeverityMedium,
				Field:    f.name,
				Message:  fmt.Sprintf("%s must be in YYYY-MM-DD format", f.name),
			})
			continue
		}
		if _, err := time.Parse("2006-01-02", f.value); err != nil {
			issues = append(issues, Issue{
				Type:     IssueFormatError,
				Severity: SeverityMedium,
				Field:    f.name,
				Message:  fmt.Sprintf("%s must be in YYYY-MM-DD format", f.name),
			})
		}
	}

	if c.PolicyNumber != "" && !policyRe.MatchString(c.PolicyNumber) {
		issues = append(issues, Issue{
			Type:     IssueFormatError,
			Severity: SeverityHigh,
			Field:    "policy_number",
			Message:  "Policy number format is invalid",
		})
	}

	if c.DiagnosisCode != "" && !icd10Re.MatchString(c.DiagnosisCode) {
		issues = append(issues, Issue{
			Type:     IssueFormatError,
			Severity: SeverityMedium,
			Field:    "diagnosis_code",
			Message:  "Diagnosis code should follow ICD-10 format (e.g., A12.3)",
		})
	}

	return issues
}

func checkAmount(c *Claim) []Issue {
	raw := strings.TrimSpace(string(c.AmountBilled))
	if raw == "" {
		return nil
	}

	amount, err := c.AmountBilled.Float()
	if err != nil {
		return []Issue{{
			Type:     IssueFormatError,
			Severity: SeverityHigh,
			Field:    "amount_billed",
			Message:  "Amount billed must be a valid number",
		}}
	}

	var issues []Issue
	if amount <= 0 {
		issues = append(issues, Issue{
			Type:     IssueDataError,
			Severity: SeverityHigh,
			Field:    "amount_billed",
			Message:  "Billed amount must be greater than zero",
		})
	}
	if amount > 100000 {
		issues = append(issues, Issue{
			Type:     IssueDataWarning,
			Severity: SeverityLow,
			Field:    "amount_billed",
			Message:  "Unusually high billed amount - please verify",
		})
	}
	return issues
}

// checkConsistency runs the cross-field checks. Date comparisons only
// apply when both dates parse; the format checks already cover the rest.
func checkConsistency(c *Claim, now time.Time) []Issue {
	var issues []Issue

	dob, dobErr := time.Parse("2006-01-02", c.DateOfBirth)
	service, svcErr := time.Parse("2006-01-02", c.ServiceDate)

	if dobErr == nil && svcErr == nil {
		if service.Before(dob) {
			issues = append(issues, Issue{
				Type:     IssueLogicalError,
				Severity: SeverityHigh,
				Field:    "service_date",
				Message:  "Service date cannot be before patient birth date",
			})
		}

		if service.After(now) {
			issues = append(issues, Issue{
				Type:     IssueLogicalError,
				Severity: SeverityMedium,
				Field:    "service_date",
				Message:  "Service date is in the future",
			})
		}

		ageYears := service.Sub(dob).Hours() / 24 / 365.25
		if ageYears > 120 {
			issues = append(issues, Issue{
				Type:     IssueDataWarning,
				Severity: SeverityMedium,
				Field:    "date_of_birth",
				Message:  "Patient age seems unusually high - please verify",
			})
		}
	}

	if c.PatientName != "" && len(strings.Fields(c.PatientName)) < 2 {
		issues = append(issues, Issue{
			Type:     IssueDataWarning,
			Severity: SeverityLow,
			Field:    "patient_name",
			Message:  "Patient name appears to be incomplete (missing first/last name)",
		})
	}

	return issues
}

// recommendationFor maps issues to a disposition in strict priority
// order: any high wins, then any medium, then any issue at all.
func recommendationFor(issues []Issue) string {
	hasMedium := false
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityHigh:
			return ValidationReject
		case SeverityMedium:
			hasMedium = true
		}
	}
	if hasMedium {
		return ValidationFlag
	}
	if len(issues) > 0 {
		return ValidationApproveWithNotes
	}
	return ValidationApprove
}
