package claims

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Claim statuses.
const (
	StatusSubmitted         = "submitted"
	StatusUnderReview       = "under_review"
	StatusApproved          = "approved"
	StatusDenied            = "denied"
	StatusReturnedForRework = "returned_for_correction"
)

var validClaimStatuses = map[string]bool{
	StatusSubmitted:         true,
	StatusUnderReview:       true,
	StatusApproved:          true,
	StatusDenied:            true,
	StatusReturnedForRework: true,
}

// Claim is a submitted reimbursement request. Dates travel as YYYY-MM-DD
// strings; the validator reports malformed values as issues instead of
// rejecting the payload, so AmountBilled keeps its raw form too.
type Claim struct {
	ID            uuid.UUID `json:"-" db:"id"`
	ClaimID       string    `json:"claim_id" db:"claim_id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	PatientName   string    `json:"patient_name" db:"patient_name"`
	DateOfBirth   string    `json:"date_of_birth" db:"date_of_birth"`
	PolicyNumber  string    `json:"policy_number" db:"policy_number"`
	ProviderName  string    `json:"provider_name" db:"provider_name"`
	ProviderID    string    `json:"provider_id" db:"provider_id"`
	ServiceDate   string    `json:"service_date" db:"service_date"`
	ServiceType   string    `json:"service_type" db:"service_type"`
	DiagnosisCode string    `json:"diagnosis_code" db:"diagnosis_code"`
	ProcedureCode string    `json:"procedure_code" db:"procedure_code"`
	AmountBilled  Amount    `json:"amount_billed" db:"amount_billed"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Amount is a billed amount that tolerates malformed input. It accepts
// JSON numbers and strings so a claim with a bad amount still reaches
// the validator, which downgrades the problem to an issue.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = ""
		return nil
	}
	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if _, err := a.Float(); err == nil {
		return []byte(a), nil
	}
	return []byte(strconv.Quote(string(a))), nil
}

// Float parses the amount, returning an error for non-numeric values.
func (a Amount) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
}

// IsZero reports whether the amount is absent or zero, matching the
// required-field check's absent-or-falsy semantics.
func (a Amount) IsZero() bool {
	if strings.TrimSpace(string(a)) == "" {
		return true
	}
	f, err := a.Float()
	return err == nil && f == 0
}

// AmountFromFloat builds an Amount from a stored numeric value.
func AmountFromFloat(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', -1, 64))
}

// Issue severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Issue types.
const (
	IssueMissingData  = "missing_data"
	IssueFormatError  = "format_error"
	IssueDataError    = "data_error"
	IssueLogicalError = "logical_error"
	IssueDataWarning  = "data_warning"
)

// Issue is a single validation finding. Field is set for field-scoped
// issues; Fields is set on the aggregate missing-data issue.
type Issue struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	Message  string   `json:"message"`
}

// ValidationResult is the validator's full report for one claim.
type ValidationResult struct {
	IsValid        bool      `json:"is_valid"`
	Issues         []Issue   `json:"issues"`
	TotalIssues    int       `json:"total_issues"`
	Recommendation string    `json:"recommendation"`
	Timestamp      time.Time `json:"timestamp"`
}

// HasSeverity reports whether any issue carries the given severity.
func (r *ValidationResult) HasSeverity(severity string) bool {
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			return true
		}
	}
	return false
}

// IssuesWithSeverity returns the issues carrying the given severity.
func (r *ValidationResult) IssuesWithSeverity(severity string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}
