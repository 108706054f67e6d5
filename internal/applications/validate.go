package applications

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	msgJobTitleRequired = "Job title is required"
	msgJobTitleEmpty    = "Job title cannot be empty"
	msgCompanyRequired  = "Company is required"
	msgCompanyEmpty     = "Company cannot be empty"
	msgSourceURLInvalid = "Source URL must be a valid URL"
	msgStatusInvalid    = "Status must be one of Applied, Interviewing, Offer, Rejected"
)

const maxURLLength = 2083

var validate = validator.New()

var allowedSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

var statusRule = func() string {
	names := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		names = append(names, string(s))
	}
	return "oneof=" + strings.Join(names, " ")
}()

// ValidateCreate checks a create request and returns every violation found.
func ValidateCreate(in CreateInput) []Violation {
	var out []Violation
	if strings.TrimSpace(in.JobTitle) == "" {
		out = append(out, Violation{Field: "jobTitle", Message: msgJobTitleRequired})
	}
	if strings.TrimSpace(in.Company) == "" {
		out = append(out, Violation{Field: "company", Message: msgCompanyRequired})
	}
	out = appendOptional(out, in.SourceURL, in.Status)
	return out
}

// ValidateUpdate checks only the fields present in a partial update.
func ValidateUpdate(in UpdateInput) []Violation {
	var out []Violation
	if in.JobTitle != nil && strings.TrimSpace(*in.JobTitle) == "" {
		out = append(out, Violation{Field: "jobTitle", Message: msgJobTitleEmpty})
	}
	if in.Company != nil && strings.TrimSpace(*in.Company) == "" {
		out = append(out, Violation{Field: "company", Message: msgCompanyEmpty})
	}
	out = appendOptional(out, in.SourceURL, in.Status)
	return out
}

// Empty strings for optional fields mean "no value" and are not checked.
func appendOptional(out []Violation, sourceURL, status *string) []Violation {
	if sourceURL != nil {
		if v := strings.TrimSpace(*sourceURL); v != "" && !validURL(v) {
			out = append(out, Violation{Field: "sourceUrl", Message: msgSourceURLInvalid})
		}
	}
	if status != nil {
		if v := strings.TrimSpace(*status); v != "" && validate.Var(v, statusRule) != nil {
			out = append(out, Violation{Field: "status", Message: msgStatusInvalid})
		}
	}
	return out
}

// validURL accepts http, https and ftp URLs whose host is a domain with a
// top-level label or an IP address. The scheme may be omitted.
func validURL(raw string) bool {
	if len(raw) > maxURLLength || strings.HasPrefix(raw, "//") {
		return false
	}
	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 || strings.ContainsAny(raw, "<>") {
		return false
	}

	target := raw
	if scheme, _, ok := strings.Cut(raw, "://"); ok {
		if !allowedSchemes[strings.ToLower(scheme)] {
			return false
		}
	} else {
		target = "http://" + raw
	}

	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return false
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return false
		}
	}
	return validate.Var(u.Hostname(), "fqdn|ip") == nil
}
