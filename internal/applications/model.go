package applications

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
)

// Statuses lists the accepted status values in display order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// Application is a tracked job application.
type Application struct {
	ID          string    `json:"id"`
	JobTitle    string    `json:"jobTitle"`
	Company     string    `json:"company"`
	Description *string   `json:"description"`
	SourceURL   *string   `json:"sourceUrl"`
	Status      *Status   `json:"status"`
	Industry    *string   `json:"industry"`
	DateApplied time.Time `json:"dateApplied"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the writable fields of a new application.
type CreateInput struct {
	JobTitle    string  `json:"jobTitle"`
	Company     string  `json:"company"`
	Description *string `json:"description"`
	SourceURL   *string `json:"sourceUrl"`
	Status      *string `json:"status"`
	Industry    *string `json:"industry"`
}

// UpdateInput carries a partial update. Nil fields are left untouched; an
// explicit JSON null decodes as an empty value, which clears optional fields.
type UpdateInput struct {
	JobTitle    *string `json:"jobTitle"`
	Company     *string `json:"company"`
	Description *string `json:"description"`
	SourceURL   *string `json:"sourceUrl"`
	Status      *string `json:"status"`
	Industry    *string `json:"industry"`
}

func (in *UpdateInput) UnmarshalJSON(data []byte) error {
	type plain UpdateInput
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, dst := range map[string]**string{
		"jobTitle":    &decoded.JobTitle,
		"company":     &decoded.Company,
		"description": &decoded.Description,
		"sourceUrl":   &decoded.SourceURL,
		"status":      &decoded.Status,
		"industry":    &decoded.Industry,
	} {
		if v, ok := raw[key]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			*dst = new(string)
		}
	}
	*in = UpdateInput(decoded)
	return nil
}

// Patch is the persistence-level form of an update. A non-nil pointer to an
// empty optional value clears the column.
type Patch struct {
	JobTitle    *string
	Company     *string
	Description *string
	SourceURL   *string
	Status      *string
	Industry    *string
}

// Apply overwrites the supplied fields of app.
func (p Patch) Apply(app *Application) {
	if p.JobTitle != nil {
		app.JobTitle = *p.JobTitle
	}
	if p.Company != nil {
		app.Company = *p.Company
	}
	if p.Description != nil {
		app.Description = optional(*p.Description)
	}
	if p.SourceURL != nil {
		app.SourceURL = optional(*p.SourceURL)
	}
	if p.Status != nil {
		app.Status = optionalStatus(*p.Status)
	}
	if p.Industry != nil {
		app.Industry = optional(*p.Industry)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	v := value
	return &v
}

func optionalStatus(value string) *Status {
	if value == "" {
		return nil
	}
	s := Status(value)
	return &s
}
