/*
Package tracker implements the gateway to the external issue tracker.

This file holds the JSON side of the format variant. JSON responses carry
timestamps as opaque strings, passed through to the display untouched.
*/
package tracker

import (
	"encoding/json"

	"github.com/louiz/rugamia/internal/pkg/errs"
)

type jsonNamed struct {
	Name string `json:"name"`
}

type jsonIssue struct {
	ID        int       `json:"id"`
	Subject   string    `json:"subject"`
	Status    jsonNamed `json:"status"`
	Tracker   jsonNamed `json:"tracker"`
	Author    jsonNamed `json:"author"`
	CreatedOn string    `json:"created_on"`
	UpdatedOn string    `json:"updated_on"`
}

type jsonIssueEnvelope struct {
	Issue jsonIssue `json:"issue"`
}

type jsonCreateRequest struct {
	Issue jsonCreateIssue `json:"issue"`
}

type jsonCreateIssue struct {
	ProjectID   int    `json:"project_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// parseIssueJSON decodes a JSON issue response into the normalized record.
// A response that decodes but holds no fields at all yields (nil, nil).
func parseIssueJSON(body []byte) (*Issue, error) {
	var raw jsonIssueEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errs.NewError(errs.ErrTrackerDecode, err)
	}

	issue := raw.Issue
	if issue.Subject == "" && issue.Status.Name == "" && issue.Author.Name == "" {
		return nil, nil
	}

	return &Issue{
		Subject:   issue.Subject,
		Status:    issue.Status.Name,
		Tracker:   issue.Tracker.Name,
		Author:    issue.Author.Name,
		CreatedOn: issue.CreatedOn,
		UpdatedOn: issue.UpdatedOn,
	}, nil
}

// encodeCreateJSON builds the JSON create-issue payload.
func encodeCreateJSON(projectID int, title, description string) ([]byte, error) {
	return json.Marshal(jsonCreateRequest{
		Issue: jsonCreateIssue{
			ProjectID:   projectID,
			Subject:     title,
			Description: description,
		},
	})
}

// parseCreatedJSON extracts the new issue id from a JSON create response.
func parseCreatedJSON(body []byte) (int, error) {
	var raw jsonIssueEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, errs.NewError(errs.ErrTrackerDecode, err)
	}
	if raw.Issue.ID == 0 {
		return 0, errs.NewError(errs.ErrTrackerDecode, "missing issue id")
	}
	return raw.Issue.ID, nil
}
