/*
Package tracker implements the gateway to the external issue tracker.

This file holds the XML side of the format variant: the issue response
decoder, the create-issue payload encoder, and the created-id decoder.
*/
package tracker

import (
	"encoding/xml"
	"time"

	"github.com/louiz/rugamia/internal/pkg/errs"
)

// Timestamp layouts: the tracker serializes UTC instants in XML mode, and
// the relay renders them in the historical display format.
const (
	xmlTimeLayout     = "2006-01-02T15:04:05Z"
	displayTimeLayout = "2006/01/02 15:04:05"
)

// xmlNamed captures elements of the form <status name="New"/>.
type xmlNamed struct {
	Name string `xml:"name,attr"`
}

type xmlIssue struct {
	XMLName   xml.Name `xml:"issue"`
	Subject   string   `xml:"subject"`
	Status    xmlNamed `xml:"status"`
	Tracker   xmlNamed `xml:"tracker"`
	Author    xmlNamed `xml:"author"`
	CreatedOn string   `xml:"created_on"`
	UpdatedOn string   `xml:"updated_on"`
}

type xmlCreateRequest struct {
	XMLName     xml.Name `xml:"issue"`
	ProjectID   int      `xml:"project_id"`
	Subject     string   `xml:"subject"`
	Description string   `xml:"description"`
}

type xmlCreateResponse struct {
	XMLName xml.Name `xml:"issue"`
	ID      int      `xml:"id"`
}

// parseIssueXML decodes an XML issue response into the normalized record,
// reformatting the timestamps for display. A response that decodes but holds
// no fields at all yields (nil, nil).
func parseIssueXML(body []byte) (*Issue, error) {
	var raw xmlIssue
	if err := xml.Unmarshal(body, &raw); err != nil {
		return nil, errs.NewError(errs.ErrTrackerDecode, err)
	}

	if raw.Subject == "" && raw.Status.Name == "" && raw.Author.Name == "" {
		return nil, nil
	}

	createdOn, err := reformatXMLTime(raw.CreatedOn)
	if err != nil {
		return nil, err
	}
	updatedOn, err := reformatXMLTime(raw.UpdatedOn)
	if err != nil {
		return nil, err
	}

	return &Issue{
		Subject:   raw.Subject,
		Status:    raw.Status.Name,
		Tracker:   raw.Tracker.Name,
		Author:    raw.Author.Name,
		CreatedOn: createdOn,
		UpdatedOn: updatedOn,
	}, nil
}

func reformatXMLTime(value string) (string, error) {
	parsed, err := time.Parse(xmlTimeLayout, value)
	if err != nil {
		return "", errs.NewError(errs.ErrTrackerDecode, err)
	}
	return parsed.Format(displayTimeLayout), nil
}

// encodeCreateXML builds the XML create-issue payload.
func encodeCreateXML(projectID int, title, description string) ([]byte, error) {
	return xml.Marshal(xmlCreateRequest{
		ProjectID:   projectID,
		Subject:     title,
		Description: description,
	})
}

// parseCreatedXML extracts the new issue id from an XML create response.
func parseCreatedXML(body []byte) (int, error) {
	var raw xmlCreateResponse
	if err := xml.Unmarshal(body, &raw); err != nil {
		return 0, errs.NewError(errs.ErrTrackerDecode, err)
	}
	if raw.ID == 0 {
		return 0, errs.NewError(errs.ErrTrackerDecode, "missing issue id")
	}
	return raw.ID, nil
}
