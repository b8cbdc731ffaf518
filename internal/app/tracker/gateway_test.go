package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiz/rugamia/internal/pkg/errs"
)

// fakeKeyStore is an in-memory stand-in for the credential store.
type fakeKeyStore struct {
	keys     map[string]string
	projects map[string]int
}

func (f *fakeKeyStore) GetKey(identity string) (string, bool) {
	key, ok := f.keys[identity]
	return key, ok
}

func (f *fakeKeyStore) GetProjectID(room string) (int, error) {
	id, ok := f.projects[room]
	if !ok {
		return 0, errs.NewError(errs.ErrNoProjectMapping, room)
	}
	return id, nil
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{
		keys:     map[string]string{"alice@example.com": "secret-key"},
		projects: map[string]int{"room@conference.example": 4},
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("xml")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, format)

	format, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestFetchIssueJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issues/42.json", r.URL.Path)
		fmt.Fprint(w, `{"issue": {
			"id": 42,
			"subject": "Crash on startup",
			"status": {"name": "New"},
			"tracker": {"name": "Bug"},
			"author": {"name": "Alice"},
			"created_on": "2013-07-30T19:45:08Z",
			"updated_on": "2013-08-01T10:00:00Z"
		}}`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	issue, err := gateway.FetchIssue(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, 42, issue.ID)
	assert.Equal(t, "Crash on startup", issue.Subject)
	assert.Equal(t, "New", issue.Status)
	assert.Equal(t, "Bug", issue.Tracker)
	assert.Equal(t, "Alice", issue.Author)
	// JSON timestamps pass through untouched.
	assert.Equal(t, "2013-07-30T19:45:08Z", issue.CreatedOn)
	assert.Equal(t, server.URL+"/issues/42", issue.URL)
}

func TestFetchIssueXMLReformatsTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issues/42.xml", r.URL.Path)
		fmt.Fprint(w, `<issue>
			<subject>Crash on startup</subject>
			<status name="New"/>
			<tracker name="Bug"/>
			<author name="Alice"/>
			<created_on>2013-07-30T19:45:08Z</created_on>
			<updated_on>2013-08-01T10:00:00Z</updated_on>
		</issue>`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatXML, newFakeKeyStore())

	issue, err := gateway.FetchIssue(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, "Crash on startup", issue.Subject)
	assert.Equal(t, "2013/07/30 19:45:08", issue.CreatedOn)
	assert.Equal(t, "2013/08/01 10:00:00", issue.UpdatedOn)
}

func TestFetchIssueNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	issue, err := gateway.FetchIssue(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, issue)

	var customErr *errs.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, errs.ErrTrackerStatus, customErr.Code)
	assert.Contains(t, customErr.Message, "404")
}

func TestFetchIssueEmptyRecordIsSilence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	issue, err := gateway.FetchIssue(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, issue, "an empty record means no reply, not an error")
}

func TestFetchIssueUndecodableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	issue, err := gateway.FetchIssue(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, issue)
}

func TestCreateIssueJSON(t *testing.T) {
	var gotKey, gotContentType string
	var gotPayload jsonCreateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/issues.json", r.URL.Path)
		gotKey = r.Header.Get("X-Redmine-API-Key")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		fmt.Fprint(w, `{"issue": {"id": 77}}`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	outcome, err := gateway.CreateIssue(context.Background(), "alice@example.com", "room@conference.example", "Bug title", "Bug body")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Bug created: %s/issues/77", server.URL), outcome)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, 4, gotPayload.Issue.ProjectID)
	assert.Equal(t, "Bug title", gotPayload.Issue.Subject)
	assert.Equal(t, "Bug body", gotPayload.Issue.Description)
}

func TestCreateIssueXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issues.xml", r.URL.Path)
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `<issue><id>78</id></issue>`)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatXML, newFakeKeyStore())

	outcome, err := gateway.CreateIssue(context.Background(), "alice@example.com", "room@conference.example", "Bug title", "Bug body")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Bug created: %s/issues/78", server.URL), outcome)
}

func TestCreateIssueWithoutKeyIsPermissionError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	_, err := gateway.CreateIssue(context.Background(), "stranger@example.com", "room@conference.example", "t", "b")
	require.Error(t, err)

	var customErr *errs.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, errs.ErrNoTrackerKey, customErr.Code)
	assert.Zero(t, requests, "no tracker call without a key")
}

func TestCreateIssueWithoutProjectMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	_, err := gateway.CreateIssue(context.Background(), "alice@example.com", "unmapped@conference.example", "t", "b")
	require.Error(t, err)

	var customErr *errs.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, errs.ErrNoProjectMapping, customErr.Code)
}

func TestCreateIssueSurfacesTrackerStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, FormatJSON, newFakeKeyStore())

	_, err := gateway.CreateIssue(context.Background(), "alice@example.com", "room@conference.example", "t", "b")
	require.Error(t, err)

	var customErr *errs.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, errs.ErrTrackerStatus, customErr.Code)
	assert.Contains(t, customErr.Message, "500")
}
