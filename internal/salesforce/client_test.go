package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/sfnav/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.SalesforceConfig{
		Username:   "ops@example.com",
		APIVersion: "58.0",
	})
	require.NoError(t, err)

	client.accessToken = "session-token"
	client.instanceURL = server.URL
	return client
}

func TestQuery(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/query", r.URL.Path)
		assert.Equal(t, "SELECT Id FROM Account", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalSize": 2,
			"done": true,
			"records": [
				{"attributes": {"type": "Account"}, "Id": "001A", "NumberOfEmployees": 1200},
				{"attributes": {"type": "Account"}, "Id": "001B", "AnnualRevenue": 1.5}
			]
		}`))
	})

	result, err := client.Query(context.Background(), "SELECT Id FROM Account")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSize)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "001A", result.Records[0].ID())
	assert.Equal(t, "Account", result.Records[0].ObjectType())
	// UseNumber keeps the integer/decimal distinction.
	assert.Equal(t, json.Number("1200"), result.Records[0]["NumberOfEmployees"])
	assert.Equal(t, json.Number("1.5"), result.Records[1]["AnnualRevenue"])
}

func TestSearch_GroupedByType(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"searchRecords": [
				{"attributes": {"type": "Account"}, "Id": "001A", "Name": "Axalta"},
				{"attributes": {"type": "Contact"}, "Id": "003A", "Name": "Jane"},
				{"attributes": {"type": "Account"}, "Id": "001B", "Name": "Axalta EMEA"}
			]
		}`))
	})

	result, err := client.Search(context.Background(), `FIND {Axalta} IN ALL FIELDS RETURNING Account(Id, Name)`)
	require.NoError(t, err)
	assert.Len(t, result.SearchRecords, 3)

	accounts := result.RecordsOfType("Account")
	require.Len(t, accounts, 2)
	assert.Equal(t, "001A", accounts[0].ID())
	assert.Equal(t, "001B", accounts[1].ID())
	assert.Empty(t, result.RecordsOfType("Lead"))
}

func TestGetRecord(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/sobjects/Account/001A", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"attributes": {"type": "Account"}, "Id": "001A", "Name": "Axalta"}`))
	})

	rec, err := client.GetRecord(context.Background(), "Account", "001A")
	require.NoError(t, err)
	assert.Equal(t, "Axalta", rec.DisplayName())
}

func TestUpdateRecord(t *testing.T) {
	var gotBody map[string]interface{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/services/data/v58.0/sobjects/Account/001A", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateRecord(context.Background(), "Account", "001A", map[string]interface{}{"Phone": "555-1234"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Phone": "555-1234"}, gotBody)
}

func TestUpdateRecord_APIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`[{"errorCode": "INVALID_FIELD", "message": "No such column 'Phoney'"}]`))
	})

	err := client.UpdateRecord(context.Background(), "Account", "001A", map[string]interface{}{"Phoney": "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_FIELD", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Phoney")
}

func TestDescribeObject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/sobjects/Account/describe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Account",
			"label": "Account",
			"fields": [
				{"name": "Id", "type": "id"},
				{"name": "Name", "type": "string"},
				{"name": "ParentId", "type": "reference", "referenceTo": ["Account"]}
			],
			"childRelationships": [
				{"relationshipName": "Contacts", "childSObject": "Contact", "field": "AccountId"}
			]
		}`))
	})

	describe, err := client.DescribeObject(context.Background(), "Account")
	require.NoError(t, err)

	assert.Equal(t, "Account", describe.Name)
	assert.True(t, describe.HasField("ParentId"))
	assert.False(t, describe.HasField("Nope"))
	require.Len(t, describe.ChildRelationships, 1)
	assert.Equal(t, "AccountId", describe.ChildRelationships[0].Field)

	ref := describe.Field("ParentId")
	require.NotNil(t, ref)
	assert.Equal(t, []string{"Account"}, ref.ReferenceTo)
}

func TestListObjects(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v58.0/sobjects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sobjects": [
				{"name": "Account", "queryable": true, "createable": true},
				{"name": "AccountHistory", "queryable": true, "createable": false},
				{"name": "My_Setting__c", "customSetting": true, "queryable": true, "createable": true}
			]
		}`))
	})

	objects, err := client.ListObjects(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "Account", objects[0].Name)

	all, err := client.ListObjects(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestParseAPIError_NonJSONBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Query(context.Background(), "SELECT Id FROM Account")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}
