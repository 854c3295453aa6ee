package mock

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/portal/api"
)

func TestTable_ListEnvelope(t *testing.T) {
	server := NewHTTPTestServer()
	defer server.Close()
	server.Grant("A1", "alice")
	server.Services.Put(1, &api.Service{ID: 1, Name: "Cleaning", Price: "10"})
	server.Services.Put(2, &api.Service{ID: 2, Name: "Repair", Price: "20"})

	var testCases = []struct {
		description string
		query       string
		expect      string
	}{
		{description: "bare list", expect: `[{"id":1,"name":"Cleaning","price":"10"},{"id":2,"name":"Repair","price":"20"}]`},
		{description: "paginated envelope", query: "?page=1", expect: `{"count":2,"next":null,"previous":null,"results":[{"id":1,"name":"Cleaning","price":"10"},{"id":2,"name":"Repair","price":"20"}]}`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, server.URL+"/services/"+testCase.query, nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer A1")
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var actual json.RawMessage
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&actual))
			assert.JSONEq(t, testCase.expect, string(actual))
		})
	}
}
