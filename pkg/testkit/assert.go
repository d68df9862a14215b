package testkit

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertHeaders checks every header listed in expectedHeaders.
func AssertHeaders(t *testing.T, scenario *Scenario, got http.Header) {
	t.Helper()
	for k, want := range scenario.ExpectedHeaders {
		assert.Equal(t, want, got.Get(k), "[%s] header %s mismatch", scenario.Name, k)
	}
}

// AssertJSONBody compares both bodies after decoding, so key order and
// whitespace do not matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", scenario.Name)
}
