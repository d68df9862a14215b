package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// Run executes the scenario at scenarioPath against handler as a subtest.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir runs every scenario in dir as a subtest, in file-name order.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}
}

// Do fires the scenario's request and returns the recorded response without
// asserting anything.
func Do(t *testing.T, handler http.Handler, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, body)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	rec := Do(t, handler, s)

	AssertStatusCode(t, s, rec.Code)
	AssertHeaders(t, s, rec.Header())

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
			return
		}
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}
}
