// Package testkit drives HTTP handler tests from JSON scenario files.
//
// A scenario names one request and what the handler must answer:
//
//	testdata/
//	  user_found.json       ← scenario
//	  user_found_res.json   ← expected response body
//
//	{
//	  "name": "user found",
//	  "requestMethod": "GET",
//	  "requestUrl": "/users/foo",
//	  "expectedCode": 200,
//	  "responseFileName": "user_found_res.json"
//	}
//
// Run the whole directory from a test:
//
//	testkit.RunDir(t, handler, "testdata")
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario describes a single request/response test case.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"`
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int               `json:"expectedCode"`
	ResponseFileName string            `json:"responseFileName"`
	ExpectedHeaders  map[string]string `json:"expectedHeaders"`

	dir string
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	return nil
}

// RequestBodyPath resolves RequestFileName against the scenario's directory.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath resolves ResponseFileName against the scenario's directory.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// isScenarioFile skips companion body files named *_req.json or *_res.json.
func isScenarioFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	return !strings.HasSuffix(base, "_req") && !strings.HasSuffix(base, "_res")
}

// LoadAllFromDir loads every scenario file in dir. Parse failures are
// collected, not fatal.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, []error{fmt.Errorf("testkit: glob %q: %w", dir, err)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if !isScenarioFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("testkit: no scenario files found in %q", dir))
	}
	return scenarios, errs
}
