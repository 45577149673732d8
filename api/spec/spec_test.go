package spec

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOpenAPIDocumentParses(t *testing.T) {
	var doc struct {
		OpenAPI string                    `yaml:"openapi"`
		Paths   map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(OpenAPI, &doc); err != nil {
		t.Fatalf("parse openapi.yaml: %v", err)
	}
	if doc.OpenAPI == "" {
		t.Fatal("openapi version missing")
	}
	want := map[string]string{
		"/v1/artists":                       "post",
		"/v1/works":                         "post",
		"/v1/works/{tokenID}/owner":         "get",
		"/v1/collaborations":                "post",
		"/v1/royalties/distribute":          "post",
		"/v1/events/{id}/tickets":           "post",
		"/v1/agreements/approve":            "post",
		"/v1/withdrawals":                   "post",
		"/v1/credits/reclaim":               "post",
		"/v1/stream":                        "get",
		"/v1/auth/token":                    "post",
		"/v1/balances/{identity}":           "get",
		"/v1/collaborations/{id}/finalize":  "post",
	}
	for path, method := range want {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Fatalf("path %s missing", path)
		}
		if _, ok := ops[method]; !ok {
			t.Fatalf("%s %s missing", method, path)
		}
	}
}
