package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Info  map[string]any `json:"info"`
		Paths map[string]map[string]struct {
			Responses map[string]any `json:"responses"`
		} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if doc.Info["title"] != "Job Board API" {
		t.Fatalf("title = %v", doc.Info["title"])
	}
	apply := doc.Paths["/jobs/{id}/applications"]["post"]
	for _, code := range []string{"200", "201", "400", "404", "409", "503"} {
		if _, ok := apply.Responses[code]; !ok {
			t.Fatalf("apply operation missing %s response", code)
		}
	}
}
