package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

const testAPIKey = "owm-key-0123456789"

func TestSecretString_Formatting(t *testing.T) {
	s := SecretString(testAPIKey)

	for _, verb := range []string{"%s", "%v", "%+v", "%#v"} {
		out := fmt.Sprintf(verb, s)
		if strings.Contains(out, testAPIKey) {
			t.Errorf("fmt verb %s leaked the secret: %q", verb, out)
		}
	}
}

func TestSecretString_JSONInStruct(t *testing.T) {
	cfg := struct {
		Key SecretString `json:"key"`
	}{Key: SecretString(testAPIKey)}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if strings.Contains(string(data), testAPIKey) {
		t.Errorf("JSON leaked the secret: %s", data)
	}
	if string(data) != `{"key":"***REDACTED***"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestSecretString_SlogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("loaded", "api_key", SecretString(testAPIKey))

	if strings.Contains(buf.String(), testAPIKey) {
		t.Errorf("slog output leaked the secret: %s", buf.String())
	}
}

func TestSecretString_Unmask(t *testing.T) {
	s := SecretString(testAPIKey)
	if s.Unmask() != testAPIKey {
		t.Errorf("Unmask() = %q, want %q", s.Unmask(), testAPIKey)
	}
	if s.IsZero() {
		t.Error("IsZero() = true for a configured secret")
	}
	if !SecretString("").IsZero() {
		t.Error("IsZero() = false for an empty secret")
	}
}
