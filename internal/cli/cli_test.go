package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rxcheck/ddi/pkg/resolve"
)

const snapshotJSON = `{
  "drugs": [
    {"name": "Warfarin", "drug_class": "Anticoagulant"},
    {"name": "Aspirin", "drug_class": "NSAID / Antiplatelet"},
    {"name": "Ibuprofen", "drug_class": "NSAID"}
  ],
  "interactions": [
    {"drug_a": "Aspirin", "drug_b": "Warfarin", "severity": "severe", "description": "bleeding", "recommendation": "avoid"}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REASONING_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(snapshotJSON), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--snapshot", path, "--encoder", "tfidf"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "warfarin", "ASPIRIN")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	var res resolve.Assessment
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Method != resolve.MethodStaticLookup || res.Confidence != 0.95 {
		t.Fatalf("assessment = %+v", res)
	}

	out, err = run(t, "check", "Warfarin", "Ibuprofen")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, `"method": "rule_based"`) || !strings.Contains(out, `"severity": "severe"`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestCheck_Args(t *testing.T) {
	if _, err := run(t, "check", "warfarin"); err == nil {
		t.Fatalf("check with one argument should fail")
	}
}

func TestDrugs(t *testing.T) {
	out, err := run(t, "drugs")
	if err != nil {
		t.Fatalf("drugs error = %v", err)
	}
	var list struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil || list.Count != 3 {
		t.Fatalf("drugs output %q: %v", out, err)
	}

	out, err = run(t, "drugs", "Ibuprofen")
	if err != nil || !strings.Contains(out, `"drug_class": "NSAID"`) {
		t.Fatalf("drugs Ibuprofen = %q, %v", out, err)
	}

	if _, err := run(t, "drugs", "unknownium"); err == nil || !strings.Contains(err.Error(), "drug not found") {
		t.Fatalf("drugs unknownium error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "3 drugs, 1 interactions") {
		t.Fatalf("validate output %q", out)
	}
}

func TestInvalidEncoderFlag(t *testing.T) {
	if _, err := run(t, "--encoder", "bert", "validate"); err == nil {
		t.Fatalf("expected error for unknown encoder")
	}
}
