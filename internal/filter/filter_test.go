package filter

import (
	"math/big"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"titulo": "Casa"}
	result, err := Apply(data, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["titulo"] != "Casa" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`{"titulo": "Casa", "id": 123}`), ".titulo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Casa" {
		t.Errorf("expected 'Casa', got %v", result)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`[{"id": 1}, {"id": 2}]`), ".[].id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := result.([]any)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected two results, got %#v", result)
	}
	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("expected [1 2], got %v", ids)
	}
}

func TestApply_NumbersKeepPrecision(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`{"id": 123456789012345678901234567890}`), ".id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bi, ok := result.(*big.Int)
	if !ok {
		t.Fatalf("expected *big.Int, got %T", result)
	}
	if bi.String() != "123456789012345678901234567890" {
		t.Errorf("precision lost: %s", bi)
	}

	result, err = ApplyFromJSON([]byte(`{"precio": 1.5}`), ".precio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 1.5 {
		t.Errorf("expected 1.5, got %v", result)
	}
}

func TestApply_ShellEscapedOperator(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`[{"estado": "activa"}, {"estado": "baja"}]`), `[.[] | select(.estado \!= "baja")] | length`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 1 {
		t.Errorf("expected 1, got %v", result)
	}
}

func TestApply_Errors(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
	if _, err := ApplyFromJSON([]byte(`{"a": 1}`), ".a.b"); err == nil {
		t.Error("expected runtime filter error")
	}
	if _, err := ApplyFromJSON([]byte(`not json`), "."); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
