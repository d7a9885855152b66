package rag

import (
	"encoding/json"
	"testing"
)

func TestTurn_JSONPairFormat(t *testing.T) {
	var turns []Turn
	payload := `[["What is Helios-V?", "A heavy-lift launch vehicle."], ["Who builds it?", "Orbital Dynamics."]]`
	if err := json.Unmarshal([]byte(payload), &turns); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].User != "What is Helios-V?" || turns[0].Assistant != "A heavy-lift launch vehicle." {
		t.Errorf("first turn = %+v", turns[0])
	}

	out, err := json.Marshal(turns[1])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `["Who builds it?","Orbital Dynamics."]` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestTurn_RejectsNonArray(t *testing.T) {
	var turn Turn
	if err := json.Unmarshal([]byte(`{"user":"hi"}`), &turn); err == nil {
		t.Error("expected error for object-shaped turn")
	}
}
