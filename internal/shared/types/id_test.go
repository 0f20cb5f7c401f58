package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if id.IsZero() {
		t.Fatal("Expected non-zero ID")
	}

	if _, err := uuid.Parse(id.String()); err != nil {
		t.Errorf("Expected a valid UUID, got %s: %v", id, err)
	}
	if NewID() == id {
		t.Error("Expected distinct IDs")
	}
}

func TestZeroID(t *testing.T) {
	var id ID
	if !id.IsZero() {
		t.Error("Expected zero value to be zero")
	}
}
