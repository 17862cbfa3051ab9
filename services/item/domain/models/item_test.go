package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/itemservice/services/item/domain"
)

func strPtr(s string) *string { return &s }

func sampleItem() Item {
	return Item{
		ID:          7,
		Name:        ItemName("Widget"),
		Description: strPtr("Blue"),
		CreatedAt:   time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewCreateInput(t *testing.T) {
	t.Run("normalizes name and keeps description", func(t *testing.T) {
		in, err := NewCreateInput("  Widget ", strPtr("Blue"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Name != "Widget" {
			t.Fatalf("expected trimmed name, got %q", in.Name)
		}
		if in.Description == nil || *in.Description != "Blue" {
			t.Fatalf("unexpected description: %v", in.Description)
		}
	})

	t.Run("nil description stays nil", func(t *testing.T) {
		in, err := NewCreateInput("Widget", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Description != nil {
			t.Fatalf("expected nil description, got %q", *in.Description)
		}
	})

	t.Run("invalid name is rejected", func(t *testing.T) {
		if _, err := NewCreateInput("", nil); !errors.Is(err, domain.ErrInvalidItemName) {
			t.Fatalf("expected ErrInvalidItemName, got %v", err)
		}
	})
}

func TestNewUpdateInput(t *testing.T) {
	t.Run("absent fields make an empty update", func(t *testing.T) {
		in, err := NewUpdateInput(Optional[string]{}, Optional[string]{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !in.IsEmpty() {
			t.Fatal("expected IsEmpty")
		}
	})

	t.Run("null name is rejected", func(t *testing.T) {
		_, err := NewUpdateInput(Null[string](), Optional[string]{})
		var fe *domain.FieldError
		if !errors.As(err, &fe) || fe.Constraint != "notnull" {
			t.Fatalf("expected notnull field error, got %v", err)
		}
	})

	t.Run("name is validated", func(t *testing.T) {
		if _, err := NewUpdateInput(Some("   "), Optional[string]{}); !errors.Is(err, domain.ErrInvalidItemName) {
			t.Fatalf("expected ErrInvalidItemName, got %v", err)
		}
	})

	t.Run("null description is a change", func(t *testing.T) {
		in, err := NewUpdateInput(Optional[string]{}, Null[string]())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.IsEmpty() {
			t.Fatal("null description must count as a change")
		}
	})
}

func TestItem_Apply(t *testing.T) {
	t.Run("only name", func(t *testing.T) {
		in, _ := NewUpdateInput(Some("Gadget"), Optional[string]{})
		got := sampleItem().Apply(in)
		if got.Name != "Gadget" {
			t.Fatalf("expected Gadget, got %q", got.Name)
		}
		if got.Description == nil || *got.Description != "Blue" {
			t.Fatalf("description must be untouched, got %v", got.Description)
		}
	})

	t.Run("only description", func(t *testing.T) {
		in, _ := NewUpdateInput(Optional[string]{}, Some("Red"))
		got := sampleItem().Apply(in)
		if got.Name != "Widget" {
			t.Fatalf("name must be untouched, got %q", got.Name)
		}
		if got.Description == nil || *got.Description != "Red" {
			t.Fatalf("expected Red, got %v", got.Description)
		}
	})

	t.Run("null description clears it", func(t *testing.T) {
		in, _ := NewUpdateInput(Optional[string]{}, Null[string]())
		if got := sampleItem().Apply(in); got.Description != nil {
			t.Fatalf("expected nil description, got %q", *got.Description)
		}
	})

	t.Run("identity fields never change", func(t *testing.T) {
		orig := sampleItem()
		in, _ := NewUpdateInput(Some("Gadget"), Some("Red"))
		got := orig.Apply(in)
		if got.ID != orig.ID || !got.CreatedAt.Equal(orig.CreatedAt) {
			t.Fatalf("id/created_at changed: %+v", got)
		}
	})

	t.Run("receiver is not mutated", func(t *testing.T) {
		orig := sampleItem()
		in, _ := NewUpdateInput(Optional[string]{}, Some("Red"))
		_ = orig.Apply(in)
		if *orig.Description != "Blue" {
			t.Fatalf("original mutated: %q", *orig.Description)
		}
	})
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Name        Optional[string] `json:"name"`
		Description Optional[string] `json:"description"`
	}

	if err := json.Unmarshal([]byte(`{"description":null}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Name.Set {
		t.Fatal("absent key must not be Set")
	}
	if !body.Description.Set || !body.Description.Null {
		t.Fatalf("explicit null must be Set and Null: %+v", body.Description)
	}

	body.Description = Optional[string]{}
	if err := json.Unmarshal([]byte(`{"name":"Widget"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Name.Set || body.Name.Null || body.Name.Value != "Widget" {
		t.Fatalf("unexpected name: %+v", body.Name)
	}
	if body.Name.Ptr() == nil || *body.Name.Ptr() != "Widget" {
		t.Fatal("Ptr must expose the value")
	}
}

func TestOptional_UnmarshalJSONTypeMismatch(t *testing.T) {
	var o Optional[string]
	if err := json.Unmarshal([]byte(`123`), &o); err == nil {
		t.Fatal("expected type error")
	}
}

func TestOptional_MarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		in   Optional[string]
		want string
	}{
		{Optional[string]{}, "null"},
		{Null[string](), "null"},
		{Some("x"), `"x"`},
	} {
		got, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}
}
