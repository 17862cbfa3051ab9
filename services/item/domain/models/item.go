package models

import (
	"time"

	"github.com/ghuser/itemservice/services/item/domain"
)

// Item is the core aggregate for this bounded context. ID and CreatedAt are
// assigned by the store on insert and never change afterwards.
//
// Revision starts at 1 and grows by one on every committed write. Caches
// and event consumers use it to tell a newer copy from an older one.
type Item struct {
	ID          int64
	Name        ItemName
	Description *string
	CreatedAt   time.Time
	Revision    int64
}

// CreateInput is a validated request to create an Item.
type CreateInput struct {
	Name        ItemName
	Description *string
}

// NewCreateInput validates name and pairs it with description.
func NewCreateInput(name string, description *string) (CreateInput, error) {
	n, err := NewItemName(name)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{Name: n, Description: description}, nil
}

// UpdateInput is a validated partial update. Only Set fields are applied;
// a null Description clears it. Name is never null.
type UpdateInput struct {
	Name        Optional[ItemName]
	Description Optional[string]
}

// NewUpdateInput validates a partial update. An explicit null name is
// rejected because name is a required column.
func NewUpdateInput(name Optional[string], description Optional[string]) (UpdateInput, error) {
	in := UpdateInput{Description: description}
	if name.Set {
		if name.Null {
			return UpdateInput{}, &domain.FieldError{
				Field:      "name",
				Constraint: "notnull",
				Message:    "This field is required",
				Err:        domain.ErrInvalidItemName,
			}
		}
		n, err := NewItemName(name.Value)
		if err != nil {
			return UpdateInput{}, err
		}
		in.Name = Some(n)
	}
	return in, nil
}

// IsEmpty reports whether the update touches no field.
func (in UpdateInput) IsEmpty() bool {
	return !in.Name.Set && !in.Description.Set
}

// Apply returns a copy of i with every Set field of in merged over it.
func (i Item) Apply(in UpdateInput) Item {
	if in.Name.Set && !in.Name.Null {
		i.Name = in.Name.Value
	}
	if in.Description.Set {
		i.Description = in.Description.Ptr()
	}
	return i
}
