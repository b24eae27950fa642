package document

import "time"

// Document is the record kept by the registry. ID and CreatedAt are assigned
// by the store on insert and never change afterwards.
type Document struct {
	ID          string     `json:"id" bson:"_id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Clone returns a deep copy so callers never share the stored record.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	if d.UpdatedAt != nil {
		t := *d.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}
