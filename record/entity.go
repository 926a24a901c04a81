package record

import "time"

// Entity is a durable record the cache-aside layer can serve.
type Entity interface {
	GetID() int64
	IsDeleted() bool
}

// Audit holds the lifecycle columns shared by every entity. Embed it in the
// model struct.
type Audit struct {
	CreatedDate *time.Time `bun:"created_date" json:"createdDate,omitempty" msgpack:"created_date"`
	UpdatedDate *time.Time `bun:"updated_date" json:"updatedDate,omitempty" msgpack:"updated_date"`
	FlagDeleted bool       `bun:"flag_deleted,notnull,default:false" json:"flagDeleted" msgpack:"flag_deleted"`
}

// IsDeleted reports whether the record was soft deleted.
func (a Audit) IsDeleted() bool {
	return a.FlagDeleted
}

// MarkCreated stamps the creation time and resets the mutable audit fields.
func (a *Audit) MarkCreated(now time.Time) {
	a.CreatedDate = &now
	a.UpdatedDate = nil
	a.FlagDeleted = false
}

// Touch stamps the update time.
func (a *Audit) Touch(now time.Time) {
	a.UpdatedDate = &now
}

// SoftDelete flags the record as deleted and stamps the update time.
func (a *Audit) SoftDelete(now time.Time) {
	a.FlagDeleted = true
	a.Touch(now)
}

// Active returns the records that are not soft deleted, preserving order.
func Active[T Entity](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !item.IsDeleted() {
			out = append(out, item)
		}
	}
	return out
}
