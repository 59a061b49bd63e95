package core

import (
	"fmt"

	"github.com/aretw0/tablet/pkg/codec"
)

// Entity is a record that can be stored in a table.
// An id of 0 marks a transient entity that has never been written.
type Entity interface {
	RecordID() int64
	AssignID(id int64)
	// Fields returns the mapping form of the entity, id included, in file order.
	Fields() codec.Fields
}

// Schema binds an entity type to its table directory name and its decoder.
type Schema[E Entity] struct {
	// Name is the directory holding the table, relative to the base directory.
	Name string
	// Decode builds an entity from a decoded record mapping.
	Decode func(fields map[string]any) (E, error)
}

// EventType represents the type of change in a table.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to one record file.
type Event struct {
	Type      EventType
	ID        int64
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %d", e.Type, e.ID)
}
