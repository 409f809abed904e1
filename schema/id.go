package schema

import "github.com/google/uuid"

// ID identifies a sub-entity across snapshots. It is minted once when the
// entity first appears and never changes afterwards; renaming an entity
// changes its name, not its ID.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Entity is anything that carries a stable identity.
type Entity interface {
	EntityID() ID
}
