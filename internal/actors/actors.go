package actors

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/provisionhq/procurehub-backend/pkg/auth"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// Actor is the discriminated principal acting on a request: a customer or a
// staff user, identified by both id and model tag so the two id spaces never
// mix. The role drives tier authorization; the id snapshot on the request is
// still re-checked for DM/CM tiers.
type Actor struct {
	ID      uuid.UUID
	Model   enums.ActorModel
	Role    enums.ActorRole
	StoreID *uuid.UUID
}

// FromClaims builds an actor from validated token claims.
func FromClaims(claims *auth.ActorTokenClaims) (Actor, error) {
	if claims == nil {
		return Actor{}, fmt.Errorf("claims required")
	}
	if claims.ActorID == uuid.Nil {
		return Actor{}, fmt.Errorf("actor id required")
	}
	if !claims.Model.IsValid() {
		return Actor{}, fmt.Errorf("invalid actor model %q", claims.Model)
	}
	if !claims.Role.IsValid() {
		return Actor{}, fmt.Errorf("invalid actor role %q", claims.Role)
	}
	return Actor{
		ID:      claims.ActorID,
		Model:   claims.Model,
		Role:    claims.Role,
		StoreID: claims.StoreID,
	}, nil
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.ActorRoleAdmin
}

// IsCustomer reports whether the actor is a customer principal.
func (a Actor) IsCustomer() bool {
	return a.Model == enums.ActorModelCustomer
}

// Matches reports whether the actor is the given snapshotted user id.
// Approver snapshots hold user ids, so only user-model actors can match; a
// customer sharing the uuid lives in a different id space. A nil snapshot
// never matches.
func (a Actor) Matches(id *uuid.UUID) bool {
	return id != nil && a.Model == enums.ActorModelUser && *id == a.ID
}

// Ref renders "model:id" for audit fields and event payloads.
func (a Actor) Ref() string {
	return fmt.Sprintf("%s:%s", a.Model, a.ID)
}
