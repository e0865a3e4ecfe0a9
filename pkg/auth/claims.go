package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// ActorTokenPayload captures the data available when minting a JWT.
type ActorTokenPayload struct {
	ActorID uuid.UUID
	Model   enums.ActorModel
	Role    enums.ActorRole
	StoreID *uuid.UUID
}

// ActorTokenClaims represents the typed JWT presented by clients. The token
// is the opaque actor descriptor issued by the identity platform; this
// service only verifies and decodes it.
type ActorTokenClaims struct {
	ActorID uuid.UUID        `json:"actor_id"`
	Model   enums.ActorModel `json:"actor_model"`
	Role    enums.ActorRole  `json:"role"`
	StoreID *uuid.UUID       `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
