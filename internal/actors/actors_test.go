package actors

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/provisionhq/procurehub-backend/pkg/auth"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

func TestFromClaims(t *testing.T) {
	storeID := uuid.New()
	claims := &auth.ActorTokenClaims{
		ActorID: uuid.New(),
		Model:   enums.ActorModelUser,
		Role:    enums.ActorRoleDistrictManager,
		StoreID: &storeID,
	}

	actor, err := FromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, claims.ActorID, actor.ID)
	require.Equal(t, enums.ActorRoleDistrictManager, actor.Role)
	require.NotNil(t, actor.StoreID)
}

func TestFromClaimsRejectsBadInput(t *testing.T) {
	_, err := FromClaims(nil)
	require.Error(t, err)

	_, err = FromClaims(&auth.ActorTokenClaims{
		ActorID: uuid.New(),
		Model:   enums.ActorModel("robot"),
		Role:    enums.ActorRoleAdmin,
	})
	require.Error(t, err)
}

func TestMatches(t *testing.T) {
	id := uuid.New()
	actor := Actor{ID: id, Model: enums.ActorModelUser, Role: enums.ActorRoleCorporateManager}

	require.True(t, actor.Matches(&id))

	other := uuid.New()
	require.False(t, actor.Matches(&other))
	require.False(t, actor.Matches(nil))
}

func TestMatchesRequiresUserModel(t *testing.T) {
	id := uuid.New()
	customer := Actor{ID: id, Model: enums.ActorModelCustomer, Role: enums.ActorRoleCustomer}

	// A customer sharing a uuid with a snapshotted approver is still not
	// that approver.
	require.False(t, customer.Matches(&id))

	user := Actor{ID: id, Model: enums.ActorModelUser, Role: enums.ActorRoleDistrictManager}
	require.True(t, user.Matches(&id))
}
