package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)

func TestGenerateAndValidate(t *testing.T) {
	personID := id.NewPersonID()

	token, err := jwtService.GenerateAccessToken(personID, id.RoleTrainer, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, personID.String(), claims.PersonID)
	assert.Equal(t, string(id.RoleTrainer), claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(id.NewPersonID(), id.RoleMember, -time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("different-key", "test-issuer", "test-audience")
	token, err := other.GenerateAccessToken(id.NewPersonID(), id.RoleMember, time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := jwtService.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestAdapter_ConvertsClaims(t *testing.T) {
	personID := id.NewPersonID()
	token, err := jwtService.GenerateAccessToken(personID, id.RoleAdmin, time.Minute)
	require.NoError(t, err)

	adapter := NewJWTServiceAdapter(jwtService)
	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, personID, claims.PersonID)
	assert.Equal(t, id.RoleAdmin, claims.Role)
}
