package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", jwt.RoleBodeguero, "inventario-stock", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", "inventario-stock", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, jwt.RoleBodeguero, role)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", jwt.RoleAdmin, "inventario-stock", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", "inventario-stock", token)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = jwt.Parse("secreto", "otro-emisor", token)
	assert.Error(t, err, "emisor distinto")

	expired, err := jwt.Generate("secreto", "user-1", jwt.RoleAdmin, "inventario-stock", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse("secreto", "inventario-stock", expired)
	assert.Error(t, err, "expirado")

	_, err = jwt.Generate("", "user-1", jwt.RoleAdmin, "x", 5)
	assert.Error(t, err)
}
