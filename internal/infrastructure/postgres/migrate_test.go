package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-stock/pkg/config"
)

// Requiere una base real: DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func TestMigrate_IdempotenteYRepositorio(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(pool, zerolog.Nop()))
	require.NoError(t, postgres.Migrate(pool, zerolog.Nop()), "segunda corrida sin cambios")

	repo := postgres.NewWarehouseRepository(pool)
	id := uuid.New().String()
	w := &entity.Warehouse{ID: id, Code: "T-" + id[:8], Name: "Bodega de prueba"}
	require.NoError(t, repo.Create(ctx, w))
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), "DELETE FROM warehouses WHERE id = $1", id) })

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.Code, got.Code)
}
