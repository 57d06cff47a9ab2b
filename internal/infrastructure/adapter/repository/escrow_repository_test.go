package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

// dryRunDB builds a gorm handle that renders SQL without touching a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestEscrowListQuery(t *testing.T) {
	t.Run("orders by creation time with id tiebreak", func(t *testing.T) {
		var ms []model.Escrow
		stmt := escrowListQuery(dryRunDB(t), persistence.EscrowFilter{}).Find(&ms).Statement

		assert.Contains(t, stmt.SQL.String(), "ORDER BY created_at DESC, id DESC")
	})

	t.Run("applies filters", func(t *testing.T) {
		status := entity.EscrowActive
		buyerID := uuid.New()

		var ms []model.Escrow
		stmt := escrowListQuery(dryRunDB(t), persistence.EscrowFilter{
			Status:  &status,
			BuyerID: &buyerID,
		}).Find(&ms).Statement

		sql := stmt.SQL.String()
		assert.Contains(t, sql, "status = ")
		assert.Contains(t, sql, "buyer_id = ")
		assert.Contains(t, stmt.Vars, "ACTIVE")
		assert.Contains(t, stmt.Vars, buyerID)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		var ms []model.Escrow
		stmt := escrowListQuery(dryRunDB(t), persistence.EscrowFilter{
			Page:  3,
			Limit: 500,
		}).Find(&ms).Statement

		assert.Contains(t, stmt.Vars, maxPageLimit)
		assert.Contains(t, stmt.Vars, 2*maxPageLimit)
	})

	t.Run("defaults page and limit", func(t *testing.T) {
		var ms []model.Escrow
		stmt := escrowListQuery(dryRunDB(t), persistence.EscrowFilter{}).Find(&ms).Statement

		assert.Contains(t, stmt.Vars, defaultPageLimit)
		assert.NotContains(t, stmt.SQL.String(), "OFFSET")
	})
}
