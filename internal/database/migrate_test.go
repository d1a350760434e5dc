package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizmohub_back_end/internal/database"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/testutil"
	"gizmohub_back_end/internal/utils"
)

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.SeedAdmin(db, "admin", "admin123", "Store Admin"))
	require.NoError(t, database.SeedAdmin(db, "admin", "changed", "Someone Else"))

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "Store Admin", admins[0].FullName)
	assert.True(t, utils.IsArgon2Hash(admins[0].Password))
	assert.NotEqual(t, "admin123", admins[0].Password)
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.SeedAdmin(db, "", "", ""))

	var n int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.Migrate(db))

	for _, table := range []string{"products", "categories", "brands", "customers", "admins", "cart", "orders", "order_items", "payments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
