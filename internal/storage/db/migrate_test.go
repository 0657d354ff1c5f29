package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
)

func TestMigrationResultApplied(t *testing.T) {
	assert.True(t, db.MigrationResult{From: 0, To: 1}.Applied())
	assert.False(t, db.MigrationResult{From: 1, To: 1}.Applied())
}
