package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"comexa/internal/core/entity"
	"comexa/internal/core/id"
)

type mockRecord struct {
	entity.BaseRecord
	Numero string `db:"numero" json:"numero"`
	Estado string `db:"estado" json:"estado"`
	Joined string `db:"joined_name" json:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockRecord]()

	expected := []string{
		"id", "deleted_at", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"numero", "estado", "joined_name",
	}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap(t *testing.T) {
	deletedAt := time.Now().UTC()
	rec := mockRecord{
		BaseRecord: entity.BaseRecord{
			BaseEntity: entity.BaseEntity{
				ID:        id.New(),
				DeletedAt: &deletedAt,
				Version:   3,
			},
			CreatedBy: "u-1",
		},
		Numero: "DESP-2025-0001",
		Estado: "presentado",
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, &deletedAt, m["deleted_at"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "u-1", m["created_by"])
	assert.Equal(t, "DESP-2025-0001", m["numero"])
	assert.Equal(t, "presentado", m["estado"])
	assert.NotContains(t, m, "NoTag")
}

func TestStructToMapPointer(t *testing.T) {
	rec := &mockRecord{Numero: "DESP-2025-0002"}
	m := StructToMap(rec)
	assert.Equal(t, "DESP-2025-0002", m["numero"])
}
