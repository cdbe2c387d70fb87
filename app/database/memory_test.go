package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"maplewood-records/app/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := models.StudentRecord{Name: "Ann K.", Progress: "on track", CreatedBy: "t1", LastUpdated: 42}
	require.NoError(t, store.Set(ctx, StudentPath("5", "A", "Ann_K_"), rec))

	var got models.StudentRecord
	require.NoError(t, store.Get(ctx, StudentPath("5", "A", "Ann_K_"), &got))
	require.Equal(t, rec, got)
}

func TestMemoryStoreMissingPathReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var got map[string]models.StudentRecord
	require.NoError(t, store.Get(ctx, SectionPath("5", "A"), &got))
	require.Empty(t, got)
}

func TestMemoryStoreSetReplacesSubtree(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	path := StudentPath("5", "A", "Ann_K_")

	first := models.StudentRecord{Name: "Ann K.", Notes: "keep an eye on reading", SpecialNeeds: "none"}
	require.NoError(t, store.Set(ctx, path, first))

	// Second write omits the earlier fields; they must not survive.
	second := models.StudentRecord{Name: "Ann K."}
	require.NoError(t, store.Set(ctx, path, second))

	var got models.StudentRecord
	require.NoError(t, store.Get(ctx, path, &got))
	require.Empty(t, got.Notes)
	require.Empty(t, got.SpecialNeeds)
}

func TestMemoryStoreReadsIntermediateLevels(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, StudentPath("5", "A", "Ann_K_"), models.StudentRecord{Name: "Ann K."}))
	require.NoError(t, store.Set(ctx, StudentPath("6", "B", "Bob_"), models.StudentRecord{Name: "Bob!"}))

	var tree map[string]map[string]map[string]models.StudentRecord
	require.NoError(t, store.Get(ctx, ClassesRoot, &tree))
	require.Len(t, tree, 2)
	require.Equal(t, "Ann K.", tree["5"]["A"]["Ann_K_"].Name)
}
