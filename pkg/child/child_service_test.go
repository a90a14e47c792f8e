package child

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChild(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a uid and defaults the timezone", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		created, err := service.CreateChild(ctx, Child{Name: "Ania"})

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "UTC", created.Settings.Timezone)
	})

	t.Run("keeps a valid timezone", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		created, err := service.CreateChild(ctx, Child{Name: "Ania", Settings: Settings{Timezone: "Europe/Warsaw"}})

		require.NoError(t, err)
		assert.Equal(t, "Europe/Warsaw", created.Settings.Timezone)
	})

	t.Run("rejects a missing name", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		_, err := service.CreateChild(ctx, Child{})

		assert.Error(t, err)
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		_, err := service.CreateChild(ctx, Child{Name: "Ania", Settings: Settings{Timezone: "Mars/Olympus"}})

		assert.Error(t, err)
	})
}

func TestUpdateChild(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		repo := NewStubChildRepo()
		service := NewChildService(repo)
		created, err := service.CreateChild(ctx, Child{Name: "Ania"})
		require.NoError(t, err)

		created.Settings.Timezone = "Not/AZone"
		_, err = service.UpdateChild(ctx, created)

		assert.Error(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		_, err := service.UpdateChild(ctx, Child{Id: 42, Name: "Ania"})

		assert.ErrorIs(t, err, ErrChildNotFound)
	})
}

func TestLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the configured timezone", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())
		created, err := service.CreateChild(ctx, Child{Name: "Ania", Settings: Settings{Timezone: "Europe/Warsaw"}})
		require.NoError(t, err)

		loc, err := service.Location(ctx, created.Id)

		require.NoError(t, err)
		assert.Equal(t, "Europe/Warsaw", loc.String())
	})

	t.Run("unknown child", func(t *testing.T) {
		service := NewChildService(NewStubChildRepo())

		_, err := service.Location(ctx, 42)

		assert.ErrorIs(t, err, ErrChildNotFound)
	})
}
