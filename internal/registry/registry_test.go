package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pipewright/internal/config"
)

func TestRegisterTaskDuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterTask("lint", &RegisteredTask{})
	assert.Panics(t, func() {
		r.RegisterTask("lint", &RegisteredTask{})
	})
}

func TestRegisterKindCollisionAcrossCategoriesPanics(t *testing.T) {
	r := New()
	r.RegisterResource("server", &RegisteredResource{})
	assert.Panics(t, func() {
		r.RegisterTask("server", &RegisteredTask{})
	})
}

func TestValidate(t *testing.T) {
	r := New()
	r.RegisterTask("lint", &RegisteredTask{})
	r.RegisterResource("server", &RegisteredResource{})

	t.Run("all kinds registered", func(t *testing.T) {
		m, err := config.NewModel(nil, []*config.Task{
			{Kind: "lint", Name: "src"},
			{Kind: "server", Name: "dev"},
		}, nil)
		require.NoError(t, err)
		assert.NoError(t, r.Validate(m))
	})

	t.Run("unknown kinds reported sorted", func(t *testing.T) {
		m, err := config.NewModel(nil, []*config.Task{
			{Kind: "zeta", Name: "x"},
			{Kind: "alpha", Name: "y"},
		}, nil)
		require.NoError(t, err)

		err = r.Validate(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alpha, zeta")
	})
}
