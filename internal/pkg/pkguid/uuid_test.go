package pkguid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerateVersion7(t *testing.T) {
	id := NewUUID().Generate()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.True(t, IsUUID(id))
}

func TestIsUUID(t *testing.T) {
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
	assert.True(t, IsUUID("123e4567-e89b-12d3-a456-426614174000"))
}

func TestFuncAdapters(t *testing.T) {
	var s StringID = StringFunc(func() string { return "fixed" })
	var n NumberID = NumberFunc(func() int64 { return 42 })

	assert.Equal(t, "fixed", s.Generate())
	assert.Equal(t, int64(42), n.Generate())
}
