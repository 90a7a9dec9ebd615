package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_SelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), Options{Addr: mr.Addr(), DB: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "loanledger:probe", "1", 0).Err())
	got, err := mr.DB(2).Get("loanledger:probe")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.False(t, mr.Exists("loanledger:probe"), "db 0 must stay empty")
}

func TestOpenRedis_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := OpenRedis(context.Background(), Options{Addr: mr.Addr()})
	assert.Error(t, err)

	c, err := OpenRedis(context.Background(), Options{Addr: mr.Addr(), Password: "s3cret"})
	require.NoError(t, err)
	_ = c.Close()
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), Options{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping "+addr)
}
