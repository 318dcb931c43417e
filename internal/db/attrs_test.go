package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	require.NoError(t, store.AddAttr(ctx, "/docs/a.txt", "owner", "alice"))
	require.NoError(t, store.AddAttr(ctx, "/docs/a.txt", "class", "public"))

	v, err := store.GetAttr(ctx, "/docs/a.txt", "owner")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	attrs, err := store.ListAttrs(ctx, "/docs/a.txt")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "class", attrs[0].Name)
	assert.Equal(t, "owner", attrs[1].Name)
	assert.Equal(t, int64(3), attrs[0].Inode)

	none, err := store.ListAttrs(ctx, "/readme")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAttributesAreCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	require.NoError(t, store.AddAttr(ctx, "/readme", "owner", "alice"))
	err := store.AddAttr(ctx, "/readme", "owner", "bob")
	assert.ErrorIs(t, err, ErrDuplicateAttribute)

	v, err := store.GetAttr(ctx, "/readme", "owner")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}

func TestAttributesMissing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedTree(t, store)

	assert.ErrorIs(t, store.AddAttr(ctx, "/ghost", "owner", "x"), ErrNotFound)

	_, err := store.GetAttr(ctx, "/readme", "owner")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.AddAttr(ctx, "/readme", "", "x"))
}
