package jchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(t *testing.T, root D, path string, v any) D {
	t.Helper()
	return SetAtPath(root, MustParsePath(path), v)
}

func TestSetAtPath(t *testing.T) {
	t.Run("overwrites existing field", func(t *testing.T) {
		root := D{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
		root = set(t, root, "a", "x")
		assert.Equal(t, D{{Key: "a", Value: "x"}, {Key: "b", Value: 2}}, root)
	})

	t.Run("creates intermediate objects", func(t *testing.T) {
		root := set(t, D{}, "a.b.c", true)
		assert.Equal(t, D{{Key: "a", Value: D{{Key: "b", Value: D{{Key: "c", Value: true}}}}}}, root)
	})

	t.Run("nil root", func(t *testing.T) {
		root := set(t, nil, "a", 1)
		assert.Equal(t, D{{Key: "a", Value: 1}}, root)
	})

	t.Run("intermediate array padded with empty objects", func(t *testing.T) {
		root := set(t, D{}, "a.b[2].c", "x")
		want := D{{Key: "a", Value: D{{Key: "b", Value: A{
			D{},
			D{},
			D{{Key: "c", Value: "x"}},
		}}}}}
		assert.Equal(t, want, root)
	})

	t.Run("terminal array padded with nulls", func(t *testing.T) {
		root := set(t, D{}, "tags[2]", "x")
		assert.Equal(t, D{{Key: "tags", Value: A{nil, nil, "x"}}}, root)
	})

	t.Run("terminal index overwrites existing element", func(t *testing.T) {
		root := D{{Key: "tags", Value: A{"a", "b", "c"}}}
		root = set(t, root, "tags[1]", "B")
		assert.Equal(t, D{{Key: "tags", Value: A{"a", "B", "c"}}}, root)
	})

	t.Run("existing array element is descended into", func(t *testing.T) {
		root := D{{Key: "team", Value: D{{Key: "members", Value: A{
			D{{Key: "id", Value: ""}, {Key: "role", Value: ""}},
		}}}}}
		root = set(t, root, "team.members[0].id", "U101")
		want := D{{Key: "team", Value: D{{Key: "members", Value: A{
			D{{Key: "id", Value: "U101"}, {Key: "role", Value: ""}},
		}}}}}
		assert.Equal(t, want, root)
	})

	t.Run("scalar on the way is replaced with object", func(t *testing.T) {
		root := D{{Key: "a", Value: "scalar"}}
		root = set(t, root, "a.b", 1)
		assert.Equal(t, D{{Key: "a", Value: D{{Key: "b", Value: 1}}}}, root)
	})

	t.Run("object in place of array is replaced", func(t *testing.T) {
		root := D{{Key: "a", Value: D{{Key: "x", Value: 1}}}}
		root = set(t, root, "a[0]", "v")
		assert.Equal(t, D{{Key: "a", Value: A{"v"}}}, root)
	})

	t.Run("scalar array element replaced when descended into", func(t *testing.T) {
		root := D{{Key: "a", Value: A{"s", nil}}}
		root = set(t, root, "a[1].b", 1)
		assert.Equal(t, D{{Key: "a", Value: A{"s", D{{Key: "b", Value: 1}}}}}, root)
	})

	t.Run("padding objects are distinct", func(t *testing.T) {
		root := set(t, D{}, "a[1].x", 1)
		root = set(t, root, "a[0].y", 2)
		arr := root.Value("a").(A)
		require.Len(t, arr, 2)
		assert.Equal(t, D{{Key: "y", Value: 2}}, arr[0])
		assert.Equal(t, D{{Key: "x", Value: 1}}, arr[1])
	})

	t.Run("siblings untouched", func(t *testing.T) {
		root := D{
			{Key: "keep", Value: D{{Key: "me", Value: 1}}},
			{Key: "edit", Value: D{{Key: "x", Value: 1}, {Key: "y", Value: 2}}},
		}
		root = set(t, root, "edit.y", 3)
		assert.Equal(t, D{{Key: "me", Value: 1}}, root.Value("keep"))
		assert.Equal(t, D{{Key: "x", Value: 1}, {Key: "y", Value: 3}}, root.Value("edit"))
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		root := D{{Key: "a", Value: 1}}
		assert.Equal(t, root, SetAtPath(root, nil, 2))
	})
}
