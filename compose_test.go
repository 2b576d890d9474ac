package jchain

import (
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	out, err := Marshal(v)
	require.NoError(t, err, spew.Sdump(v))
	return string(out)
}

func TestCompose(t *testing.T) {
	t.Run("end to end chained id", func(t *testing.T) {
		base := unmarshalDoc(`{"team":{"members":[{"id":"","role":""}]}}`)
		mods := unmarshalDoc(`{"team.members[0].id":"$[userResponse].users[0].id"}`)

		got, err := Compose(base, mods, WithRawSource("userResponse", []byte(`{"users":[{"id":"U101"}]}`)))
		require.NoError(t, err)
		assert.Equal(t, `{"team":{"members":[{"id":"U101","role":""}]}}`, mustJSON(t, got))
	})

	t.Run("literal application leaves other branches untouched", func(t *testing.T) {
		base := unmarshalDoc(`{"category":{"id":"{{static}}","name":"{{static}}"},"tags":[{"name":"Fiction","count":5}],"active":true}`)
		mods := unmarshalDoc(`{"category.id":102,"category.name":"Books"}`)

		got, err := Compose(base, mods)
		require.NoError(t, err)
		assert.Equal(t, `{"category":{"id":102,"name":"Books"},"tags":[{"name":"Fiction","count":5}],"active":true}`, mustJSON(t, got))
	})

	t.Run("array growth against empty base", func(t *testing.T) {
		got, err := Compose(D{}, D{{Key: "a.b[2].c", Value: "x"}})
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":[{},{},{"c":"x"}]}}`, mustJSON(t, got))
	})

	t.Run("named source wins over history", func(t *testing.T) {
		got, err := Compose(D{}, D{{Key: "v", Value: "$[r1].x.y"}},
			WithSource("r1", unmarshalDoc(`{"x":{"y":5}}`)),
			WithHistory(unmarshalDoc(`{"x":{"y":9}}`)),
		)
		require.NoError(t, err)
		assert.Equal(t, Number("5"), got.Value("v"))
	})

	t.Run("unnamed reference falls back to prior payload", func(t *testing.T) {
		got, err := Compose(D{}, D{{Key: "count", Value: "%team.total"}},
			WithSource("r1", unmarshalDoc(`{"x":{"y":5}}`)),
			WithHistory(unmarshalDoc(`{"team":{"total":7}}`)),
		)
		require.NoError(t, err)
		assert.Equal(t, Number("7"), got.Value("count"))
	})

	t.Run("unresolved reference writes null without error", func(t *testing.T) {
		var seen []UnresolvedReference
		got, err := Compose(
			unmarshalDoc(`{"user":{"id":"placeholder"}}`),
			D{{Key: "user.id", Value: "$[missing].id"}, {Key: "user.token", Value: "%auth.token"}},
			WithUnresolvedHandler(func(u UnresolvedReference) { seen = append(seen, u) }),
		)
		require.NoError(t, err)
		assert.Equal(t, `{"user":{"id":null,"token":null}}`, mustJSON(t, got))
		assert.Equal(t, []UnresolvedReference{
			{Path: "user.id", Reference: "$[missing].id"},
			{Path: "user.token", Reference: "%auth.token"},
		}, seen)
	})

	t.Run("composing twice is byte identical", func(t *testing.T) {
		base := unmarshalDoc(`{"a":{"list":[1,2]},"b":"x"}`)
		mods := unmarshalDoc(`{"a.list[4]":"$[src].v","c.d[1].e":"%v","b":{"nested":true}}`)
		c, err := NewComposer(WithSource("src", unmarshalDoc(`{"v":{"deep":[1]}}`)))
		require.NoError(t, err)

		first, err := c.Compose(base, mods)
		require.NoError(t, err)
		second, err := c.Compose(base, mods)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Compose(...): -first, +second:\n%s", diff)
		}
		assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
		assert.Equal(t, `{"a":{"list":[1,2]},"b":"x"}`, mustJSON(t, base))
	})

	t.Run("rules apply in declaration order, last write wins", func(t *testing.T) {
		got, err := Compose(D{}, D{
			{Key: "a", Value: 1},
			{Key: "a.b", Value: 2},
			{Key: "list[1]", Value: "x"},
			{Key: "list[0].y", Value: "z"},
		})
		require.NoError(t, err)
		assert.Equal(t, `{"a":{"b":2},"list":[{"y":"z"},"x"]}`, mustJSON(t, got))
	})

	t.Run("resolved values are copies", func(t *testing.T) {
		src := unmarshalDoc(`{"obj":{"k":"v"}}`)
		got, err := Compose(D{}, D{
			{Key: "copy", Value: "$[src].obj"},
			{Key: "copy.k", Value: "changed"},
		}, WithSource("src", src))
		require.NoError(t, err)
		assert.Equal(t, `{"copy":{"k":"changed"}}`, mustJSON(t, got))
		assert.Equal(t, `{"obj":{"k":"v"}}`, mustJSON(t, src))
	})

	t.Run("literal values are copies", func(t *testing.T) {
		mods := D{{Key: "o", Value: D{{Key: "k", Value: "v"}}}, {Key: "o.k", Value: "changed"}}
		_, err := Compose(D{}, mods)
		require.NoError(t, err)
		assert.Equal(t, D{{Key: "k", Value: "v"}}, mods[0].Value)
	})

	t.Run("plain map base", func(t *testing.T) {
		got, err := Compose(map[string]any{"b": 1, "a": 2}, D{{Key: "c", Value: 3}})
		require.NoError(t, err)
		assert.Equal(t, `{"a":2,"b":1,"c":3}`, mustJSON(t, got))
	})

	t.Run("non object base returns error", func(t *testing.T) {
		for _, base := range []any{nil, A{}, "x", Number("1")} {
			_, err := Compose(base, D{{Key: "a", Value: 1}})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotObject)
		}
	})

	t.Run("invalid path fails whole composition", func(t *testing.T) {
		got, err := Compose(D{}, D{{Key: "ok", Value: 1}, {Key: "bad..path", Value: 2}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPath)
		assert.Contains(t, err.Error(), `rule "bad..path"`)
		assert.Nil(t, got)
	})

	t.Run("malformed reference written literally unless strict", func(t *testing.T) {
		mods := D{{Key: "a", Value: "$[oops"}}
		got, err := Compose(D{}, mods)
		require.NoError(t, err)
		assert.Equal(t, "$[oops", got.Value("a"))

		_, err = Compose(D{}, mods, WithStrictReferences())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("concurrent compose on one composer", func(t *testing.T) {
		base := unmarshalDoc(`{"id":""}`)
		c, err := NewComposer(WithSource("r", unmarshalDoc(`{"id":"X"}`)))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := c.Compose(base, D{{Key: "id", Value: "$[r].id"}, {Key: "extra[2]", Value: true}})
				assert.NoError(t, err)
				assert.Equal(t, "X", got.Value("id"))
			}()
		}
		wg.Wait()
		assert.Equal(t, `{"id":""}`, mustJSON(t, base))
	})
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules(D{
		{Key: "user.status", Value: "ACTIVE"},
		{Key: "user.id", Value: "$[createUserResponse].data.id"},
		{Key: "tags[0]", Value: "%tags[0]"},
	}, false)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "user.status", rules[0].Raw)
	assert.Equal(t, Literal{Value: "ACTIVE"}, rules[0].Value)
	assert.Equal(t, Reference{Raw: "$[createUserResponse].data.id", Source: "createUserResponse", Path: MustParsePath("data.id")}, rules[1].Value)
	assert.Equal(t, Path{{Field: "tags", Index: 0, Indexed: true}}, rules[2].Path)
}
