package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	t.Run("NewBase creates with dimensions", func(t *testing.T) {
		b := NewBase(100, 50)

		w, h := b.Size()
		assert.Equal(t, 100, w)
		assert.Equal(t, 50, h)
		assert.False(t, b.Focused())
	})

	t.Run("Focus and Blur toggle state", func(t *testing.T) {
		b := NewBase(100, 50)

		assert.False(t, b.Focused())

		b.Focus()
		assert.True(t, b.Focused())

		b.Blur()
		assert.False(t, b.Focused())
	})

	t.Run("SetSize updates dimensions", func(t *testing.T) {
		b := NewBase(100, 50)

		b.SetSize(200, 100)

		w, h := b.Size()
		assert.Equal(t, 200, w)
		assert.Equal(t, 100, h)
	})

	t.Run("Zero dimensions are valid", func(t *testing.T) {
		b := NewBase(0, 0)

		w, h := b.Size()
		assert.Equal(t, 0, w)
		assert.Equal(t, 0, h)
	})
}

func TestCachedView(t *testing.T) {
	counter := func() (func() string, *int) {
		n := 0
		return func() string {
			n++
			return "view " + string(rune('0'+n))
		}, &n
	}

	t.Run("new base starts dirty", func(t *testing.T) {
		b := NewBase(10, 10)
		assert.True(t, b.IsDirty())
	})

	t.Run("clean views are reused", func(t *testing.T) {
		b := NewBase(10, 10)
		render, calls := counter()

		assert.Equal(t, "view 1", b.CachedView(render))
		assert.False(t, b.IsDirty())
		assert.Equal(t, "view 1", b.CachedView(render))
		assert.Equal(t, 1, *calls)

		b.MarkDirty()
		assert.Equal(t, "view 2", b.CachedView(render))
	})

	t.Run("copies share the cache", func(t *testing.T) {
		b := NewBase(10, 10)
		render, calls := counter()

		copied := b
		copied.CachedView(render)
		assert.False(t, b.IsDirty())

		b.MarkDirty()
		assert.True(t, copied.IsDirty())
		b.CachedView(render)
		assert.Equal(t, 2, *calls)
	})

	t.Run("zero base always renders", func(t *testing.T) {
		var b Base
		render, calls := counter()
		b.CachedView(render)
		b.CachedView(render)
		assert.Equal(t, 2, *calls)
	})

	t.Run("same size keeps the cache", func(t *testing.T) {
		b := NewBase(10, 10)
		render, _ := counter()
		b.CachedView(render)

		b.SetSize(10, 10)
		assert.False(t, b.IsDirty())

		b.SetSize(11, 10)
		assert.True(t, b.IsDirty())
	})

	t.Run("focus changes invalidate", func(t *testing.T) {
		b := NewBase(10, 10)
		render, _ := counter()
		b.CachedView(render)

		b.Focus()
		assert.True(t, b.IsDirty())
	})
}
