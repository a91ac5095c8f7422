package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	r := NewHandlerRegistry()
	h := newTestHandler()
	r.Register(h, "alert.raised", "BatchExpired")

	assert.Len(t, r.GetHandlers("alert.raised"), 1)
	assert.Len(t, r.GetHandlers("BatchExpired"), 1)
	assert.Empty(t, r.GetHandlers("OrderCommitted"))
	assert.Equal(t, 1, r.Count())
}

func TestHandlerRegistry_WildcardsFollowTypedHandlers(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()
	r.Register(wildcard)
	r.Register(typed, "alert.raised")

	handlers := r.GetHandlers("alert.raised")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])
	assert.Len(t, r.GetHandlers("anything"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	keep := newTestHandler()
	drop := newTestHandler()
	r.Register(keep, "alert.raised")
	r.Register(drop, "alert.raised", "BatchExpired")
	r.Register(drop)

	r.Unregister(drop)

	assert.Len(t, r.GetHandlers("alert.raised"), 1)
	assert.Empty(t, r.GetHandlers("BatchExpired"))
	assert.Equal(t, 1, r.Count())
}
