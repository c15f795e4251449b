package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitCallsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	bus.Subscribe(RecipeGenerationStart, func(Payload) { order = append(order, 1) })
	bus.Subscribe(RecipeGenerationStart, func(Payload) { order = append(order, 2) })
	bus.Subscribe(RecipeGenerationStart, func(Payload) { order = append(order, 3) })

	bus.Emit(RecipeGenerationStart, nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEmitDeliversPayload(t *testing.T) {
	bus := NewBus()

	var got Payload
	bus.Subscribe(Error, func(p Payload) { got = p })

	bus.Emit(Error, Payload{"message": "boom"})

	assert.Equal(t, "boom", got["message"])
}

func TestEmitWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()

	assert.NotPanics(t, func() {
		bus.Emit(ProcessComplete, nil)
	})
}

func TestPanickingHandlerDoesNotAffectOthers(t *testing.T) {
	bus := NewBus()

	var called []string
	bus.Subscribe(ImagePromptStart, func(Payload) {
		called = append(called, "first")
		panic("handler exploded")
	})
	bus.Subscribe(ImagePromptStart, func(Payload) {
		called = append(called, "second")
	})

	assert.NotPanics(t, func() {
		bus.Emit(ImagePromptStart, nil)
	})
	assert.Equal(t, []string{"first", "second"}, called)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	count := 0
	unsubscribe := bus.Subscribe(RecipePromptStart, func(Payload) { count++ })

	bus.Emit(RecipePromptStart, nil)
	unsubscribe()
	bus.Emit(RecipePromptStart, nil)

	assert.Equal(t, 1, count)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()

	first := 0
	second := 0
	unsubscribe := bus.Subscribe(RecipePromptStart, func(Payload) { first++ })
	bus.Subscribe(RecipePromptStart, func(Payload) { second++ })

	unsubscribe()
	unsubscribe()
	unsubscribe()

	bus.Emit(RecipePromptStart, nil)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestUnsubscribeOnlyRemovesOwnHandler(t *testing.T) {
	bus := NewBus()

	counts := make([]int, 3)
	unsubA := bus.Subscribe(ProcessComplete, func(Payload) { counts[0]++ })
	bus.Subscribe(ProcessComplete, func(Payload) { counts[1]++ })
	bus.Subscribe(ProcessComplete, func(Payload) { counts[2]++ })

	unsubA()
	bus.Emit(ProcessComplete, nil)

	assert.Equal(t, []int{0, 1, 1}, counts)
}

func TestHandlerCanSubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()

	lateCalls := 0
	bus.Subscribe(RecipeGenerationComplete, func(Payload) {
		bus.Subscribe(RecipeGenerationComplete, func(Payload) { lateCalls++ })
	})

	// 派送中新增的訂閱要等下一次 Emit 才生效
	bus.Emit(RecipeGenerationComplete, nil)
	assert.Equal(t, 0, lateCalls)

	bus.Emit(RecipeGenerationComplete, nil)
	assert.Equal(t, 1, lateCalls)
}

func TestHandlerCanUnsubscribeItselfDuringDispatch(t *testing.T) {
	bus := NewBus()

	count := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe(ImageGenerationComplete, func(Payload) {
		count++
		unsubscribe()
	})

	assert.NotPanics(t, func() {
		bus.Emit(ImageGenerationComplete, nil)
		bus.Emit(ImageGenerationComplete, nil)
	})
	assert.Equal(t, 1, count)
}
