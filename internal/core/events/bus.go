package events

import (
	"sync"

	"recipe-forge/internal/pkg/common"

	"go.uber.org/zap"
)

// Event 管線生命週期事件種類
type Event string

const (
	RecipePromptStart        Event = "recipe_prompt_start"
	RecipePromptComplete     Event = "recipe_prompt_complete"
	RecipeGenerationStart    Event = "recipe_generation_start"
	RecipeGenerationComplete Event = "recipe_generation_complete"
	ImagePromptStart         Event = "image_prompt_start"
	ImagePromptComplete      Event = "image_prompt_complete"
	ImageGenerationStart     Event = "image_generation_start"
	ImageGenerationComplete  Event = "image_generation_complete"
	ProcessComplete          Event = "process_complete"
	Error                    Event = "error"
)

// Payload 事件附帶資料
type Payload map[string]interface{}

// Handler 事件處理函式
type Handler func(payload Payload)

type subscription struct {
	id      int
	handler Handler
}

// Bus 同步派送的事件匯流排。
// Emit 會依訂閱順序呼叫同種事件的所有 handler，處理完才返回；
// 單一 handler panic 不影響其餘 handler。
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[Event][]subscription
}

// NewBus 創建事件匯流排
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Event][]subscription),
	}
}

// Subscribe 訂閱事件，返回的取消函式可重複呼叫
func (b *Bus) Subscribe(event Event, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[event] = append(b.listeners[event], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.listeners[event]
		for i, s := range subs {
			if s.id == id {
				b.listeners[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit 發送事件。沒有訂閱者時事件直接丟棄。
// handler 內可以安全地再訂閱或取消訂閱：派送時用的是訂閱清單的快照。
func (b *Bus) Emit(event Event, payload Payload) {
	b.mu.Lock()
	subs := make([]subscription, len(b.listeners[event]))
	copy(subs, b.listeners[event])
	b.mu.Unlock()

	for _, s := range subs {
		b.invoke(event, s.handler, payload)
	}
}

// invoke 隔離單一 handler 的 panic
func (b *Bus) invoke(event Event, handler Handler, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("事件處理器發生 panic",
				zap.String("event", string(event)),
				zap.Any("panic", r),
			)
		}
	}()
	handler(payload)
}
