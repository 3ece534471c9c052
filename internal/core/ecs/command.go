package ecs

import (
	"slices"
	"sync"
)

// Op is the kind of a deferred command.
type Op uint8

const (
	OpAddTag    Op = iota + 1 // set Tag on Entity
	OpRemoveTag               // clear Tag on Entity
	OpDestroy                 // destroy Entity
	OpSetRef                  // domain: Entity references Ref
	OpAdjust                  // domain: add Delta to a counter on Entity
)

// Command is one deferred structural or cross-entity mutation. Slot is the
// index of the entity that produced it; playback is ordered by Slot so the
// result does not depend on how workers were scheduled.
type Command struct {
	Slot   uint32
	Entity EntityID
	Op     Op
	Tag    Tag
	Ref    EntityID
	Delta  int32
}

// CommandBuffer is safe for concurrent recording from parallel workers.
type CommandBuffer struct {
	mu   sync.Mutex
	cmds []Command
}

func NewCommandBuffer(capacity int) *CommandBuffer {
	return &CommandBuffer{cmds: make([]Command, 0, capacity)}
}

func (b *CommandBuffer) push(c Command) {
	b.mu.Lock()
	b.cmds = append(b.cmds, c)
	b.mu.Unlock()
}

func (b *CommandBuffer) AddTag(slot uint32, e EntityID, t Tag) {
	b.push(Command{Slot: slot, Entity: e, Op: OpAddTag, Tag: t})
}

func (b *CommandBuffer) RemoveTag(slot uint32, e EntityID, t Tag) {
	b.push(Command{Slot: slot, Entity: e, Op: OpRemoveTag, Tag: t})
}

func (b *CommandBuffer) Destroy(slot uint32, e EntityID) {
	b.push(Command{Slot: slot, Entity: e, Op: OpDestroy})
}

func (b *CommandBuffer) SetRef(slot uint32, e, ref EntityID) {
	b.push(Command{Slot: slot, Entity: e, Op: OpSetRef, Ref: ref})
}

func (b *CommandBuffer) Adjust(slot uint32, e EntityID, delta int32) {
	b.push(Command{Slot: slot, Entity: e, Op: OpAdjust, Delta: delta})
}

// Len is the number of pending commands.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cmds)
}

// drain returns the pending commands in playback order and resets the buffer.
// Commands from one slot keep their recording order.
func (b *CommandBuffer) drain(into []Command) []Command {
	b.mu.Lock()
	into = append(into[:0], b.cmds...)
	b.cmds = b.cmds[:0]
	b.mu.Unlock()
	slices.SortStableFunc(into, func(a, c Command) int {
		switch {
		case a.Slot < c.Slot:
			return -1
		case a.Slot > c.Slot:
			return 1
		}
		return 0
	})
	return into
}
