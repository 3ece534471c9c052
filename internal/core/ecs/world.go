package ecs

// World is the top-level ECS container. It owns the entity pool, the tag
// bitsets, every registered component store, and the deferred command buffer
// that CommitSystem flushes at the end of each tick.
type World struct {
	pool     *EntityPool
	tags     *TagStore
	stores   []Removable
	commands *CommandBuffer
	playback []Command
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		tags:     NewTagStore(1024),
		stores:   make([]Removable, 0, 8),
		commands: NewCommandBuffer(256),
	}
}

func (w *World) Pool() *EntityPool        { return w.pool }
func (w *World) Tags() *TagStore          { return w.tags }
func (w *World) Commands() *CommandBuffer { return w.commands }

// Register adds a component store so Destroy clears it.
func (w *World) Register(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy removes id from every store and invalidates the handle immediately.
// Inside a tick use Commands().Destroy instead.
func (w *World) Destroy(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.tags.Remove(id)
	w.pool.Destroy(id)
}

// Flush applies every pending command in slot order. Tag and destroy commands
// are handled here; apply then sees every command that changed something,
// including the domain ops OpSetRef and OpAdjust. A tag command that finds the
// tag already in the requested state is dropped, as is any command naming a
// dead entity. Returns the number of commands applied.
func (w *World) Flush(apply func(Command)) int {
	w.playback = w.commands.drain(w.playback)
	n := 0
	for _, c := range w.playback {
		if !w.pool.Alive(c.Entity) {
			continue
		}
		switch c.Op {
		case OpAddTag:
			if !w.tags.Add(c.Entity, c.Tag) {
				continue
			}
		case OpRemoveTag:
			if !w.tags.Clear(c.Entity, c.Tag) {
				continue
			}
		case OpDestroy:
			w.Destroy(c.Entity)
		}
		if apply != nil {
			apply(c)
		}
		n++
	}
	return n
}
