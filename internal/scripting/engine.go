package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/vmath"
)

// Engine wraps a single gopher-lua VM holding the scripted terrain and tuning
// overrides. The VM is not goroutine-safe; every call takes mu, because the
// ground sampler probes from parallel workers.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
	fn  lua.LValue // terrain_height, cached after load
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// Load core scripts first, then terrain
	for _, sub := range []string{"core", "terrain"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	e.fn = e.vm.GetGlobal("terrain_height")
	return e, nil
}

// NewEngineFromSource builds an engine from one in-memory chunk.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load source: %w", err)
	}
	e.fn = e.vm.GetGlobal("terrain_height")
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}

// HasTerrain reports whether the scripts define terrain_height.
func (e *Engine) HasTerrain() bool {
	return e.fn != nil && e.fn != lua.LNil
}

// TerrainHeight calls the Lua terrain_height(x, z) function. A nil return
// means there is no ground at that point.
func (e *Engine) TerrainHeight(x, z float64) (float64, bool) {
	if !e.HasTerrain() {
		return 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.vm.CallByParam(lua.P{
		Fn:      e.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(x), lua.LNumber(z)); err != nil {
		e.log.Error("lua terrain_height error", zap.Error(err))
		return 0, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return float64(n), true
}

// Probe implements terrain.Surface over the scripted heightfield.
func (e *Engine) Probe(origin, dir vmath.Vec3) (vmath.Vec3, bool) {
	y, ok := e.TerrainHeight(origin.X, origin.Z)
	if !ok {
		return vmath.Vec3{}, false
	}
	lo, hi := origin.Y, origin.Y+dir.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	if y < lo || y > hi {
		return vmath.Vec3{}, false
	}
	return vmath.Vec3{X: origin.X, Y: y, Z: origin.Z}, true
}

// ApplyOverrides copies fields from the Lua globals `flock` and `rules`, when
// the scripts define them, over the given values. Unknown keys are ignored.
func (e *Engine) ApplyOverrides(fm *component.FlockManager, r *component.Rules) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	if t, ok := e.vm.GetGlobal("flock").(*lua.LTable); ok {
		n += setNum(t, "cell_size", &fm.CellSize)
		n += setNum(t, "perception_radius", &fm.PerceptionRadius)
		n += setNum(t, "field_of_view", &fm.FieldOfView)
		n += setNum(t, "alignment_bias", &fm.AlignmentBias)
		n += setNum(t, "separation_bias", &fm.SeparationBias)
		n += setNum(t, "cohesion_bias", &fm.CohesionBias)
		n += setNum(t, "acceptance_distance", &fm.AcceptanceDistance)
		n += setNum(t, "collision_range", &fm.CollisionRange)
		n += setNum(t, "collision_force", &fm.CollisionForce)
		n += setInt(t, "max_to_collide", &fm.MaxToCollide)
		n += setInt(t, "max_perceived", &fm.MaxPerceived)
	}
	if t, ok := e.vm.GetGlobal("rules").(*lua.LTable); ok {
		n += setNum(t, "attack_distance", &r.AttackDistance)
		n += setNum(t, "short_circuit_ratio", &r.ShortCircuitRatio)
		n += setNum(t, "congestion_range_factor", &r.CongestionRangeFactor)
		n += setNum(t, "stop_animation_time", &r.StopAnimationTime)
		n += setNum(t, "height_smoothing_rate", &r.HeightSmoothingRate)
		n += setInt(t, "non_combat_ally_limit", &r.NonCombatAllyLimit)
	}
	if n > 0 {
		e.log.Info("lua tuning overrides applied", zap.Int("fields", n))
	}
	return n
}

func setNum(t *lua.LTable, key string, dst *float64) int {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		*dst = float64(v)
		return 1
	}
	return 0
}

func setInt(t *lua.LTable, key string, dst *int) int {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		*dst = int(v)
		return 1
	}
	return 0
}
