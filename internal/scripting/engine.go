package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for entity behaviour scripts.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir. A
// missing directory yields an engine with no functions defined.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Warn("scripts directory not found", zap.String("dir", dir))
			return nil
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

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunc reports whether a global Lua function is defined.
func (e *Engine) HasFunc(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SteerContext holds pre-packed data for one steering decision.
type SteerContext struct {
	X, Y          float64
	VX, VY        float64
	DT            float64 // seconds
	Width, Height float64
}

// SteerResult is returned by the Lua steer function.
type SteerResult struct {
	VX, VY float64
}

// Steer calls the Lua steer function. On any failure the incoming velocity
// is returned unchanged.
func (e *Engine) Steer(ctx SteerContext) SteerResult {
	keep := SteerResult{VX: ctx.VX, VY: ctx.VY}

	fn := e.vm.GetGlobal("steer")
	if fn == lua.LNil {
		return keep
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("width", lua.LNumber(ctx.Width))
	t.RawSetString("height", lua.LNumber(ctx.Height))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steer error", zap.Error(err))
		return keep
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua steer returned non-table")
		return keep
	}
	return SteerResult{
		VX: lNum(rt, "vx", ctx.VX),
		VY: lNum(rt, "vy", ctx.VY),
	}
}

// lNum reads a number field from a Lua table, falling back to def.
func lNum(t *lua.LTable, key string, def float64) float64 {
	v, ok := t.RawGetString(key).(lua.LNumber)
	if !ok {
		return def
	}
	return float64(v)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
