package sim

// HookPos names a point in a component's lifecycle where a Hook can be
// invoked.
type HookPos struct {
	Name string
}

// HookPosBeforeTick names the point just before a component runs its
// Tick. No component in this module invokes hooks at this position.
var HookPosBeforeTick = &HookPos{Name: "BeforeTick"}

// HookPosAfterTick names the point just after a component runs its
// Tick. No component in this module invokes hooks at this position.
var HookPosAfterTick = &HookPos{Name: "AfterTick"}

// HookPosFlitCreated triggers when a source mints a new flit.
var HookPosFlitCreated = &HookPos{Name: "FlitCreated"}

// HookPosFlitRetired triggers when a destination consumes a flit.
var HookPosFlitRetired = &HookPos{Name: "FlitRetired"}

// HookPosCreditChange triggers whenever a router output unit's credit
// count moves, whether by increment (credit_update) or decrement
// (switch_alloc).
var HookPosCreditChange = &HookPos{Name: "CreditChange"}

// HookPosStall triggers when a source wants to generate a flit but has
// no credit to spend.
var HookPosStall = &HookPos{Name: "Stall"}

// HookPosSwitchTraverse triggers when a router hands a flit from its
// ST slot onto an output channel.
var HookPosSwitchTraverse = &HookPos{Name: "SwitchTraverse"}

// HookCtx carries the information about the site a hook fired at.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Time   Cycle
	Item   interface{}
	Detail interface{}
}

// Hookable is an object that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
}

// Hook is a short piece of program invoked by a Hookable at one of its
// HookPos points.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase implements Hookable; components embed it rather than
// reimplementing hook bookkeeping.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hooks: make([]Hook, 0)}
}

// AcceptHook registers hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks reports how many hooks are registered. Callers use this to
// skip building a HookCtx entirely when no one is listening.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook runs every registered hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
