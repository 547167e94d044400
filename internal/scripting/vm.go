// Package scripting runs sandboxed JavaScript bots and plays whole matches
// between bots to produce transcripts.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/MJE43/triad-replay-go/internal/transcript"
)

var (
	ErrScriptTimeout = errors.New("script timed out")
	ErrNoChoose      = errors.New("choose() function is not defined")
)

// LogEntry is one message written by a script through log or console.log.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps a goja runtime with sandbox restrictions. Calls are serialized.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex
	timeout time.Duration

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int
}

const (
	scriptInitTimeout    = 2 * time.Second
	defaultChooseTimeout = 1 * time.Second
	interruptGracePeriod = 200 * time.Millisecond
)

// NewVM creates a sandboxed runtime. A non-positive timeout uses one second per
// choose() call.
func NewVM(timeout time.Duration) *VM {
	if timeout <= 0 {
		timeout = defaultChooseTimeout
	}
	vm := &VM{
		runtime: goja.New(),
		timeout: timeout,
		maxLogs: 500,
	}
	vm.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.injectGlobalFunctions()
	injectConstants(vm.runtime)
	return vm
}

func (vm *VM) injectGlobalFunctions() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		vm.appendLog(strings.Join(parts, " "))
		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

func (vm *VM) appendLog(msg string) {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	if len(vm.logs) >= vm.maxLogs {
		vm.logs = vm.logs[1:]
	}
	vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
}

// Execute runs bot source once so it can define choose(state).
func (vm *VM) Execute(ctx context.Context, source string) error {
	return vm.runWithTimeout(ctx, scriptInitTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		vm.runtime.ClearInterrupt()
		if _, err := vm.runtime.RunString(source); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// HasChoose reports whether the script defined choose().
func (vm *VM) HasChoose() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := goja.AssertFunction(vm.runtime.Get("choose"))
	return ok
}

// CallChoose calls choose(state) and decodes the returned move object.
func (vm *VM) CallChoose(ctx context.Context, state any) (transcript.Turn, error) {
	var turn transcript.Turn
	err := vm.runWithTimeout(ctx, vm.timeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		vm.runtime.ClearInterrupt()

		callable, ok := goja.AssertFunction(vm.runtime.Get("choose"))
		if !ok {
			return ErrNoChoose
		}
		result, err := callable(goja.Undefined(), vm.runtime.ToValue(state))
		if err != nil {
			return fmt.Errorf("choose() error: %w", err)
		}
		turn, err = vm.decodeMove(result)
		return err
	})
	return turn, err
}

// decodeMove reads {cell, cardIndex, warningMarkCell?, earthBoostEdge?}.
func (vm *VM) decodeMove(v goja.Value) (transcript.Turn, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return transcript.Turn{}, errors.New("choose() returned no move")
	}
	obj := v.ToObject(vm.runtime)

	var turn transcript.Turn
	var errs []error
	field := func(name string, required bool) uint8 {
		fv := obj.Get(name)
		if fv == nil || goja.IsUndefined(fv) || goja.IsNull(fv) {
			if required {
				errs = append(errs, fmt.Errorf("move is missing %s", name))
			}
			return transcript.None
		}
		n := fv.ToInteger()
		if n < 0 || n > 255 {
			errs = append(errs, fmt.Errorf("move %s out of range: %d", name, n))
			return transcript.None
		}
		return uint8(n)
	}
	turn.Cell = field("cell", true)
	turn.CardIndex = field("cardIndex", true)
	turn.WarningMarkCell = field("warningMarkCell", false)
	turn.EarthBoostEdge = field("earthBoostEdge", false)
	return turn, errors.Join(errs...)
}

// Logs returns a copy of the log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// ClearLogs drops captured script output.
func (vm *VM) ClearLogs() {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	vm.logs = vm.logs[:0]
}

func (vm *VM) runWithTimeout(ctx context.Context, timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var cause error
	select {
	case err := <-done:
		return err
	case <-timer.C:
		cause = ErrScriptTimeout
	case <-ctx.Done():
		cause = ctx.Err()
	}

	vm.runtime.Interrupt(cause.Error())
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", cause, err)
		}
		return cause
	case <-time.After(interruptGracePeriod):
		return cause
	}
}
