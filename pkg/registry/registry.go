package registry

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/domain"
)

// LowestPriority is the threshold used at the top level and inside brackets.
const LowestPriority = math.MinInt

// BinaryRule evaluates an operator.
type BinaryRule func(a, b domain.Number) domain.Number

// UnaryRule evaluates a function.
type UnaryRule func(x domain.Number) domain.Number

// Operator is a single-character infix operator.
// Higher priority binds tighter.
type Operator struct {
	Symbol   rune
	Priority int
	Apply    BinaryRule
}

// Function is a named unary function called as name(arg).
type Function struct {
	Name  string
	Apply UnaryRule
}

// Registry holds the operators and functions known to the parser.
// It is safe for concurrent use; registrations made by mods overwrite earlier ones.
type Registry struct {
	mu        sync.RWMutex
	operators map[rune]Operator
	functions map[string]Function
	logger    *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report overwrites.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		operators: make(map[rune]Operator),
		functions: make(map[string]Function),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterOperator adds an operator. An existing operator with the same symbol is overwritten.
func (r *Registry) RegisterOperator(symbol rune, priority int, rule BinaryRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operators[symbol]; exists {
		r.logger.Warn("overwriting operator", "symbol", string(symbol))
	}
	r.operators[symbol] = Operator{Symbol: symbol, Priority: priority, Apply: rule}
}

// RegisterFunction adds a function. An existing function with the same name is overwritten.
func (r *Registry) RegisterFunction(name string, rule UnaryRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.functions[name]; exists {
		r.logger.Warn("overwriting function", "name", name)
	}
	r.functions[name] = Function{Name: name, Apply: rule}
}

// Operator looks up an operator by symbol.
func (r *Registry) Operator(symbol rune) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[symbol]
	return op, ok
}

// Function looks up a function by name.
func (r *Registry) Function(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[name]
	return fn, ok
}

// Operators lists the registered operators ordered by priority, then symbol.
func (r *Registry) Operators() []Operator {
	r.mu.RLock()
	ops := make([]Operator, 0, len(r.operators))
	for _, op := range r.operators {
		ops = append(ops, op)
	}
	r.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Priority != ops[j].Priority {
			return ops[i].Priority < ops[j].Priority
		}
		return ops[i].Symbol < ops[j].Symbol
	})
	return ops
}

// Functions lists the registered functions ordered by name.
func (r *Registry) Functions() []Function {
	r.mu.RLock()
	fns := make([]Function, 0, len(r.functions))
	for _, fn := range r.functions {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

// Clone returns an independent copy, so one session's mods cannot leak into another.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := &Registry{
		operators: make(map[rune]Operator, len(r.operators)),
		functions: make(map[string]Function, len(r.functions)),
		logger:    r.logger,
	}
	for k, v := range r.operators {
		cp.operators[k] = v
	}
	for k, v := range r.functions {
		cp.functions[k] = v
	}
	return cp
}
