// Package rule wraps go-playground/validator for struct and field validation.
package rule

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator reuses gin's validator engine when available so binding and
// manual validation share custom rules; otherwise a fresh instance is built.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
			inst.SetTagName("rule")

			return
		}
	}

	inst = validator.New()
	inst.SetTagName("rule")
}

func lazyInit() {
	once.Do(initValidator)
}

// Engine returns the global *validator.Validate, initializing it on first use.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation proxies RegisterValidation on the global instance.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidateStruct runs the full set of "rule" tag checks on a struct.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar checks a single value against a rule expression, for example:
// ValidateVar(offset, "gte=0").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias registers a named shorthand for a rule expression.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
