package handler

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"uniclass/backend/internal/scheduling"
)

// validatorRegistry 只注册一次，并保留首次注册的结果供后续调用返回
type validatorRegistry struct {
	once sync.Once
	err  error
}

func (r *validatorRegistry) register(engine interface{}) error {
	r.once.Do(func() {
		r.err = registerTags(engine)
	})
	return r.err
}

var registry validatorRegistry

// RegisterValidators 向 Gin 的绑定校验器注册排课相关的标签：
//
//	hhmm       "HH:MM" 钟点
//	isoweekday 1(周一)-7(周日)
//	isodate    "YYYY-MM-DD"
func RegisterValidators() error {
	return registry.register(binding.Validator.Engine())
}

func registerTags(engine interface{}) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding 校验引擎不是 validator/v10")
	}
	for tag, fn := range map[string]validator.Func{
		"hhmm":       validateHHMM,
		"isoweekday": validateISOWeekday,
		"isodate":    validateISODate,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateISOWeekday(fl validator.FieldLevel) bool {
	return scheduling.Weekday(fl.Field().Int()).Valid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseDate(fl.Field().String())
	return err == nil
}
