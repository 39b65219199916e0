package services

import (
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance reads the same `binding` tags gin uses for form binding,
// so one input struct serves both the HTTP layer and direct service calls.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
	})
	return validate
}

func validateStruct(v interface{}) error {
	if err := validatorInstance().Struct(v); err != nil {
		return FromValidator(err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
