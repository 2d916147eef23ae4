package filter

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"bloodlink/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the "bloodtype" rule
// registered. The rule accepts the eight blood types and "all".
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return domain.IsAllBloodTypes(s) || domain.BloodType(s).Valid()
		})
		validate = v
	})
	return validate
}

func (s DonorState) Validate() error {
	return Validator().Struct(s)
}

func (s SearchLogState) Validate() error {
	return Validator().Struct(s)
}
