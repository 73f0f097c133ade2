package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/location-search/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// price - один из четырёх ценовых уровней
	_ = validate.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return domain.Price(fl.Field().String()).Valid()
	})
	// minrating - одно из пороговых значений минимального рейтинга
	_ = validate.RegisterValidation("minrating", func(fl validator.FieldLevel) bool {
		_, err := domain.RatingBucketFor(fl.Field().Float())
		return err == nil
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}
