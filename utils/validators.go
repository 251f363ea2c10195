package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("objectid", ValidateObjectIDRule)
}

// InitValidator registers the custom rules on gin's binding engine.
func InitValidator() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterCustomValidators(v)
	}
	return nil
}

func ValidateObjectIDRule(fl validator.FieldLevel) bool {
	return IsValidObjectID(fl.Field().String())
}

// IsValidObjectID reports whether id has the store's identifier shape
// (24 hex characters).
func IsValidObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}
