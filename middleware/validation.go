package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"momentum/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	paramValidator     *validator.Validate
	paramValidatorOnce sync.Once
)

func getParamValidator() *validator.Validate {
	paramValidatorOnce.Do(func() {
		v := validator.New()
		if err := utils.RegisterCustomValidators(v); err != nil {
			panic(err)
		}
		paramValidator = v
	})
	return paramValidator
}

// ValidateNoteID answers 404 in plain text for a route parameter that is
// not a well-formed note identifier, so the store is never queried.
func ValidateNoteID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(param)
		if err := getParamValidator().Var(id, "required,objectid"); err != nil {
			utils.ErrorText(c, http.StatusNotFound,
				utils.Wrap(utils.ErrInvalidNoteID, err),
				fmt.Sprintf("no note is available with id:%s", id))
			c.Abort()
			return
		}
		c.Next()
	}
}
