package handler

import (
	"errors"
	"net/http"

	"momentum/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON binds the request body into obj. A body cut off by the size
// limiter answers 413, any other decode failure 400.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.ErrorJSON(c, http.StatusRequestEntityTooLarge, utils.Wrap(utils.ErrBodyTooLarge, err))
		return false
	}

	utils.BadRequest(c, "Invalid request body")
	return false
}
