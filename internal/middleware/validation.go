package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/projecttracker/internal/app/models/dto"
)

// RespondBindError answers a failed request binding with the 400 envelope
func RespondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
}
