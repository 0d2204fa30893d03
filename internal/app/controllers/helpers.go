package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/yigit/projecttracker/internal/app/auth"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/middleware"
)

// requireActor reads the caller set by the auth middleware and answers 401 when it is absent
func requireActor(ctx *gin.Context) (appauth.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(middleware.NotAuthorizedMessage,
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return appauth.Actor{}, false
	}
	return actor, true
}
