// Package controllers handles HTTP request handling
package controllers

import (
	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

var errUnauthenticated = apperrors.NewCustomError(apperrors.ErrTokenInvalid, "user information not found")

// currentActor returns the resolved caller or writes a 401
func currentActor(ctx *gin.Context) (*authz.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, errUnauthenticated)
		return nil, false
	}
	return actor, true
}

// optionalInt64Query reads an optional positive integer query parameter or writes a 400
func optionalInt64Query(ctx *gin.Context, key string) (*int64, bool) {
	value, ok := helpers.ParseOptionalInt64Query(ctx, key)
	if !ok {
		middleware.RejectQuery(ctx, key, key+" must be a positive number")
		return nil, false
	}
	return value, true
}

func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}
