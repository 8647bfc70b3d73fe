package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ojass-festival/ojass-api/internal/api/handler/v1/response"
	"github.com/ojass-festival/ojass-api/internal/api/middleware"
	"github.com/ojass-festival/ojass-api/internal/domain"
	"github.com/ojass-festival/ojass-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetUserByOjassID(ctx context.Context, ojassID string) (domain.User, error)
}

// getUserFromContext resolves the authenticated principal. The entity
// comes from the store but the role stays the verified claim's: the
// services re-check authorization against what the token proved, not
// against whatever the row says mid-request.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("no authenticated user in context"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errors.New("authenticated user no longer exists"))
		}

		err = fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	user.Role = middleware.GetRole(ctx)

	return user, nil
}
