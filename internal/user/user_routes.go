package user

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	{
		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", rbac.ActionRead),
			handler.GetAll,
		)
		users.GET("/:id",
			middleware.RBACAuthorize(rbacService, "user", rbac.ActionRead),
			handler.GetByID,
		)
		users.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", rbac.ActionCreate),
			handler.Create,
		)
		users.PATCH("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", rbac.ActionUpdate),
			handler.ToggleStatus,
		)
		users.POST("/:id/reset-password",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", rbac.ActionUpdate),
			handler.ResetPassword,
		)
	}
}
