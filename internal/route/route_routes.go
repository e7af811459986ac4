package route

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	routes := r.Group("/routes")
	{
		routes.GET("", middleware.RBACAuthorize(rbacService, "route", rbac.ActionRead), handler.GetAll)
		routes.GET("/:id", middleware.RBACAuthorize(rbacService, "route", rbac.ActionRead), handler.GetByID)
		routes.POST("", middleware.RBACAuthorize(rbacService, "route", rbac.ActionCreate), handler.Create)
		routes.PUT("/:id", middleware.RBACAuthorize(rbacService, "route", rbac.ActionUpdate), handler.Update)
		routes.DELETE("/:id", middleware.RBACAuthorize(rbacService, "route", rbac.ActionDelete), handler.Delete)
	}
}
