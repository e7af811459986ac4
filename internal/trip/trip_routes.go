package trip

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	trips := r.Group("/trips")
	{
		trips.GET("", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionRead), handler.GetAll)
		trips.GET("/calendar", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionRead), handler.Calendar)
		trips.GET("/:id", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionRead), handler.GetByID)
		trips.POST("", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionCreate), handler.Create)
		trips.PUT("/:id", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionUpdate), handler.Update)
		trips.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionUpdate), handler.ToggleStatus)
		trips.DELETE("/:id", middleware.RBACAuthorize(rbacService, "trip", rbac.ActionDelete), handler.Delete)
	}
}
