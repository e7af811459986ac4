package advance

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	advances := r.Group("/advances")
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "advance", rbac.ActionRead), handler.GetAll)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "advance", rbac.ActionRead), handler.GetByID)
		advances.POST("", middleware.RBACAuthorize(rbacService, "advance", rbac.ActionCreate), handler.Create)
		advances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "advance", rbac.ActionDelete), handler.Delete)
	}
}
