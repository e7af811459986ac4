package expense

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	expenses := r.Group("/expenses")
	{
		expenses.GET("", middleware.RBACAuthorize(rbacService, "expense", rbac.ActionRead), handler.GetAll)
		expenses.GET("/:id", middleware.RBACAuthorize(rbacService, "expense", rbac.ActionRead), handler.GetByID)
		expenses.POST("", middleware.RBACAuthorize(rbacService, "expense", rbac.ActionCreate), handler.Create)
		expenses.DELETE("/:id", middleware.RBACAuthorize(rbacService, "expense", rbac.ActionDelete), handler.Delete)
	}
}
