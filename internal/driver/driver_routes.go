package driver

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	drivers := r.Group("/drivers")
	{
		drivers.GET("", middleware.RBACAuthorize(rbacService, "driver", rbac.ActionRead), handler.GetAll)
		drivers.GET("/:id", middleware.RBACAuthorize(rbacService, "driver", rbac.ActionRead), handler.GetByID)
		drivers.POST("", middleware.RBACAuthorize(rbacService, "driver", rbac.ActionCreate), handler.Create)
		drivers.PUT("/:id", middleware.RBACAuthorize(rbacService, "driver", rbac.ActionUpdate), handler.Update)
		drivers.DELETE("/:id", middleware.RBACAuthorize(rbacService, "driver", rbac.ActionDelete), handler.Delete)
	}
}
