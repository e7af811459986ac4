package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	autherrors "go-fleetpay/internal/auth/errors"
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxDriverID = "driver_id"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		if typ, _ := claims["typ"].(string); typ != "access" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		role, _ := claims["role"].(string)
		if !rbac.IsValidRole(role) {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		var driverID int64
		if raw, ok := claims["driver_id"].(float64); ok {
			driverID = int64(raw)
		}
		if role == rbac.RoleDriver && driverID == 0 {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)
		c.Set(CtxDriverID, driverID)

		c.Next()
	}
}

// RoleMiddleware lets only the listed roles through.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		abortWith(c, apperror.ErrForbidden)
	}
}

// OwnDriverID returns the caller's driver id when the caller is a driver and
// zero for admins. Handlers use it to pin list filters and ownership checks.
func OwnDriverID(c *gin.Context) int64 {
	if c.GetString(CtxRole) != rbac.RoleDriver {
		return 0
	}
	return c.GetInt64(CtxDriverID)
}

// ActorID is the authenticated user id as stored in the token.
func ActorID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.GetString(CtxUserID), 10, 64)
	return id
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
