package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "leave-backend/lib/utils/auth-utils"
	"leave-backend/models"
	apimodels "leave-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if stringSub, ok := sub.(string); ok {
			return stringSub
		}
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

// GetActor - единственная точка получения личности и роли из токена
func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		ID:   GetUserID(ctx),
		Role: GetUserRole(ctx),
	}
}

func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetUserRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
