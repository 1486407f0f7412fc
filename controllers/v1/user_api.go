package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"leave-backend/controllers"
	usershandler "leave-backend/lib/users"
	"leave-backend/middleware"
	apimodels "leave-backend/models/api"
	usersapimodels "leave-backend/models/api/users"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Get(":id", controller.get)
	})
}

// @Summary Создание пользователя
// @Tags Пользователи
// @Description Создание пользователя, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UserCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload usersapimodels.UserCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := usershandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение пользователя
// @Tags Пользователи
// @Description Получение пользователя, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *userApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := usershandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	if resp == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("пользователь не найден"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
