package apiv1

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"leave-backend/config"
	"leave-backend/controllers"
	pdfexport "leave-backend/lib/export/pdf"
	xlsexport "leave-backend/lib/export/xls"
	leavehandler "leave-backend/lib/leave"
	"leave-backend/middleware"
	"leave-backend/models"
	apimodels "leave-backend/models/api"
	leaveapimodels "leave-backend/models/api/leave"
)

type leaveApiController struct {
	controllers.BaseAPIController
}

func InitLeaveApiRouters(app *fiber.App) {
	controller := leaveApiController{}
	app.Route("leave", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("export/xlsx", middleware.AdminRequired(), controller.exportXlsx)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
			idRoute.Post("document", middleware.WithBodyLimit(config.Conf.S3.MaxUploadSizeMB*1024*1024), controller.attachDocument)
			idRoute.Get("document", controller.getDocument)
			idRoute.Get("pdf", controller.pdf)
		})
	})
}

// @Summary Список заявок на отпуск
// @Tags Заявки на отпуск
// @Description Список заявок на отпуск со статистикой, администратор видит все заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveListView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave [get]
func (c *leaveApiController) list(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	resp, err := leavehandler.Instance.List(actor)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание заявки на отпуск
// @Tags Заявки на отпуск
// @Description Создание заявки на отпуск
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 leaveapimodels.LeaveData	true	"request body"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave [post]
func (c *leaveApiController) create(ctx *fiber.Ctx) error {
	var payload leaveapimodels.LeaveData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	resp, err := leavehandler.Instance.Create(actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение заявки на отпуск
// @Tags Заявки на отпуск
// @Description Получение заявки на отпуск
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id} [get]
func (c *leaveApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	resp, err := leavehandler.Instance.GetByID(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление заявки на отпуск
// @Tags Заявки на отпуск
// @Description Обновление заявки на отпуск, доступно владельцу пока заявка на рассмотрении
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 leaveapimodels.LeaveData	true	"request body"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id} [put]
func (c *leaveApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload leaveapimodels.LeaveData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	resp, err := leavehandler.Instance.Update(actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление заявки на отпуск
// @Tags Заявки на отпуск
// @Description Удаление заявки на отпуск, доступно владельцу пока заявка на рассмотрении
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id} [delete]
func (c *leaveApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	err = leavehandler.Instance.Delete(ctx.UserContext(), actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления заявки")
	}
	return ctx.SendStatus(fiber.StatusOK)
}

// @Summary Согласовать заявку
// @Tags Заявки на отпуск
// @Description Согласовать заявку, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 leaveapimodels.RemarksData	true	"request body"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id}/approve [put]
func (c *leaveApiController) approve(ctx *fiber.Ctx) error {
	return c.updateStatus(ctx, models.LeaveDecisionApprove, "Ошибка согласования заявки")
}

// @Summary Отклонить заявку
// @Tags Заявки на отпуск
// @Description Отклонить заявку с обязательным комментарием, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 leaveapimodels.RemarksData	true	"request body"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id}/reject [put]
func (c *leaveApiController) reject(ctx *fiber.Ctx) error {
	return c.updateStatus(ctx, models.LeaveDecisionReject, "Ошибка отклонения заявки")
}

func (c *leaveApiController) updateStatus(ctx *fiber.Ctx, decision models.LeaveDecision, commonMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload leaveapimodels.RemarksData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	data := leaveapimodels.DecisionData{
		Decision: decision,
		Remarks:  payload.Remarks,
	}
	resp, err := leavehandler.Instance.UpdateStatus(actor, id, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, commonMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Приложить документ к заявке
// @Tags Заявки на отпуск
// @Description Приложить подтверждающий документ к заявке, повторная загрузка заменяет файл
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Param   document			formData	file	true	"document"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id}/document [post]
func (c *leaveApiController) attachDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("document")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("файл не указан"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("ошибка чтения файла"))
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("ошибка чтения файла"))
	}
	actor := middleware.GetActor(ctx)
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	err = leavehandler.Instance.AttachDocument(ctx.UserContext(), actor, id, fileHeader.Filename, contentType, body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки документа")
	}
	return ctx.SendStatus(fiber.StatusOK)
}

// @Summary Скачать документ заявки
// @Tags Заявки на отпуск
// @Description Скачать подтверждающий документ заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id}/document [get]
func (c *leaveApiController) getDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	key, file, err := leavehandler.Instance.GetDocument(ctx.UserContext(), actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	fileName := filepath.Base(key)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Send(file)
}

// @Summary Карточка заявки в PDF
// @Tags Заявки на отпуск
// @Description Печатная карточка заявки на отпуск в PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true	"rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/{id}/pdf [get]
func (c *leaveApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	rec, err := leavehandler.Instance.GetRecord(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	file, err := pdfexport.GenerateLeaveCard(rec)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования PDF")
	}
	fileName := fmt.Sprintf("leave_%v.pdf", id)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Send(file)
}

// @Summary Экспорт заявок в XLSX
// @Tags Заявки на отпуск
// @Description Экспорт заявок на отпуск в XLSX, доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave/export/xlsx [get]
func (c *leaveApiController) exportXlsx(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	list, err := leavehandler.Instance.ListRecords(actor)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	data, err := xlsexport.Instance.ExportLeaveList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования XLSX")
	}
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="leave_requests.xlsx"`)
	return ctx.SendStream(data)
}
