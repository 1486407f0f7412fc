package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	leavehandler "leave-backend/lib/leave"
	"leave-backend/middleware"
	apimodels "leave-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError переводит типизированные ошибки ядра в HTTP статусы,
// прочие ошибки уходят в лог и наружу как общий ответ 500.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, commonMsg string) error {
	switch {
	case errors.Is(err, leavehandler.ErrValidation):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, leavehandler.ErrForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, leavehandler.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, leavehandler.ErrOverlap), errors.Is(err, leavehandler.ErrDecided):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(commonMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(commonMsg))
}
