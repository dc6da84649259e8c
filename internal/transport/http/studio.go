package http

import (
	"errors"
	"log/slog"
	"net/http"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/logger/sl"
	accounts "dreamdesign/internal/services/account_service"
	studio "dreamdesign/internal/services/studio_service"
	"dreamdesign/internal/transport/http/dto/request"
	"dreamdesign/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Generate godoc
// @Summary Генерация редизайна комнаты
// @Description Списывает по одному кредиту за стиль и генерирует все стили параллельно.
// @Description При любой ошибке кредиты возвращаются полностью.
// @Tags studio
// @Accept json
// @Produce json
// @Param request body request.GenerateRequest true "Фото, тип комнаты и стили"
// @Success 200 {object} response.Response{data=models.GenerationBatch}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 402 {object} response.ErrorResponse "Недостаточно кредитов"
// @Failure 409 {object} response.ErrorResponse "Генерация уже идет"
// @Failure 502 {object} response.ErrorResponse "Ошибка генерации"
// @Failure 503 {object} response.ErrorResponse "Генерация не настроена"
// @Router /api/v1/generate [post]
func (r *Routers) Generate(c echo.Context) error {
	const op = "http.routers.Generate"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.GenerateRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	var current *models.Account
	if account, ok := r.AccountService.CurrentAccount(); ok {
		current = &account
	}

	batch, err := r.StudioService.Generate(c.Request().Context(), current, studio.GenerateInput{
		SourceImage: req.Image,
		RoomType:    models.RoomType(req.RoomType),
		Styles:      req.Styles,
	})
	if err != nil {
		switch {
		case errors.Is(err, studio.ErrAuthenticationRequired), errors.Is(err, accounts.ErrAccountNotFound):
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		case errors.Is(err, studio.ErrInsufficientCredits), errors.Is(err, accounts.ErrInsufficientCredits):
			return c.JSON(http.StatusPaymentRequired, response.ErrInsufficientCredits)
		case errors.Is(err, studio.ErrGenerationInProgress):
			return c.JSON(http.StatusConflict, response.ErrGenerationInProgress)
		case errors.Is(err, studio.ErrTooManyStyles), errors.Is(err, studio.ErrIncompleteRequest),
			errors.Is(err, studio.ErrUnknownStyle), errors.Is(err, studio.ErrUnsupportedSource):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
		case errors.Is(err, studio.ErrCapabilityUnavailable):
			return c.JSON(http.StatusServiceUnavailable, response.ErrCapabilityUnavailable)
		case errors.Is(err, studio.ErrGenerationFailed):
			log.Warn("generation failed", sl.Err(err))
			return c.JSON(http.StatusBadGateway, response.ErrGenerationFailed)
		}

		log.Error("generate failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(batch))
}

// Results godoc
// @Summary Результаты последней генерации
// @Tags studio
// @Produce json
// @Success 200 {object} response.Response{data=response.ResultsResponse}
// @Router /api/v1/results [get]
func (r *Routers) Results(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.resultsView()))
}

// SetActiveResult godoc
// @Summary Выбор активного результата
// @Tags studio
// @Accept json
// @Produce json
// @Param request body request.ActiveResultRequest true "Индекс результата"
// @Success 200 {object} response.Response{data=response.ResultsResponse}
// @Failure 400 {object} response.ErrorResponse "Индекс вне диапазона"
// @Router /api/v1/results/active [put]
func (r *Routers) SetActiveResult(c echo.Context) error {
	var req request.ActiveResultRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	if err := r.StudioService.SetActiveResult(*req.Index); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(r.resultsView()))
}

// ClearResults godoc
// @Summary Сброс результатов ("Redesign another")
// @Tags studio
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/results [delete]
func (r *Routers) ClearResults(c echo.Context) error {
	r.StudioService.ClearResults()

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "results cleared"})
}

func (r *Routers) resultsView() response.ResultsResponse {
	_, idx, _ := r.StudioService.ActiveResult()

	return response.ResultsResponse{
		Results:     r.StudioService.Results(),
		ActiveIndex: idx,
		InProgress:  r.StudioService.InProgress(),
	}
}
