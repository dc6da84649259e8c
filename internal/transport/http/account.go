package http

import (
	"errors"
	"log/slog"
	"net/http"

	"dreamdesign/internal/lib/logger/sl"
	accounts "dreamdesign/internal/services/account_service"
	"dreamdesign/internal/transport/http/dto/request"
	"dreamdesign/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Signup godoc
// @Summary Регистрация нового пользователя
// @Description Создает аккаунт со стартовым балансом кредитов и открывает сессию.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body request.SignupRequest true "Данные для регистрации"
// @Success 201 {object} response.Response{data=models.Account}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Router /api/v1/signup [post]
func (r *Routers) Signup(c echo.Context) error {
	const op = "http.routers.Signup"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.SignupRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	account, err := r.AccountService.Signup(c.Request().Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateAccount) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("signup failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(account))
}

// Login godoc
// @Summary Аутентификация пользователя
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=models.Account}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	account, err := r.AccountService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(account))
}

// LoginWithGoogle godoc
// @Summary Вход через Google (демо)
// @Description Входит фиксированным демо-аккаунтом, создавая его при первом входе.
// @Tags accounts
// @Produce json
// @Success 200 {object} response.Response{data=models.Account}
// @Router /api/v1/login/google [post]
func (r *Routers) LoginWithGoogle(c echo.Context) error {
	const op = "http.routers.LoginWithGoogle"

	account, err := r.AccountService.LoginWithGoogle(c.Request().Context())
	if err != nil {
		r.log.Error("google login failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(account))
}

// Logout godoc
// @Summary Выход из системы
// @Tags accounts
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	r.AccountService.Logout(c.Request().Context())
	r.StudioService.ClearResults()

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags accounts
// @Produce json
// @Success 200 {object} response.Response{data=models.Account}
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Router /api/v1/me [get]
func (r *Routers) Me(c echo.Context) error {
	account, ok := r.AccountService.CurrentAccount()
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(account))
}

// CreditPacks godoc
// @Summary Доступные пакеты кредитов
// @Tags credits
// @Produce json
// @Success 200 {object} response.Response{data=response.CreditPacksResponse}
// @Router /api/v1/credits/packs [get]
func (r *Routers) CreditPacks(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(response.CreditPacksResponse{
		Packs: r.AccountService.CreditPacks(),
	}))
}

// PurchaseCredits godoc
// @Summary Покупка пакета кредитов (демо, без оплаты)
// @Tags credits
// @Accept json
// @Produce json
// @Param request body request.PurchaseRequest true "Размер пакета"
// @Success 200 {object} response.Response{data=models.Account}
// @Failure 400 {object} response.ErrorResponse "Неизвестный пакет"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Router /api/v1/credits/purchase [post]
func (r *Routers) PurchaseCredits(c echo.Context) error {
	const op = "http.routers.PurchaseCredits"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.PurchaseRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	current, ok := r.AccountService.CurrentAccount()
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
	}

	account, err := r.AccountService.PurchaseCredits(c.Request().Context(), current.ID, req.Pack)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrUnknownCreditPack):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
		case errors.Is(err, accounts.ErrAccountNotFound):
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		log.Error("purchase failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("credits purchased", slog.String("account", account.ID), slog.Int("pack", req.Pack))

	return c.JSON(http.StatusOK, response.SuccessResponse(account))
}
