package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	appmiddleware "dreamdesign/internal/middleware"
	httprouters "dreamdesign/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, host, port string, timeout time.Duration, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()

	if timeout > 0 {
		e.Server.ReadTimeout = timeout
		e.Server.WriteTimeout = timeout
	}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	s := &Server{
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}

	s.BuildRouters()

	return s
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.host, s.port)
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.GET("/metrics", echoprometheus.NewHandler())
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.e.Group("/api/v1")
	{
		api.POST("/signup", s.routers.Signup)
		api.POST("/login", s.routers.Login)
		api.POST("/login/google", s.routers.LoginWithGoogle)
		api.POST("/logout", s.routers.Logout)
		api.GET("/me", s.routers.Me)

		credits := api.Group("/credits")
		{
			credits.GET("/packs", s.routers.CreditPacks)
			credits.POST("/purchase", s.routers.PurchaseCredits)
		}

		api.POST("/generate", s.routers.Generate)
		api.GET("/results", s.routers.Results)
		api.PUT("/results/active", s.routers.SetActiveResult)
		api.DELETE("/results", s.routers.ClearResults)

		catalog := api.Group("/catalog")
		{
			catalog.GET("/hero", s.routers.HeroDemos)
			catalog.GET("/auth", s.routers.AuthDemos)
			catalog.GET("/features", s.routers.FeatureImages)
			catalog.GET("/gallery", s.routers.GalleryItems)
			catalog.GET("/styles", s.routers.Styles)
			catalog.GET("/rooms", s.routers.RoomTypes)
		}

		images := api.Group("/admin/images")
		{
			images.GET("", s.routers.ListImages)
			images.PUT("", s.routers.UpdateImages)
			images.GET("/export", s.routers.ExportImages)
			images.POST("/reset", s.routers.ResetAllImages)
			images.GET("/:id", s.routers.GetImage)
			images.POST("/:id/upload", s.routers.UploadImage)
			images.PUT("/:id/url", s.routers.SetImageURL)
			images.POST("/:id/reset", s.routers.ResetImage)
		}
	}
}
