package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dreamdesign/internal/domain/models"
	"dreamdesign/internal/lib/logger/sl"
	catalog "dreamdesign/internal/services/catalog_service"
	"dreamdesign/internal/transport/http/dto/request"
	"dreamdesign/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// HeroDemos godoc
// @Summary Слайдеры "до/после" для главной страницы
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.DemoPair}
// @Router /api/v1/catalog/hero [get]
func (r *Routers) HeroDemos(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.HeroDemos()))
}

// AuthDemos godoc
// @Summary Слайдеры для страницы входа
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.DemoPair}
// @Router /api/v1/catalog/auth [get]
func (r *Routers) AuthDemos(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.AuthDemos()))
}

// FeatureImages godoc
// @Summary Изображения блока возможностей
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ImageRecord}
// @Router /api/v1/catalog/features [get]
func (r *Routers) FeatureImages(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.FeatureImages()))
}

// GalleryItems godoc
// @Summary Галерея работ
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ImageRecord}
// @Router /api/v1/catalog/gallery [get]
func (r *Routers) GalleryItems(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.GalleryItems()))
}

// Styles godoc
// @Summary Каталог стилей с текущими изображениями
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.StyleDefinition}
// @Router /api/v1/catalog/styles [get]
func (r *Routers) Styles(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.Styles()))
}

// RoomTypes godoc
// @Summary Типы комнат
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/catalog/rooms [get]
func (r *Routers) RoomTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(models.RoomTypes))
}

// ListImages godoc
// @Summary Все записи каталога
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ImageRecord}
// @Router /api/v1/admin/images [get]
func (r *Routers) ListImages(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CatalogService.GetAll()))
}

// GetImage godoc
// @Summary Запись каталога по id
// @Tags admin
// @Produce json
// @Param id path string true "ID изображения"
// @Success 200 {object} response.Response{data=models.ImageRecord}
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Router /api/v1/admin/images/{id} [get]
func (r *Routers) GetImage(c echo.Context) error {
	rec, ok := r.CatalogService.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, response.ErrImageNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// UploadImage godoc
// @Summary Замена изображения загрузкой файла
// @Description Файл сжимается (до 800px, JPEG) и сохраняется как data URI.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID изображения"
// @Param file formData file true "Файл изображения"
// @Success 200 {object} response.Response{data=models.ImageRecord}
// @Failure 400 {object} response.ErrorResponse "Файл не передан"
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Router /api/v1/admin/images/{id}/upload [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("file is missing", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails("file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("failed to open upload", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	defer file.Close()

	rec, err := r.CatalogService.ReplaceViaUpload(c.Request().Context(), c.Param("id"), file)
	if err != nil {
		return r.catalogError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// SetImageURL godoc
// @Summary Замена изображения ссылкой
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID изображения"
// @Param request body request.ImageURLRequest true "Новый URL"
// @Success 200 {object} response.Response{data=models.ImageRecord}
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Router /api/v1/admin/images/{id}/url [put]
func (r *Routers) SetImageURL(c echo.Context) error {
	const op = "http.routers.SetImageURL"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	var req request.ImageURLRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	rec, err := r.CatalogService.ReplaceViaURL(c.Request().Context(), c.Param("id"), req.URL)
	if err != nil {
		return r.catalogError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// UpdateImages godoc
// @Summary Пакетное изменение подписей и ссылок
// @Description Неизвестные id пропускаются, отсутствующие поля не меняются, пустая строка очищает поле.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.BatchUpdateRequest true "Изменения"
// @Success 200 {object} response.Response{data=object{updated=int}}
// @Router /api/v1/admin/images [put]
func (r *Routers) UpdateImages(c echo.Context) error {
	var req request.BatchUpdateRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	patches := make([]models.ImagePatch, 0, len(req.Images))
	for _, p := range req.Images {
		patches = append(patches, models.ImagePatch{ID: p.ID, Label: p.Label, Src: p.Src})
	}

	updated := r.CatalogService.UpdateBatch(c.Request().Context(), patches)

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]int{"updated": updated}))
}

// ResetImage godoc
// @Summary Сброс изображения к значению по умолчанию
// @Tags admin
// @Produce json
// @Param id path string true "ID изображения"
// @Success 200 {object} response.Response{data=models.ImageRecord}
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Router /api/v1/admin/images/{id}/reset [post]
func (r *Routers) ResetImage(c echo.Context) error {
	id := c.Param("id")

	if _, ok := r.CatalogService.Get(id); !ok {
		return c.JSON(http.StatusNotFound, response.ErrImageNotFound)
	}

	r.CatalogService.Reset(c.Request().Context(), id)

	rec, _ := r.CatalogService.Get(id)
	return c.JSON(http.StatusOK, response.SuccessResponse(rec))
}

// ResetAllImages godoc
// @Summary Сброс всего каталога
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/admin/images/reset [post]
func (r *Routers) ResetAllImages(c echo.Context) error {
	r.CatalogService.ResetAll(c.Request().Context())

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "catalog reset to defaults"})
}

// ExportImages godoc
// @Summary Экспорт каталога как нового seed-файла
// @Tags admin
// @Produce application/x-yaml
// @Success 200 {file} file
// @Router /api/v1/admin/images/export [get]
func (r *Routers) ExportImages(c echo.Context) error {
	const op = "http.routers.ExportImages"

	data, err := r.CatalogService.Export()
	if err != nil {
		r.log.Error("export failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	name := fmt.Sprintf("catalog-seed-%s.yaml", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))

	return c.Blob(http.StatusOK, "application/x-yaml", data)
}

func (r *Routers) catalogError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, catalog.ErrImageNotFound):
		return c.JSON(http.StatusNotFound, response.ErrImageNotFound)
	case errors.Is(err, catalog.ErrUploadTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, response.ErrInvalidRequestFormat.WithDetails(err.Error()))
	}

	log.Error("catalog update failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}
