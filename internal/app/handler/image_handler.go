package handler

import (
	"io"
	"net/http"
	"strings"

	"kidsevents/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// imagesPath публичный путь, по которому отдаются объекты из хранилища
const imagesPath = "/api/images/"

func imageURL(object string) string {
	return imagesPath + object
}

// objectFromURL имя объекта по публичному URL; пусто для чужих ссылок
func objectFromURL(url *string) string {
	if url == nil || !strings.HasPrefix(*url, imagesPath) {
		return ""
	}
	return strings.TrimPrefix(*url, imagesPath)
}

// uploadImage читает файл из поля формы "image" и кладёт его в хранилище
func (h *APIHandler) uploadImage(c *gin.Context, prefix string) (string, bool) {
	if h.Images == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Хранилище изображений не настроено")
		return "", false
	}

	file, err := c.FormFile("image")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден")
		return "", false
	}
	if file.Size > storage.MaxImageSize {
		h.errorResponse(c, http.StatusBadRequest, "Размер файла превышает 5 МБ")
		return "", false
	}
	if _, err := storage.ContentType(file.Filename); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Поддерживаются только jpg, png, gif и webp")
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return "", false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return "", false
	}

	object, err := h.Images.UploadFile(c.Request.Context(), prefix, data, file.Filename)
	if err != nil {
		logrus.Error("Error uploading image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return "", false
	}
	return object, true
}

// removeImage удаляет старое изображение; ошибка только логируется
func (h *APIHandler) removeImage(c *gin.Context, url *string) {
	object := objectFromURL(url)
	if object == "" || h.Images == nil {
		return
	}
	if err := h.Images.DeleteFile(c.Request.Context(), object); err != nil {
		logrus.Warnf("failed to delete image %s: %v", object, err)
	}
}

// GetImage отдаёт изображение из хранилища
// @Summary Изображение
// @Tags Images
// @Produce image/jpeg,image/png,image/gif,image/webp
// @Param object path string true "Имя объекта"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/images/{object} [get]
func (h *APIHandler) GetImage(c *gin.Context) {
	object := strings.TrimPrefix(c.Param("object"), "/")
	if h.Images == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Хранилище изображений не настроено")
		return
	}
	contentType, err := storage.ContentType(object)
	if err != nil || strings.Contains(object, "..") {
		h.errorResponse(c, http.StatusNotFound, "Изображение не найдено")
		return
	}

	exists, err := h.Images.FileExists(c.Request.Context(), object)
	if err != nil {
		logrus.Error("Error checking image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения изображения")
		return
	}
	if !exists {
		h.errorResponse(c, http.StatusNotFound, "Изображение не найдено")
		return
	}

	data, err := h.Images.DownloadFile(c.Request.Context(), object)
	if err != nil {
		logrus.Error("Error downloading image: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения изображения")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
