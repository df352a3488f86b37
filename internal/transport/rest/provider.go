package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

const maxLicenseDocumentSize = 10 << 20

// @Summary Регистрация врача
// @Description Регистрирует нового врача со статусом верификации PENDING
// @Tags Врачи
// @Accept json
// @Produce json
// @Param input body domain.RegisterProviderDTO true "Данные для регистрации"
// @Success 201 {object} domain.Provider "Созданный профиль врача"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Email, телефон или номер лицензии уже используется"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /providers/register [post]
func (h *Handler) registerProvider(c *gin.Context) {
	var input domain.RegisterProviderDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	provider, err := h.services.Provider.Register(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка при регистрации врача", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, provider)
}

// @Summary Список врачей
// @Description Возвращает список врачей с фильтрами по специализации и адресу клиники
// @Tags Врачи
// @Produce json
// @Param specialization query string false "Специализация"
// @Param city query string false "Город"
// @Param state query string false "Штат"
// @Param verification_status query string false "Статус верификации"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список врачей"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /providers [get]
func (h *Handler) getProviders(c *gin.Context) {
	filter := domain.ProviderFilter{
		Limit:  20,
		Offset: 0,
	}

	if v := c.Query("specialization"); v != "" {
		filter.Specialization = &v
	}
	if v := c.Query("city"); v != "" {
		filter.City = &v
	}
	if v := c.Query("state"); v != "" {
		filter.State = &v
	}
	if v := c.Query("verification_status"); v != "" {
		status, err := domain.ParseVerificationStatus(v)
		if err != nil {
			badRequestResponse(c, "неизвестный статус верификации")
			return
		}
		filter.VerificationStatus = &status
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	providers, total, err := h.services.Provider.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении списка врачей", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	page := filter.Offset/filter.Limit + 1

	paginatedSuccessResponse(c, providers, total, page, filter.Limit)
}

// @Summary Получить врача по ID
// @Tags Врачи
// @Produce json
// @Param id path string true "ID врача"
// @Success 200 {object} domain.Provider "Профиль врача"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /providers/{id} [get]
func (h *Handler) getProviderByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	provider, err := h.services.Provider.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, provider)
}

// @Summary Загрузить скан лицензии
// @Description Загружает документ лицензии врача для прохождения верификации
// @Tags Врачи
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID врача"
// @Param document formData file true "Скан лицензии (изображение или PDF)"
// @Success 200 {object} map[string]string "URL загруженного документа"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /providers/{id}/license-document [post]
func (h *Handler) uploadLicenseDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}
	if userID != id {
		forbiddenResponse(c, "можно загружать документы только в свой профиль")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		badRequestResponse(c, "файл документа не передан")
		return
	}
	if fileHeader.Size > maxLicenseDocumentSize {
		badRequestResponse(c, "размер документа не должен превышать 10 МБ")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	url, err := h.services.Provider.UploadLicenseDocument(c.Request.Context(), id, data, fileHeader.Filename)
	if err != nil {
		h.logger.Error("ошибка загрузки документа", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"license_document_url": url})
}

// @Summary Изменить статус верификации врача
// @Tags Врачи
// @Accept json
// @Produce json
// @Param id path string true "ID врача"
// @Param input body updateVerificationRequest true "Новый статус"
// @Success 200 {object} messageResponseType "Статус обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /providers/{id}/verification [put]
func (h *Handler) updateProviderVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input updateVerificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Provider.UpdateVerificationStatus(c.Request.Context(), id, input.Status); err != nil {
		h.logger.Warn("ошибка обновления статуса верификации", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "статус верификации обновлен")
}

type updateVerificationRequest struct {
	Status string `json:"status" binding:"required"`
}
