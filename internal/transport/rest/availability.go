package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

// @Summary Создать окно приема
// @Description Создает окно приема и генерирует слоты записи. При повторяющемся расписании создается серия окон
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path string true "ID врача"
// @Param input body domain.CreateAvailabilityDTO true "Параметры окна приема"
// @Success 201 {object} domain.CreateAvailabilityResult "Сводка по созданным слотам"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /providers/{id}/availability [post]
func (h *Handler) createAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}
	if userID != providerID {
		forbiddenResponse(c, "можно создавать окна приема только в своем расписании")
		return
	}

	var input domain.CreateAvailabilityDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	result, err := h.services.Availability.Create(c.Request.Context(), providerID, input)
	if err != nil {
		h.logger.Warn("ошибка создания окна приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, result)
}

// @Summary Окна приема врача за период
// @Tags Доступность
// @Produce json
// @Param id path string true "ID врача"
// @Param start_date query string true "Дата начала периода (YYYY-MM-DD)"
// @Param end_date query string true "Дата окончания периода (YYYY-MM-DD)"
// @Success 200 {object} successResponseBody "Окна приема"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /providers/{id}/availability [get]
func (h *Handler) getProviderAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		badRequestResponse(c, "параметры start_date и end_date обязательны")
		return
	}

	availabilities, err := h.services.Availability.GetByProviderInRange(c.Request.Context(), providerID, startDate, endDate)
	if err != nil {
		h.logger.Warn("ошибка получения окон приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, availabilities)
}

// @Summary Список окон приема
// @Tags Доступность
// @Produce json
// @Param provider_id query string false "ID врача"
// @Param status query string false "Статус окна"
// @Param start_date query string false "Дата начала периода (YYYY-MM-DD)"
// @Param end_date query string false "Дата окончания периода (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Окна приема"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /availability [get]
func (h *Handler) getAvailabilityList(c *gin.Context) {
	filter := domain.AvailabilityFilter{
		Limit:  20,
		Offset: 0,
	}

	if v := c.Query("provider_id"); v != "" {
		providerID, err := uuid.Parse(v)
		if err != nil {
			badRequestResponse(c, "неверный формат provider_id")
			return
		}
		filter.ProviderID = &providerID
	}

	if v := c.Query("status"); v != "" {
		status, err := domain.ParseAvailabilityStatus(v)
		if err != nil {
			badRequestResponse(c, "неизвестный статус доступности")
			return
		}
		filter.Status = &status
	}

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequestResponse(c, "неверный формат даты начала, ожидается YYYY-MM-DD")
			return
		}
		filter.StartDate = &parsed
	}

	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequestResponse(c, "неверный формат даты окончания, ожидается YYYY-MM-DD")
			return
		}
		filter.EndDate = &parsed
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	availabilities, total, err := h.services.Availability.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения списка окон приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	page := filter.Offset/filter.Limit + 1

	paginatedSuccessResponse(c, availabilities, total, page, filter.Limit)
}

// @Summary Изменить статус окна приема
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path string true "ID окна приема"
// @Param input body updateAvailabilityStatusRequest true "Новый статус"
// @Success 200 {object} domain.Availability "Обновленное окно приема"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Окно приема не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /availability/{id}/status [put]
func (h *Handler) updateAvailabilityStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input updateAvailabilityStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	availability, err := h.services.Availability.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.logger.Warn("ошибка обновления статуса окна приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, availability)
}

// @Summary Удалить окно приема
// @Description Удаляет окно приема вместе со слотами. Окно с забронированными слотами удалить нельзя
// @Tags Доступность
// @Produce json
// @Param id path string true "ID окна приема"
// @Success 204 {object} nil "Окно удалено"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Окно приема не найдено"
// @Failure 409 {object} errorResponseBody "В окне есть забронированные слоты"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /availability/{id} [delete]
func (h *Handler) deleteAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Availability.Delete(c.Request.Context(), id); err != nil {
		h.logger.Warn("ошибка удаления окна приема", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Свободные слоты врача
// @Tags Доступность
// @Produce json
// @Param id path string true "ID врача"
// @Success 200 {object} successResponseBody "Свободные слоты"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /providers/{id}/slots/available [get]
func (h *Handler) getProviderAvailableSlots(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	slots, err := h.services.Availability.GetAvailableSlots(c.Request.Context(), providerID)
	if err != nil {
		h.logger.Error("ошибка получения свободных слотов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

type updateAvailabilityStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
