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

// @Summary Список слотов
// @Tags Слоты
// @Produce json
// @Param provider_id query string false "ID врача"
// @Param patient_id query string false "ID пациента"
// @Param status query string false "Статус слота"
// @Param date_from query string false "Начало периода (YYYY-MM-DD)"
// @Param date_to query string false "Конец периода (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} successResponseBody "Слоты"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /slots [get]
func (h *Handler) getSlots(c *gin.Context) {
	var filter domain.SlotFilter

	if v := c.Query("provider_id"); v != "" {
		providerID, err := uuid.Parse(v)
		if err != nil {
			badRequestResponse(c, "неверный формат provider_id")
			return
		}
		filter.ProviderID = &providerID
	}

	if v := c.Query("patient_id"); v != "" {
		patientID, err := uuid.Parse(v)
		if err != nil {
			badRequestResponse(c, "неверный формат patient_id")
			return
		}
		filter.PatientID = &patientID
	}

	if v := c.Query("status"); v != "" {
		status, err := domain.ParseSlotStatus(v)
		if err != nil {
			badRequestResponse(c, "неизвестный статус слота")
			return
		}
		filter.Status = &status
	}

	if v := c.Query("date_from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequestResponse(c, "неверный формат даты начала, ожидается YYYY-MM-DD")
			return
		}
		filter.From = &parsed
	}

	if v := c.Query("date_to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequestResponse(c, "неверный формат даты окончания, ожидается YYYY-MM-DD")
			return
		}
		to := parsed.Add(24*time.Hour - time.Second)
		filter.To = &to
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit >= 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filter.Offset = offset
	}

	slots, err := h.services.Availability.GetSlots(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка получения списка слотов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Забронировать слот
// @Description Бронирует слот за авторизованным пациентом. При конкурентном бронировании выигрывает ровно один запрос
// @Tags Слоты
// @Produce json
// @Param id path string true "ID слота"
// @Success 200 {object} domain.AppointmentSlot "Забронированный слот с номером брони"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 409 {object} errorResponseBody "Слот недоступен для бронирования"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /slots/{id}/book [post]
func (h *Handler) bookSlot(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	patientID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	slot, err := h.services.Booking.Book(c.Request.Context(), slotID, patientID)
	if err != nil {
		h.logger.Warn("ошибка бронирования слота", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Отменить бронирование
// @Description Отменяет бронирование слота. Разрешен только переход BOOKED -> CANCELLED
// @Tags Слоты
// @Produce json
// @Param id path string true "ID слота"
// @Success 200 {object} domain.AppointmentSlot "Слот после отмены"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Чужое бронирование"
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 409 {object} errorResponseBody "Слот не забронирован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /slots/{id}/cancel [put]
func (h *Handler) cancelBooking(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	slot, err := h.services.Booking.Cancel(c.Request.Context(), slotID)
	if err != nil {
		h.logger.Warn("ошибка отмены бронирования", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Обновить слот
// @Description Частично обновляет слот. Перевод в BOOKED напрямую запрещен, при уходе из BOOKED привязка к пациенту очищается
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path string true "ID слота"
// @Param input body domain.UpdateSlotDTO true "Изменяемые поля"
// @Success 200 {object} domain.AppointmentSlot "Обновленный слот"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /slots/{id} [put]
func (h *Handler) updateSlot(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var input domain.UpdateSlotDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	slot, err := h.services.Booking.UpdateSlot(c.Request.Context(), slotID, input)
	if err != nil {
		h.logger.Warn("ошибка обновления слота", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Удалить слот
// @Description Удаляет слот. При delete_recurring=true удаляются одноименные слоты всей повторяющейся серии
// @Tags Слоты
// @Produce json
// @Param id path string true "ID слота"
// @Param delete_recurring query bool false "Удалить слоты всей серии"
// @Param reason query string false "Причина удаления"
// @Success 204 {object} nil "Слот удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 409 {object} errorResponseBody "Среди удаляемых есть забронированный слот"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /slots/{id} [delete]
func (h *Handler) deleteSlot(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	deleteRecurring := c.DefaultQuery("delete_recurring", "false") == "true"
	reason := c.Query("reason")

	if err := h.services.Booking.DeleteSlot(c.Request.Context(), slotID, deleteRecurring, reason); err != nil {
		h.logger.Warn("ошибка удаления слота", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Найти бронь по номеру
// @Tags Слоты
// @Produce json
// @Param reference path string true "Номер брони"
// @Success 200 {object} domain.AppointmentSlot "Забронированный слот"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Бронь не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /bookings/{reference} [get]
func (h *Handler) getBookingByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		badRequestResponse(c, "не указан номер брони")
		return
	}

	slot, err := h.services.Availability.GetSlotByBookingReference(c.Request.Context(), reference)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Предстоящие записи
// @Description Возвращает предстоящие записи авторизованного пользователя в зависимости от его роли
// @Tags Слоты
// @Produce json
// @Success 200 {object} successResponseBody "Предстоящие записи"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/upcoming [get]
func (h *Handler) getUpcomingAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var slots []domain.AppointmentSlot
	if role == domain.UserRoleProvider {
		slots, err = h.services.Availability.GetUpcomingForProvider(c.Request.Context(), userID)
	} else {
		slots, err = h.services.Availability.GetUpcomingForPatient(c.Request.Context(), userID)
	}
	if err != nil {
		h.logger.Error("ошибка получения предстоящих записей", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}
