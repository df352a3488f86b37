package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

// @Summary Поиск свободных слотов
// @Description Ищет свободные слоты по критериям и группирует результаты по врачам. Без указания периода поиск идет на месяц вперед
// @Tags Поиск
// @Produce json
// @Param date query string false "Конкретная дата (YYYY-MM-DD)"
// @Param start_date query string false "Начало периода (YYYY-MM-DD)"
// @Param end_date query string false "Конец периода (YYYY-MM-DD)"
// @Param specialization query string false "Специализация врача"
// @Param appointment_type query string false "Тип приема"
// @Param insurance_accepted query bool false "Принимается ли страховка"
// @Param max_price query number false "Максимальная стоимость приема"
// @Success 200 {object} domain.SearchResult "Результаты поиска"
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /search/slots [get]
func (h *Handler) searchAvailableSlots(c *gin.Context) {
	var criteria domain.SearchCriteria

	if v := c.Query("date"); v != "" {
		criteria.Date = &v
	}
	if v := c.Query("start_date"); v != "" {
		criteria.StartDate = &v
	}
	if v := c.Query("end_date"); v != "" {
		criteria.EndDate = &v
	}
	if v := c.Query("specialization"); v != "" {
		criteria.Specialization = &v
	}
	if v := c.Query("appointment_type"); v != "" {
		criteria.AppointmentType = &v
	}
	if v := c.Query("insurance_accepted"); v != "" {
		accepted, err := strconv.ParseBool(v)
		if err != nil {
			badRequestResponse(c, "неверный формат insurance_accepted")
			return
		}
		criteria.InsuranceAccepted = &accepted
	}
	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			badRequestResponse(c, "неверный формат max_price")
			return
		}
		criteria.MaxPrice = &price
	}

	result, err := h.services.Search.SearchAvailableSlots(c.Request.Context(), criteria)
	if err != nil {
		h.logger.Warn("ошибка поиска слотов", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, result)
}
