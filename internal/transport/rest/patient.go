package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

// @Summary Регистрация пациента
// @Description Регистрирует нового пациента со статусом верификации PENDING
// @Tags Пациенты
// @Accept json
// @Produce json
// @Param input body domain.RegisterPatientDTO true "Данные для регистрации"
// @Success 201 {object} domain.Patient "Созданный профиль пациента"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Email, телефон или SSN уже используется"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /patients/register [post]
func (h *Handler) registerPatient(c *gin.Context) {
	var input domain.RegisterPatientDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	patient, err := h.services.Patient.Register(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка при регистрации пациента", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, patient)
}

// @Summary Текущий пациент
// @Description Возвращает профиль авторизованного пациента
// @Tags Пациенты
// @Produce json
// @Success 200 {object} domain.Patient "Профиль пациента"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Пациент не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /patients/me [get]
func (h *Handler) getCurrentPatient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	patient, err := h.services.Patient.GetByID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, patient)
}

// @Summary Изменить статус верификации пациента
// @Tags Пациенты
// @Accept json
// @Produce json
// @Param id path string true "ID пациента"
// @Param input body updateVerificationRequest true "Новый статус"
// @Success 200 {object} messageResponseType "Статус обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Пациент не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /patients/{id}/verification [put]
func (h *Handler) updatePatientVerification(c *gin.Context) {
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

	if err := h.services.Patient.UpdateVerificationStatus(c.Request.Context(), id, input.Status); err != nil {
		h.logger.Warn("ошибка обновления статуса верификации", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "статус верификации обновлен")
}
