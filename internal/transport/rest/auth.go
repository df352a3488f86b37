package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

// @Summary Вход врача
// @Description Авторизует врача и возвращает токен доступа
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Данные для входа"
// @Success 200 {object} domain.ProviderLoginResponse "Токен доступа и профиль врача"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Неверные учетные данные"
// @Failure 403 {object} errorResponseBody "Аккаунт не прошел верификацию"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/provider/login [post]
func (h *Handler) loginProvider(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	response, err := h.services.Auth.LoginProvider(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка при входе врача", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, response)
}

// @Summary Вход пациента
// @Description Авторизует пациента и возвращает токен доступа
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Данные для входа"
// @Success 200 {object} domain.PatientLoginResponse "Токен доступа и профиль пациента"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Неверные учетные данные"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/patient/login [post]
func (h *Handler) loginPatient(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	response, err := h.services.Auth.LoginPatient(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка при входе пациента", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, response)
}
