package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

const maxAvatarBytes = 8 << 20

type AccountHandler struct {
	log            *logger.Logger
	accountService services.AccountService
}

func NewAccountHandler(log *logger.Logger, accountService services.AccountService) *AccountHandler {
	handlerLogger := log.With("handler", "AccountHandler")
	return &AccountHandler{log: handlerLogger, accountService: accountService}
}

// GET /me
func (h *AccountHandler) Me(c *gin.Context) {
	profile, err := h.accountService.Me(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// PUT /me/avatar
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}

	user, err := h.accountService.UploadAvatarImage(c.Request.Context(), raw)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
