package handlers

import (
	"net/http"

	"remedify/internal/metrics"
	"remedify/internal/services"
	"remedify/pkg/faults"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RemediationHandler 修复请求处理器
type RemediationHandler struct {
	dispatcher *services.Dispatcher
	logger     *logrus.Logger
}

// NewRemediationHandler 创建修复处理器
func NewRemediationHandler(dispatcher *services.Dispatcher, logger *logrus.Logger) *RemediationHandler {
	return &RemediationHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Execute 执行单个修复动作
// @Summary 执行修复动作
// @Description 接收一个修复请求并路由到防火墙封禁、审批工单或 SRE 告警
// @Tags 修复
// @Accept json
// @Produce json
// @Param request body object{action=string,target=string,severity=string} true "修复请求"
// @Success 200 {object} services.RemediationResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /execute [post]
func (h *RemediationHandler) Execute(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  services.StatusError,
			Message: "Invalid request body",
		})
		return
	}

	req := services.NewRemediationRequest(body)

	if req.Action == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  services.StatusError,
			Message: "Action is required",
		})
		return
	}

	if !h.dispatcher.Supported(req.Action) {
		metrics.RemediationRequestsTotal.WithLabelValues("other", services.StatusIgnored).Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  services.StatusIgnored,
			Message: "Unsupported action",
		})
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		// 先落日志再响应
		h.logger.Errorf("Remediation action %s failed: %v", req.Action, err)
		metrics.RemediationRequestsTotal.WithLabelValues(req.Action, services.StatusError).Inc()
		c.JSON(statusForError(err), ErrorResponse{
			Status:  services.StatusError,
			Message: err.Error(),
		})
		return
	}

	metrics.RemediationRequestsTotal.WithLabelValues(req.Action, result.Status).Inc()
	c.JSON(http.StatusOK, result)
}

// statusForError 错误类别到 HTTP 状态码的唯一映射点
func statusForError(err error) int {
	if faults.KindOf(err) == faults.InvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
