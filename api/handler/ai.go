package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskpilot/backend/api/transport"
	"github.com/taskpilot/backend/pkg/httpcontext"
	taskUC "github.com/taskpilot/backend/usecase/task"
)

// AIHandler exposes the enrichment operations. Enrichment failures never
// surface here; the service degrades to fallback content instead.
type AIHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewAIHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Generate and persist suggestions for a task
// @Tags ai
// @Router /api/ai/suggestions/{taskId} [post]
func (h *AIHandler) GenerateSuggestions(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	taskID, _ := ctx.UserValue("taskId").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	suggestions, err := h.uc.SuggestTask(stdCtx, userID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, suggestions)
}

// @Summary Generate a task description
// @Tags ai
// @Router /api/ai/description [post]
func (h *AIHandler) GenerateDescription(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.DescriptionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	description, err := h.uc.DescribeTask(stdCtx, req.Title, req.Category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"description": description})
}

// @Summary Break a task down into steps
// @Tags ai
// @Router /api/ai/breakdown/{taskId} [post]
func (h *AIHandler) GenerateBreakdown(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	taskID, _ := ctx.UserValue("taskId").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	steps, err := h.uc.BreakdownTask(stdCtx, userID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, steps)
}

// @Summary Categorize a task
// @Tags ai
// @Router /api/ai/categorize [post]
func (h *AIHandler) CategorizeTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.CategorizeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	category, err := h.uc.CategorizeTask(stdCtx, req.Title, req.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"category": category})
}
