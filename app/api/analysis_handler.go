package api

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"docqa/app/agent"
	"docqa/types"
)

type AnalysisHandler struct {
	agent *agent.Agent
}

func NewAnalysisHandler(a *agent.Agent) *AnalysisHandler {
	return &AnalysisHandler{
		agent: a,
	}
}

func (h *AnalysisHandler) HandleFileAnalysis(c *fiber.Ctx) error {
	params := types.AnalysisParams{
		Model:     c.FormValue("model"),
		Prompt:    c.FormValue("prompt"),
		SessionID: c.FormValue("session_id"),
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	req := agent.Request{
		Model:     params.Model,
		Prompt:    params.Prompt,
		SessionID: params.SessionID,
	}

	// The file field is optional; a prompt-only request reuses a session.
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return ErrBadRequest()
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return ErrBadRequest()
		}
		req.FileName = fileHeader.Filename
		req.File = data
	}

	result, err := h.agent.Analyze(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(types.AnalysisResponse{
		Response:  result.Response,
		SessionID: result.SessionID,
	})
}

func (h *AnalysisHandler) HandleResetSession(c *fiber.Ctx) error {
	params := types.ResetParams{
		SessionID: c.FormValue("session_id"),
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	if err := h.agent.ResetSession(params.SessionID); err != nil {
		return err
	}

	return c.JSON(types.ResetResponse{
		Status:  "success",
		Message: "Session reset successfully.",
	})
}
