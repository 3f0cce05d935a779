package webui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptwizard/catalog"
	"promptwizard/composer"
	"promptwizard/parser"
	"promptwizard/vision"
)

// ChatClient is the LLM surface the API depends on. Implemented by
// llm.Client; replaced by a stub in tests.
type ChatClient interface {
	Send(ctx context.Context, systemInstruction, userMessage string) (string, error)
	SendVision(ctx context.Context, instruction string, image []byte, mime string) (string, error)
}

// generateRequest is the body of POST /api/generate. Mode is the
// human-readable label; unknown labels resolve to the default mode.
type generateRequest struct {
	Mode        string            `json:"mode"`
	FreeText    string            `json:"free_text"`
	Selections  map[string]string `json:"selections"`
	Custom      map[string]string `json:"custom"`
	AspectRatio string            `json:"aspect_ratio"`
	Stylize     int               `json:"stylize"`
	Chaos       int               `json:"chaos"`
	Negative    string            `json:"negative"`
}

type generateResponse struct {
	Mode  string      `json:"mode"`
	PlanA parser.Plan `json:"planA"`
	PlanB parser.Plan `json:"planB"`
}

type describeResponse struct {
	Description string `json:"description"`
	Generation  string `json:"generation"`
}

// handleGenerate composes the chat request, sends it, parses the dual-plan
// reply and appends the flag suffix to both generations. Parsing never
// fails: a malformed reply degrades to the raw text so the user always
// sees something usable.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FreeText) == "" {
		writeError(w, http.StatusBadRequest, "free_text is required")
		return
	}

	mode := catalog.ModeFromLabel(req.Mode)
	selections := composer.SelectionsFromMap(mode, req.Selections, req.Custom)
	chatReq := composer.Compose(mode, req.FreeText, selections)

	ctx, cancel := context.WithTimeout(r.Context(), s.aiTimeout)
	defer cancel()

	reply, err := s.chat.Send(ctx, chatReq.SystemInstruction, chatReq.UserMessage)
	if err != nil {
		s.logger.Error("chat completion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "generation service unavailable")
		return
	}

	plans := parser.ParseDualPlan(reply)
	suffix := composer.Suffix(mode, composer.Flags{
		Ratio:    req.AspectRatio,
		Stylize:  req.Stylize,
		Chaos:    req.Chaos,
		Negative: req.Negative,
	})
	plans.A.Generation = composer.ApplySuffix(plans.A.Generation, suffix)
	plans.B.Generation = composer.ApplySuffix(plans.B.Generation, suffix)

	writeJSON(w, http.StatusOK, generateResponse{
		Mode:  mode.Label,
		PlanA: plans.A,
		PlanB: plans.B,
	})
}

// handleDescribe accepts a multipart image upload, normalizes it for the
// vision model and returns a single description/generation pair. An
// optional aspect_ratio form field feeds the appended flag suffix.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image upload too large or malformed")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image upload")
		return
	}

	prepared, mime, err := vision.Prepare(raw, s.maxImageEdge)
	if err != nil {
		if errors.Is(err, vision.ErrEmptyImage) || errors.Is(err, vision.ErrInvalidImage) {
			writeError(w, http.StatusUnprocessableEntity, "unsupported or corrupt image")
			return
		}
		s.logger.Error("image preprocessing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "image processing failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.aiTimeout)
	defer cancel()

	reply, err := s.chat.SendVision(ctx, composer.VisionInstruction, prepared, mime)
	if err != nil {
		s.logger.Error("vision completion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "vision service unavailable")
		return
	}

	plan := parser.ParsePair(reply)
	suffix := composer.RatioSuffix(r.FormValue("aspect_ratio"))
	plan.Generation = composer.ApplySuffix(plan.Generation, suffix)

	writeJSON(w, http.StatusOK, describeResponse(plan))
}

// modePayload is the form-rendering view of one mode.
type modePayload struct {
	Label       string             `json:"label"`
	AppendFlags bool               `json:"append_flags"`
	Dimensions  []dimensionPayload `json:"dimensions"`
}

type dimensionPayload struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Options []catalog.Option `json:"options"`
}

type modesResponse struct {
	Modes        []modePayload `json:"modes"`
	AspectRatios []string      `json:"aspect_ratios"`
	MaxStylize   int           `json:"max_stylize"`
	MaxChaos     int           `json:"max_chaos"`
}

// handleModes returns the full catalogue so the client can render the form
// without hardcoding options.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	modes := catalog.Modes()
	payload := make([]modePayload, 0, len(modes))
	for _, mode := range modes {
		dims := catalog.DimensionsForMode(mode)
		dimPayload := make([]dimensionPayload, 0, len(dims))
		for _, d := range dims {
			dimPayload = append(dimPayload, dimensionPayload{
				ID:      string(d.ID),
				Name:    d.Name,
				Options: d.Options,
			})
		}
		payload = append(payload, modePayload{
			Label:       mode.Label,
			AppendFlags: mode.AppendFlags,
			Dimensions:  dimPayload,
		})
	}

	writeJSON(w, http.StatusOK, modesResponse{
		Modes:        payload,
		AspectRatios: catalog.AspectRatios(),
		MaxStylize:   composer.MaxStylize,
		MaxChaos:     composer.MaxChaos,
	})
}

// handleHealth is the unauthenticated liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
