package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/samandr77/microservices/formrelay/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=../mocks/handler.go -package=mocks

type Service interface {
	Relay(ctx context.Context, sub entity.Submission) error
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{
		s: s,
	}
}

// @Summary Health check
// @Description Reports that the process is alive.
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	SendText(w, http.StatusOK, "OK")
}

// @Summary Send PPR form
// @Description Formats the submitted fields as an HTML table and emails them to the destination address.
// @Tags forms
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body object true "form fields, values are strings or arrays of strings"
// @Success 200 {object} ResponseMessage "Email sent successfully."
// @Failure 400 {object} ResponseError "No data received"
// @Failure 400 {string} string "Invalid JSON format"
// @Failure 413 {object} ResponseError "Request body too large"
// @Failure 500 {object} ResponseError "Server configuration error. / Error sending email."
// @Router /send-ppr-form [post]
func (h *Handler) SendPPRForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := decodeSubmission(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			SendErr(ctx, w, http.StatusRequestEntityTooLarge, err, "Request body too large")
			return
		}

		SendTextErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON format")

		return
	}

	err = h.s.Relay(ctx, sub)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrEmptySubmission):
			SendErr(ctx, w, http.StatusBadRequest, err, "No data received")
		case errors.Is(err, entity.ErrConfiguration):
			SendErr(ctx, w, http.StatusInternalServerError, err, "Server configuration error.")
		default:
			SendErr(ctx, w, http.StatusInternalServerError, err, "Error sending email.")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, ResponseMessage{Message: "Email sent successfully."})
}

// decodeSubmission parses JSON and urlencoded bodies. Other content types
// carry no fields.
func decodeSubmission(r *http.Request) (entity.Submission, error) {
	contentType := r.Header.Get("Content-Type")

	// An invalid parameter still yields the media type together with an error;
	// anything else falls back to the part before the first ';'.
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && mediaType == "" {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}

	var parse func([]byte) (entity.Submission, error)

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		parse = entity.ParseJSONSubmission
	case mediaType == "application/x-www-form-urlencoded":
		parse = entity.ParseFormSubmission
	default:
		return entity.Submission{}, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return entity.Submission{}, fmt.Errorf("read request body: %w", err)
	}

	return parse(body)
}
