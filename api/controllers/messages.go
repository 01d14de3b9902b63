package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberforge/shopledger-backend/api/responses"
	"github.com/emberforge/shopledger-backend/api/validators"
	"github.com/emberforge/shopledger-backend/internal/messages"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

const messageContentMaxRunes = 2048

type SaveMessageBody struct {
	Receiver string `json:"receiver" validate:"required,uuid"`
	Content  string `json:"content" validate:"required,max=2048"`
}

type messageResponse struct {
	ID      int64  `json:"id"`
	Time    string `json:"time"`
	Content string `json:"content"`
}

func SaveMessage(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body SaveMessageBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receiver, err := uuid.Parse(body.Receiver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid receiver"))
			return
		}

		content := validators.SanitizeString(body.Content, messageContentMaxRunes)
		if err := svc.Save(r.Context(), receiver, content); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"queued": true})
	}
}

// PullMessages drains the receiver's queue; each message is delivered once.
func PullMessages(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receiver, err := uuid.Parse(chi.URLParam(r, "receiverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid receiver id"))
			return
		}

		rows, err := svc.Pull(r.Context(), receiver)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]messageResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, messageResponse{
				ID:      row.ID,
				Time:    row.Time.UTC().Format(time.RFC3339),
				Content: row.Content,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
