package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/apierrors"
)

// ReactionRequest — тело POST /posts/{id}/reactions.
// Повторная отправка того же вида работает как toggle-off.
type ReactionRequest struct {
	Kind string `json:"kind"`
}

func (h *Handlers) React(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in ReactionRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	post, err := h.Service.React(r.Context(), service.ReactInput{
		PostID:   chi.URLParam(r, "id"),
		ViewerID: viewer,
		Kind:     models.ReactionKind(in.Kind),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postView(post, viewer))
}
