package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/apierrors"
)

// CreatePostRequest — тело POST /posts.
type CreatePostRequest struct {
	Content    string      `json:"content"`
	Media      []MediaView `json:"media"`
	Type       string      `json:"type"`
	Tags       []string    `json:"tags"`
	Visibility string      `json:"visibility"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CreatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	media := make([]models.MediaRef, 0, len(in.Media))
	for _, m := range in.Media {
		media = append(media, models.MediaRef{Kind: models.MediaKind(m.Kind), Ref: m.Ref})
	}

	post, err := h.Service.CreatePost(r.Context(), service.CreatePostInput{
		AuthorID:   viewer,
		Content:    in.Content,
		Media:      media,
		Type:       models.PostType(in.Type),
		Tags:       in.Tags,
		Visibility: models.Visibility(in.Visibility),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, postView(post, viewer))
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	post, err := h.Service.PostForViewer(r.Context(), id, viewer)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postView(post, viewer))
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.DeletePost(r.Context(), id, viewer); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleSave(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	post, err := h.Service.ToggleSave(r.Context(), id, viewer)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postView(post, viewer))
}

func (h *Handlers) SharePost(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	post, err := h.Service.Share(r.Context(), id, viewer)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postView(post, viewer))
}
