package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/apierrors"
)

// CommentRequest — тело POST /posts/{id}/comments и .../replies.
type CommentRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	comment, err := h.Service.AddComment(r.Context(), service.AddCommentInput{
		PostID:   chi.URLParam(r, "id"),
		AuthorID: viewer,
		Content:  in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentView(comment, viewer))
}

func (h *Handlers) AddReply(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	reply, err := h.Service.AddReply(r.Context(), service.AddReplyInput{
		PostID:    chi.URLParam(r, "id"),
		CommentID: chi.URLParam(r, "comment_id"),
		AuthorID:  viewer,
		Content:   in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentView(reply, viewer))
}

func (h *Handlers) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comment, err := h.Service.ToggleCommentLike(r.Context(), service.ToggleCommentLikeInput{
		PostID:    chi.URLParam(r, "id"),
		CommentID: chi.URLParam(r, "comment_id"),
		ViewerID:  viewer,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentView(comment, viewer))
}

// ListComments — GET /posts/{id}/comments?order=recent|top.
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comments, err := h.Service.PostComments(
		r.Context(),
		chi.URLParam(r, "id"),
		viewer,
		service.CommentOrder(r.URL.Query().Get("order")),
	)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentsView(comments, viewer))
}
