package handlers

import (
	"net/http"
	"strconv"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/apierrors"
)

// GetFeed — GET /feed?category=&type=&page=&page_size=.
// Пустые параметры получают значения по умолчанию в сервисном слое.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	in := service.FeedInput{
		ViewerID: viewer,
		Category: service.FeedCategory(r.URL.Query().Get("category")),
		Type:     models.PostType(r.URL.Query().Get("type")),
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		in.Page = int32(n)
	}

	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		in.PageSize = int32(n)
	}

	page, err := h.Service.Feed(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, feedPageView(page, viewer))
}
