package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"genfity-order-admin/internal/console"
)

const pesananPath = "/admin/pesanan"

func readPathString(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

// decodeJSON reads a small JSON body. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// page resolves the operator's page from the session cookie, issuing a new
// cookie when the session is new.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) *console.Page {
	name := h.Config.SessionCookieName
	if name == "" {
		name = "pesanan_session"
	}
	current := ""
	if c, err := r.Cookie(name); err == nil {
		current = c.Value
	}
	page, id := h.Sessions.Get(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   !h.Config.IsDevelopment() && r.TLS != nil,
		})
	}
	return page
}

func pesananHref(location string) string {
	if location == "" {
		return pesananPath
	}
	return pesananPath + "?" + location
}

func sanitizeFilename(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "order"
	}
	return b.String()
}
