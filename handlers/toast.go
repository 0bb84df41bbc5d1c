package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// setTrigger adds one event to the HX-Trigger response header. If an HX-Trigger
// header already exists, the event is merged into the existing JSON object.
func setTrigger(e *core.RequestEvent, event string, detail any) {
	merged := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			zap.L().Warn("toast: existing HX-Trigger is not valid JSON, overwriting", zap.Error(err))
			merged = map[string]any{}
		}
	}
	merged[event] = detail

	data, err := json.Marshal(merged)
	if err != nil {
		zap.L().Error("toast: failed to marshal HX-Trigger JSON", zap.Error(err))
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// TriggerEvent fires a client-side event with no payload.
func TriggerEvent(e *core.RequestEvent, event string) {
	setTrigger(e, event, true)
}

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	toast := map[string]string{
		"message": message,
		"type":    toastType,
	}
	setTrigger(e, "showToast", toast)

	// Also set a flash cookie for non-HTMX redirects (302) where HX-Trigger is lost
	cookieVal, err := json.Marshal(toast)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
