package flashsale

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/noah-isme/mall-checkout/internal/common"
)

// Handler exposes batch flash-sale resolution over HTTP.
type Handler struct {
	Now func() time.Time
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type resolveRequest struct {
	Variants []Variant `json:"variants"`
}

// Resolve annotates the posted variants with their current sale state.
func (h Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var payload resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if len(payload.Variants) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "at least one variant is required", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ResolveAll(payload.Variants, h.now())})
}
