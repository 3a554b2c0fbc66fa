package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/http/response"
)

// AudioLocator resolves a global verse id to a recitation audio URL.
type AudioLocator interface {
	AudioURL(verseID int) string
}

// handleVerseAudio redirects to the CDN recording for a verse.
// GET /api/v1/audio/{verseID}
// A redirect keeps the audio element pointed at this server while the
// bytes come straight from the CDN.
func (s *Server) handleVerseAudio(w http.ResponseWriter, r *http.Request) {
	verseID, err := strconv.Atoi(chi.URLParam(r, "verseID"))
	if err != nil {
		response.BadRequest(w, "Verse ID must be a number", s.logger)
		return
	}

	if verseID < 1 || verseID > domain.VerseCount {
		response.NotFound(w, "Verse not found", s.logger)
		return
	}

	if s.audio == nil {
		response.InternalError(w, "Audio source not configured", s.logger)
		return
	}

	http.Redirect(w, r, s.audio.AudioURL(verseID), http.StatusFound)
}
