package httpapi

import "net/http"

// GetPublishedLeaderboard serves the cached top-10 view for a partition.
func (h *Handler) GetPublishedLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPublishedLeaderboard")
	defer span.End()

	partition, err := partitionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.PublishedView(ctx, partition)
	if err != nil {
		h.logger.WarnContext(ctx, "published leaderboard failed", "partition", partition.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(ctx, partition, entries))
}

// GetFullLeaderboard serves every row of a partition in rank order, bypassing
// the published-view cache and its size cap.
func (h *Handler) GetFullLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFullLeaderboard")
	defer span.End()

	partition, err := partitionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.ListFull(ctx, partition)
	if err != nil {
		h.logger.WarnContext(ctx, "full leaderboard failed", "partition", partition.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(ctx, partition, entries))
}
