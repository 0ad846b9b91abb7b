package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

// Screenshot uploads beyond this size are rejected before reaching the
// extractor.
const maxScoreboardImageBytes = 8 << 20

func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestBatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req ingestBatchRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	window, err := ledger.ParseWindow(req.Window)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	partition := ledger.Partition{Lobby: strings.TrimSpace(req.Lobby), Window: window}

	result, err := h.ingestionService.Ingest(ctx, partition, toIngestRows(req.Rows), ledger.SourceManual, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "batch ingest failed", "partition", partition.String(), "actor", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, ingestResultToDTO(result))
}

func (h *Handler) IngestFromImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestFromImage")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	lobby := strings.TrimSpace(r.URL.Query().Get("lobby"))
	window, err := ledger.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	partition := ledger.Partition{Lobby: lobby, Window: window}

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScoreboardImageBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: reading image body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(image) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: image body is empty", usecase.ErrInvalidInput))
		return
	}

	result, err := h.ingestionService.IngestFromImage(ctx, partition, image, r.Header.Get("Content-Type"), principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "image ingest failed", "partition", partition.String(), "actor", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, ingestResultToDTO(result))
}

func (h *Handler) AddRow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRow")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addRowRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	window, err := ledger.ParseWindow(req.Window)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	partition := ledger.Partition{Lobby: strings.TrimSpace(req.Lobby), Window: window}

	entry, err := h.ingestionService.AddSingleRow(ctx, partition, usecase.IngestRow{
		TeamName: req.TeamName,
		Kills:    req.Kills,
		Points:   req.Points,
	}, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "add row failed", "partition", partition.String(), "actor", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(ctx, entry))
}

func (h *Handler) RevertBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevertBatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	batchID := strings.TrimSpace(r.PathValue("batchID"))
	result, err := h.revertService.Revert(ctx, batchID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "revert batch failed", "batch_id", batchID, "actor", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, revertResultToDTO(result))
}

func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBatches")
	defer span.End()

	filter := ledger.Filter{Lobby: strings.TrimSpace(r.URL.Query().Get("lobby"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("window")); raw != "" {
		window, err := ledger.ParseWindow(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		filter.Window = window
	}

	batches, err := h.revertService.ListBatches(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list batches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]batchRecordDTO, 0, len(batches))
	for _, b := range batches {
		items = append(items, batchRecordToDTO(b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPurchaseRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPurchaseRequests")
	defer span.End()

	status := economy.RequestStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	requests, err := h.pointsService.ListRequests(ctx, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list purchase requests failed", "status", string(status), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, purchaseRequestsToDTO(requests))
}

func (h *Handler) ApprovePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	h.decidePurchaseRequest(w, r, economy.StatusApproved)
}

func (h *Handler) RejectPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	h.decidePurchaseRequest(w, r, economy.StatusRejected)
}

func (h *Handler) decidePurchaseRequest(w http.ResponseWriter, r *http.Request, decision economy.RequestStatus) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.decidePurchaseRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	orderID := strings.TrimSpace(r.PathValue("orderID"))
	result, err := h.pointsService.Decide(ctx, orderID, decision, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase decision failed", "order_id", orderID, "decision", string(decision), "actor", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, decisionDTO{
		Applied: result.Applied,
		Request: purchaseRequestToDTO(result.Request),
	})
}

func (h *Handler) ExportPartition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportPartition")
	defer span.End()

	partition, err := partitionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	export, err := h.exportService.ExportPartition(ctx, partition)
	if err != nil {
		h.logger.WarnContext(ctx, "partition export failed", "partition", partition.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, partitionExportToDTO(ctx, export))
}

func (h *Handler) ExportPurchaseRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportPurchaseRequests")
	defer span.End()

	requests, err := h.exportService.ExportPurchaseRequests(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase export failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, purchaseRequestsToDTO(requests))
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportBackup")
	defer span.End()

	backup, err := h.exportService.ExportBackup(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "backup export failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, backupExportToDTO(ctx, backup))
}

func toIngestRows(records []ingestRowRecord) []usecase.IngestRow {
	rows := make([]usecase.IngestRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, usecase.IngestRow{
			TeamName: rec.TeamName,
			Kills:    rec.Kills,
			Points:   rec.Points,
		})
	}
	return rows
}
