package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

type Handler struct {
	leaderboardService *usecase.LeaderboardService
	ingestionService   *usecase.IngestionService
	revertService      *usecase.RevertService
	pointsService      *usecase.PointsService
	profileService     *usecase.ProfileService
	exportService      *usecase.ExportService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	ingestionService *usecase.IngestionService,
	revertService *usecase.RevertService,
	pointsService *usecase.PointsService,
	profileService *usecase.ProfileService,
	exportService *usecase.ExportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService: leaderboardService,
		ingestionService:   ingestionService,
		revertService:      revertService,
		pointsService:      pointsService,
		profileService:     profileService,
		exportService:      exportService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// partitionFromPath reads the {lobby}/{window} path segments. Validation of
// the lobby set happens in the usecase layer; only the window spelling is
// normalized here.
func partitionFromPath(r *http.Request) (ledger.Partition, error) {
	lobby := strings.TrimSpace(r.PathValue("lobby"))
	window, err := ledger.ParseWindow(r.PathValue("window"))
	if err != nil {
		return ledger.Partition{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return ledger.Partition{Lobby: lobby, Window: window}, nil
}
