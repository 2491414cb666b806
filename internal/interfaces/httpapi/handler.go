package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/logging"
	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

type Handler struct {
	catalogService        *usecase.CatalogService
	leagueService         *usecase.LeagueService
	marketService         *usecase.MarketService
	squadService          *usecase.SquadService
	classificationService *usecase.ClassificationService
	scoringService        *usecase.ScoringService
	syncService           *usecase.SyncService
	logger                *logging.Logger
	validator             *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	leagueService *usecase.LeagueService,
	marketService *usecase.MarketService,
	squadService *usecase.SquadService,
	classificationService *usecase.ClassificationService,
	scoringService *usecase.ScoringService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:        catalogService,
		leagueService:         leagueService,
		marketService:         marketService,
		squadService:          squadService,
		classificationService: classificationService,
		scoringService:        scoringService,
		syncService:           syncService,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
