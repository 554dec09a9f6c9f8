package router

import (
	"database/sql"
	"net/http"
	"os"

	_ "med-tracker/docs"
	mem "med-tracker/internal/adapters/storage/memory"
	pg "med-tracker/internal/adapters/storage/postgres"
	"med-tracker/internal/domain/doses"
	"med-tracker/internal/domain/medications"
	"med-tracker/internal/domain/persons"
	"med-tracker/internal/domain/reports"
	"med-tracker/internal/middleware"
	"med-tracker/internal/platform/logger"
	"med-tracker/internal/tracker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: logger; nil => logger desde env.
	Logger logger.Logger

	// Opcional: reloj inyectable (tests); nil => reloj de sistema.
	Clock tracker.Clock
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}
	clock := opts.Clock
	if clock == nil {
		clock = tracker.SystemClock{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		personRepo persons.Repository
		medRepo    medications.Repository
		doseRepo   doses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		personRepo = pg.NewPersonsRepo(db)
		medRepo = pg.NewMedicationsRepo(db)
		doseRepo = pg.NewDosesRepo(db)
	} else {
		personRepo = mem.NewPersonRepo()
		medRepo = mem.NewMedicationRepo()
		doseRepo = mem.NewDoseRepo()
	}

	// Services por módulo
	personsSvc := persons.NewService(personRepo)
	medsSvc := medications.NewService(medRepo)
	dosesSvc := doses.NewService(doseRepo)

	// Rutas por módulo
	r.Route("/api/v1", func(api chi.Router) {
		persons.RegisterRoutes(api, personsSvc, medsSvc)
		medications.RegisterRoutes(api, medsSvc, personsSvc, dosesSvc, dosesSvc)
		doses.RegisterRoutes(api, dosesSvc, medsSvc)
		reports.RegisterRoutes(api, dosesSvc, medsSvc, clock)
	})

	return r
}
