package internal

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"project-tracker-api/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Server struct {
	DB      *sql.DB
	Pool    *pgxpool.Pool
	Router  *chi.Mux
	Metrics *Metrics
}

func NewServer(dsn string, cfg *config.Config) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// Also create a pgxpool for the Excel exporter
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal("Failed to create pgxpool:", err)
	}

	s := &Server{
		DB:      db,
		Pool:    pool,
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte("db: ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.mountRoutes(s.Router)

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// mountRoutes mounts the entity routes
func (s *Server) mountRoutes(r chi.Router) {
	// Departments
	r.Get("/departments", s.listDepartments)
	r.Get("/departments/export", s.exportDepartments)
	r.Get("/departments/{id}", s.getDepartment)
	r.Post("/departments", s.createDepartment)
	r.Put("/departments/{id}", s.updateDepartment)
	r.Delete("/departments/{id}", s.deleteDepartment)
	r.Post("/departments/{id}/restore", s.restoreDepartment)

	// Persons
	r.Get("/persons", s.listPersons)
	r.Get("/persons/{id}", s.getPerson)
	r.Post("/persons", s.createPerson)
	r.Put("/persons/{id}", s.updatePerson)
	r.Delete("/persons/{id}", s.deletePerson)
	r.Post("/persons/{id}/restore", s.restorePerson)

	// Projects, incl. the four person relations and comments
	r.Get("/projects", s.listProjects)
	r.Get("/projects/{id}", s.getProject)
	r.Post("/projects", s.createProject)
	r.Put("/projects/{id}", s.updateProject)
	r.Delete("/projects/{id}", s.deleteProject)
	r.Post("/projects/{id}/restore", s.restoreProject)
	r.Get("/projects/{id}/comments", s.listComments)
	r.Post("/projects/{id}/comments", s.addComment)

	// Summary stats for the dashboard
	r.Get("/stats", s.getStats)
}
