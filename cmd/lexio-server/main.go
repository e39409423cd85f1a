package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/lexio-app/lexio/internal/config"
	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/database"
	"github.com/lexio-app/lexio/internal/mastery"
	"github.com/lexio-app/lexio/internal/quiz"
	"github.com/lexio-app/lexio/internal/server"
	"github.com/lexio-app/lexio/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("LEXIO_CONFIG"))
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	students := content.NewDBStudentRepository(db)
	quizService := service.NewQuizService(
		db,
		students,
		content.NewDBWeekRepository(db),
		content.NewDBVocabRepository(db),
		content.NewDBAffixRepository(db),
		mastery.NewDBRepository(db),
		quiz.NewDBRepository(db),
		cfg.Server.DueWordCap,
	)
	studentService := service.NewStudentService(students)

	handler := server.NewHandler(quizService, studentService)
	mux := handler.Routes()

	slog.Default().Info("starting server", "address", cfg.Server.Address)
	return http.ListenAndServe(cfg.Server.Address,
		server.CORSMiddleware(cfg.Server.AllowedOrigin, h2c.NewHandler(mux, &http2.Server{})))
}
