package board_web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tarediiran-industries.com/departure-board/internal/common"
)

type BoardWebServer struct {
	server     *http.Server
	renderer   *Renderer
	status     StatusSource
	outputPath string
	assetsDir  string
	now        func() time.Time
}

// NewBoardWebServer serves the rendered board file at outputPath. assetsDir
// may be empty, in which case /images is not mounted.
func NewBoardWebServer(listenAddr string, outputPath string, assetsDir string, status StatusSource) (*BoardWebServer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server := &BoardWebServer{
		server:     httpServer,
		renderer:   renderer,
		status:     status,
		outputPath: outputPath,
		assetsDir:  assetsDir,
		now:        time.Now,
	}

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/board", http.StatusFound)
	})
	router.Get("/board", server.handleBoard)
	router.Get("/status", server.handleStatus)
	if assetsDir != "" {
		router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(assetsDir))))
	}

	return server, nil
}

func (server *BoardWebServer) Handler() http.Handler {
	return server.server.Handler
}

func (server *BoardWebServer) Addr() string {
	return server.server.Addr
}

// URL is the address a local browser should open to see the board.
func (server *BoardWebServer) URL() string {
	host, port, err := net.SplitHostPort(server.server.Addr)
	if err != nil {
		return "http://" + server.server.Addr + "/board"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/board"
}

func (server *BoardWebServer) startHosting() {
	err := server.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		common.GetLogger().Errorf("Board web server error: %v", err)
	}
}

// Serve blocks until ctx is cancelled, then shuts the server down.
func (server *BoardWebServer) Serve(ctx context.Context) {
	common.GetLogger().Infof("Board web server listening on %s", server.URL())

	go server.startHosting()
	<-ctx.Done()

	common.GetLogger().Info("Shutting down board web server.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.server.Shutdown(shutdownCtx)
}
