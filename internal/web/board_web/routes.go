package board_web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

func (server *BoardWebServer) handleBoard(writer http.ResponseWriter, request *http.Request) {
	if _, err := os.Stat(server.outputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(writer, "board has not been rendered yet", http.StatusServiceUnavailable)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Cache-Control", "no-store")
	http.ServeFile(writer, request, server.outputPath)
}

func (server *BoardWebServer) handleStatus(writer http.ResponseWriter, request *http.Request) {
	query := ParseStatusQuery(request.URL.Query())
	viewmodel := BuildStatusVM(server.status.Snapshot(), server.now())

	code := http.StatusOK
	if !viewmodel.Healthy {
		code = http.StatusServiceUnavailable
	}

	switch query.Format {
	case FormatText:
		writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
		writer.WriteHeader(code)
		writeStatusText(writer, viewmodel)
	case FormatHTML:
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(code)
		if err := server.renderer.Render(writer, "status.html", viewmodel); err != nil {
			fmt.Fprintf(writer, "render: %v", err)
		}
	default:
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(code)
		json.NewEncoder(writer).Encode(viewmodel)
	}
}

func writeStatusText(writer http.ResponseWriter, vm StatusVM) {
	state := "OK"
	if !vm.Healthy {
		state = "DEGRADED"
	}
	fmt.Fprintf(writer, "status: %s\n", state)
	fmt.Fprintf(writer, "last run: %s (%s)\n", vm.LastRun, vm.Duration)
	fmt.Fprintf(writer, "last success: %s\n", vm.LastSuccess)
	fmt.Fprintf(writer, "cycles: %d (%d failed)\n", vm.Cycles, vm.Failures)
	if vm.Error != "" {
		fmt.Fprintf(writer, "error: %s\n", vm.Error)
	}
	if len(vm.Rows) > 0 {
		fmt.Fprintf(writer, "departures:\n  %s\n", strings.Join(vm.Rows, "\n  "))
	}
}
