package http

import (
	"encoding/json"
	"fmt"
	"github.com/fuad-daoud/discord-mirror/logger/dlog"
	"github.com/fuad-daoud/discord-mirror/state"
	"net/http"
	"os"
)

// Setup serves the mirror's status endpoints on PORT. Blocks; run it on its
// own goroutine.
func Setup(caches *state.Caches) {
	http.HandleFunc("/", rootHandler)
	http.HandleFunc("/status", statusHandler(caches))
	port := os.Getenv("PORT")
	err := http.ListenAndServe(":"+port, nil)
	if err != nil {
		dlog.Error("Could not serve on " + port)
		panic(err)
	}
}

func statusHandler(caches *state.Caches) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logRequest(r)
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(caches.Stats())
		if err != nil {
			dlog.Error("Could not write status", "err", err)
		}
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	fmt.Fprintf(w, "Hello! you've requested %s\n", r.URL.Path)
}

func logRequest(r *http.Request) {
	dlog.Debug("Got request!", "method", r.Method, "uri", r.RequestURI)
}
