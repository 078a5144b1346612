package httpx

import (
	"net/http"
)

// healthStatus is the readiness payload.
type healthStatus struct {
	Status   string `json:"status"`
	Visitors int    `json:"visitors"`
}

// visitorCounter reports how many visitors are held in memory.
type visitorCounter interface {
	Len() int
}

// healthHandler returns 200 OK for readiness/liveness checks along with the
// number of live visitors. It never touches the banking backend.
func healthHandler(visitors visitorCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		n := 0
		if visitors != nil {
			n = visitors.Len()
		}
		WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Visitors: n})
	}
}
