package healthcheck

import (
	"encoding/json"
	"net/http"

	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

type HealthCheckHandler func() (err error, ok bool)

type HealthChecks struct {
	Status bool
	Name   string
}

type HealthCheckHttpResponse struct {
	Checks     []HealthChecks
	StatusCode int
}

type HealthCheck struct {
	checkers map[string]HealthCheckHandler
}

func NewHealthCheck() *HealthCheck {
	return &HealthCheck{
		checkers: make(map[string]HealthCheckHandler),
	}
}

func (hc *HealthCheck) Register(name string, handler HealthCheckHandler) {
	hc.checkers[name] = handler
}

// HttpHandler serves the aggregated check results; any errored checker
// turns the response into a 500.
func (hc *HealthCheck) HttpHandler(w http.ResponseWriter, r *http.Request) {
	res := HealthCheckHttpResponse{
		Checks:     make([]HealthChecks, 0),
		StatusCode: 200,
	}

	for name, checker := range hc.checkers {
		err, checkerRes := checker()

		if err == nil {
			res.Checks = append(res.Checks, HealthChecks{
				Status: checkerRes,
				Name:   name,
			})
		} else {
			res.StatusCode = http.StatusInternalServerError
		}
	}

	data, err := json.Marshal(res)
	utils.Check(err, "Failed to marshal response")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	w.Write(data)
}
