package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-record-services/api/middleware"
	"github.com/EO-DataHub/eodhp-record-services/api/services"
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the record endpoints under basePath.
func RegisterRoutes(r *mux.Router, basePath string, svc *services.Service) {

	api := r.PathPrefix(basePath).Subrouter()
	if basePath == "" {
		api = r
	}

	// Apply the middleware to the API routes
	api.Use(middleware.WithLogger)

	// bulk-delete must be registered ahead of the {id} routes
	api.HandleFunc("/record/bulk-delete", BulkDeleteRecords(svc)).Methods(http.MethodDelete)

	api.HandleFunc("/record", GetRecords(svc)).Methods(http.MethodGet)
	api.HandleFunc("/record/", GetRecords(svc)).Methods(http.MethodGet)
	api.HandleFunc("/record", CreateRecord(svc)).Methods(http.MethodPost)
	api.HandleFunc("/record/", CreateRecord(svc)).Methods(http.MethodPost)
	api.HandleFunc("/record/{id}", GetRecord(svc)).Methods(http.MethodGet)
	api.HandleFunc("/record/{id}", UpdateRecord(svc)).Methods(http.MethodPatch)
	api.HandleFunc("/record/{id}", DeleteRecord(svc)).Methods(http.MethodDelete)
}
