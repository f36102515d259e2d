package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"receipt-processor/internal/metrics"
	"receipt-processor/internal/receipt"
)

// ReceiptApi - Receipt api
type ReceiptApi struct {
	repo receipt.ReceiptRepository
	log  logrus.FieldLogger
}

// NewReceiptApi - ReceiptApi backed by repo. The api owns repo for its lifetime.
func NewReceiptApi(repo receipt.ReceiptRepository, log logrus.FieldLogger) *ReceiptApi {
	return &ReceiptApi{
		repo: repo,
		log:  log,
	}
}

// InitializeRoutes defines the routes for the receipts plus health and metrics
func (api *ReceiptApi) InitializeRoutes(router *mux.Router) {
	router.Use(requestID, accessLog(api.log), metrics.InstrumentHandler)

	router.HandleFunc("/receipts/process", api.receiptProcessor)
	router.HandleFunc("/receipts/{id}/points", api.getPointsByID)
	router.HandleFunc("/healthz", healthz)
	router.Handle("/metrics", metrics.Handler())
}

// receiptProcessor REST endpoint /receipts/process
// takes in a receipt object, validates and stores it, and returns its id
func (api *ReceiptApi) receiptProcessor(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodPost) {
		return
	}

	// decoded loosely first so field validation is separate from JSON syntax
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		metrics.RecordReceipt(metrics.ResultInvalid)
		textError(w, "Invalid Json in Body", http.StatusBadRequest)
		return
	}

	id, err := api.repo.AddReceipt(payload)
	if err != nil {
		status := errorCodeAssigner(err)
		if status == http.StatusBadRequest {
			metrics.RecordReceipt(metrics.ResultInvalid)
			api.log.WithError(err).Info("receipt rejected")
			textError(w, err.Error(), status)
			return
		}
		metrics.RecordReceipt(metrics.ResultFailed)
		api.log.WithError(err).Error("receipt could not be stored")
		textError(w, fmt.Sprintf("could not process receipt: %v", err), status)
		return
	}

	metrics.RecordReceipt(metrics.ResultAccepted)
	writeJSON(w, map[string]string{"id": id})
}

// getPointsByID REST endpoint /receipts/{id}/points
// takes in a dynamic string: id
// return int: points - amount of points for the receipt
func (api *ReceiptApi) getPointsByID(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}

	receiptID := mux.Vars(r)["id"]

	stored, found, err := api.repo.GetReceipt(receiptID)
	if err != nil {
		api.log.WithError(err).WithField("id", receiptID).Error("receipt lookup failed")
		textError(w, fmt.Sprintf("could not score receipt: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		textError(w, fmt.Sprintf("No receipt found with the id of %s", receiptID), http.StatusNotFound)
		return
	}

	points := receipt.Points(stored)
	metrics.ObservePoints(points)
	writeJSON(w, map[string]int{"points": points})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func methodTypeNotAllowed(w http.ResponseWriter, r *http.Request, methodType string) bool {
	if r.Method != methodType {
		w.Header().Set("Allow", methodType)
		textError(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return true
	}
	return false
}

// errorCodeAssigner maps validation failures to 400 and anything else to 500
func errorCodeAssigner(err error) int {
	var missing *receipt.MissingFieldError
	var parse *receipt.ParseError
	switch {
	case errors.As(err, &missing), errors.As(err, &parse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// textError is http.Error without the trailing newline
func textError(w http.ResponseWriter, msg string, status int) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, body any) {
	marshal, err := json.Marshal(body)
	if err != nil {
		textError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(marshal)
}
