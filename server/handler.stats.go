package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/types"
)

func (svc *Service) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})
	}
}

// handleGetStats returns aggregate whitelist counts per account type
func (svc *Service) handleGetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := svc.logger
		total, err := svc.whitelist.Count(r.Context(), db.All())
		if err != nil {
			http.Error(w, "Unable to get aggregate stats", http.StatusInternalServerError)
			log.WithFields(logrus.Fields{
				"err": err.Error(),
			}).Error("Unable to get aggregate stats")
			return
		}
		java, err := svc.whitelist.Count(r.Context(), db.ByType(types.AccountTypeJava))
		if err != nil {
			http.Error(w, "Unable to get aggregate stats", http.StatusInternalServerError)
			return
		}
		bedrock, err := svc.whitelist.Count(r.Context(), db.ByType(types.AccountTypeBedrock))
		if err != nil {
			http.Error(w, "Unable to get aggregate stats", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		msg := map[string]interface{}{"stats": map[string]int64{
			"total":   total,
			"java":    java,
			"bedrock": bedrock,
		}}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(msg)
	}
}
