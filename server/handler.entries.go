package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/types"
)

var errInvalidPage = errors.New("invalid pagination parameters")

// handleGetEntries returns whitelist entries, optionally filtered by
// discord user or paginated with skip/limit query parameters
func (svc *Service) handleGetEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := svc.logger
		filter := db.All()
		if user := r.URL.Query().Get("user"); user != "" {
			filter = db.ByDiscordID(user)
		}

		skip, limit, err := pageParams(r)
		if err != nil {
			http.Error(w, "Invalid pagination parameters", http.StatusBadRequest)
			return
		}

		entries, err := svc.whitelist.QueryManyPaginated(r.Context(), filter, skip, limit)
		if err != nil {
			http.Error(w, "Unable to get whitelist entries", http.StatusInternalServerError)
			log.WithFields(logrus.Fields{
				"err": err.Error(),
			}).Error("Unable to get whitelist entries")
			return
		}
		if entries == nil {
			entries = []types.WhitelistEntry{}
		}
		w.Header().Set("Content-Type", "application/json")
		msg := map[string]interface{}{"entries": entries}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(msg)
	}
}

// pageParams parses skip/limit from the query string. A zero limit
// means no limit at all.
func pageParams(r *http.Request) (skip, limit int64, err error) {
	if v := r.URL.Query().Get("skip"); v != "" {
		skip, err = strconv.ParseInt(v, 10, 64)
		if err != nil || skip < 0 {
			return 0, 0, errInvalidPage
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			return 0, 0, errInvalidPage
		}
	}
	return skip, limit, nil
}
