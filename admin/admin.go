// Package admin provides the monitoring dashboard and JSON status API for a
// running sseserver.Server: per-channel listener counts and a toggle to
// disable the surface entirely.
package admin

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	rice "github.com/GeertJohan/go.rice"

	"github.com/mroth/sseserver"
	"github.com/mroth/sseserver/internal/metrics"
)

// ChannelStatus is a snapshot of one channel's reporting metadata.
type ChannelStatus struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	ListenerCount int    `json:"listener_count"`
}

// channelStatusList implements sort.Interface so the JSON response lists
// channels alphabetically rather than in random map-iteration order.
type channelStatusList []ChannelStatus

func (cl channelStatusList) Len() int           { return len(cl) }
func (cl channelStatusList) Swap(i, j int)      { cl[i], cl[j] = cl[j], cl[i] }
func (cl channelStatusList) Less(i, j int) bool { return cl[i].Name < cl[j].Name }

// Status is the JSON payload served at /admin/status.json.
type Status struct {
	Status       string            `json:"status"`
	Reported     int64             `json:"reported_at"`
	ChannelCount int               `json:"channel_count"`
	Channels     channelStatusList `json:"channels"`
}

// buildStatus takes a live snapshot of s's registry.
func buildStatus(s *sseserver.Server) Status {
	names := s.Broadcast.GetActiveChannels()
	sort.Strings(names)

	channels := make(channelStatusList, 0, len(names))
	for _, name := range names {
		c, ok := s.Registry.Get(name)
		if !ok {
			continue
		}
		channels = append(channels, ChannelStatus{
			Name:          name,
			ID:            c.ID().String(),
			ListenerCount: c.ListenerCount(),
		})
	}
	sort.Sort(channels)
	metrics.ChannelsActiveGauge.Set(float64(len(names)))

	return Status{
		Status:       "OK",
		Reported:     time.Now().Unix(),
		ChannelCount: len(channels),
		Channels:     channels,
	}
}

func adminStatusHTMLHandler(w http.ResponseWriter, r *http.Request) {
	box, err := rice.FindBox("views")
	if err != nil {
		log.Printf("admin: error opening rice.Box: %s", err)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	file, err := box.Open("index.html")
	if err != nil {
		log.Printf("admin: could not open index.html: %s", err)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	fstat, err := file.Stat()
	if err != nil {
		log.Printf("admin: could not stat index.html: %s", err)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, fstat.Name(), fstat.ModTime(), file)
}

func adminStatusDataHandler(w http.ResponseWriter, r *http.Request, s *sseserver.Server) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.MarshalIndent(buildStatus(s), "", "  ")
	if err != nil {
		http.Error(w, "failed to marshal status", http.StatusInternalServerError)
		return
	}
	fmt.Fprint(w, string(b))
}

// Handler returns an http.Handler serving the admin dashboard at /admin/
// and the JSON status API at /admin/status.json, or a 403 for both when
// s.Options.DisableAdminEndpoints is set.
func Handler(s *sseserver.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Options.DisableAdminEndpoints {
			http.Error(w, "403 admin endpoint disabled", http.StatusForbidden)
			return
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/admin/", adminStatusHTMLHandler)
		mux.HandleFunc("/admin/status.json", func(w http.ResponseWriter, r *http.Request) {
			adminStatusDataHandler(w, r, s)
		})
		mux.ServeHTTP(w, r)
	})
}
