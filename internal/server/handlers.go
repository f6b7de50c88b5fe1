package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"touchdown/internal/game"
	"touchdown/internal/monitoring"
	"touchdown/internal/render"
)

// MetricsResponse is the body of GET /metrics.
type MetricsResponse struct {
	Timestamp         time.Time                     `json:"timestamp"`
	UptimeSec         int64                         `json:"uptime_sec"`
	ActiveConnections int                           `json:"active_connections"`
	Frames            monitoring.FrameMetrics       `json:"frames"`
	Alerts            []monitoring.PerformanceAlert `json:"alerts"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *FrameServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MetricsResponse{
		Timestamp:         time.Now().UTC(),
		UptimeSec:         int64(time.Since(s.startTime).Seconds()),
		ActiveConnections: s.activeClients(),
		Frames:            s.monitor.GetCurrentMetrics(),
		Alerts:            s.monitor.CheckPerformanceAlerts(),
	})
}

func (s *FrameServer) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score store disabled")
		return
	}
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid n")
			return
		}
		n = parsed
	}
	entries, err := s.store.Top(n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// frameRequest is the parsed query of GET /frame.png.
type frameRequest struct {
	x, y, angle   float64
	width, height int
	flat, topDown bool
}

func (s *FrameServer) parseFrameRequest(r *http.Request) (frameRequest, error) {
	q := r.URL.Query()
	req := frameRequest{
		x:       s.cfg.Camera.StartX,
		y:       s.cfg.Camera.StartY,
		angle:   s.cfg.Camera.StartAngle,
		width:   s.cfg.Server.FrameWidth,
		height:  s.cfg.Server.FrameHeight,
		flat:    q.Get("flat") == "1",
		topDown: q.Get("view") == "2d",
	}

	floats := []struct {
		key string
		dst *float64
	}{{"x", &req.x}, {"y", &req.y}, {"angle", &req.angle}}
	for _, f := range floats {
		if v := q.Get(f.key); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return req, fmt.Errorf("invalid %s: %w", f.key, err)
			}
			if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
				return req, fmt.Errorf("invalid %s: must be finite", f.key)
			}
			*f.dst = parsed
		}
	}

	ints := []struct {
		key string
		dst *int
	}{{"w", &req.width}, {"h", &req.height}}
	for _, i := range ints {
		if v := q.Get(i.key); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("invalid %s: %w", i.key, err)
			}
			*i.dst = parsed
		}
	}
	if req.width <= 0 || req.height <= 0 || req.width > maxFrameSide || req.height > maxFrameSide {
		return req, fmt.Errorf("frame size must be within 1..%d", maxFrameSide)
	}
	return req, nil
}

// handleFrame renders one snapshot from the requested pose.
func (s *FrameServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseFrameRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.newSession()
	sess.Update(game.Controls{Start: true}, 0)
	sess.SetPose(req.x, req.y, req.angle)
	if req.flat {
		sess.Update(game.Controls{ToggleTexture: true}, 0)
	}
	if req.topDown {
		sess.Update(game.Controls{ToggleMap: true}, 0)
	}

	fb := render.NewFramebuffer(req.width, req.height)
	sess.Render(fb)

	data, err := encodePNG(fb)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func encodePNG(fb *render.Framebuffer) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, fb.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
