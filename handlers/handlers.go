// Package handlers wires the pipeline to the HTTP API: job creation,
// progress streaming over SSE or WebSocket, and serving the finished
// audio files.
package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/srgchrksv/echocast/models"
	"github.com/srgchrksv/echocast/pipeline"
	"github.com/srgchrksv/echocast/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const sseKeepalive = 30 * time.Second

// RunFunc executes one pipeline run, reporting progress through the sink.
type RunFunc func(ctx context.Context, topic string, sink pipeline.EventSink) (*models.PodcastOutput, error)

type Handlers struct {
	store     *storage.Store
	run       RunFunc
	outputDir string
}

func New(store *storage.Store, run RunFunc, outputDir string) *Handlers {
	return &Handlers{store: store, run: run, outputDir: outputDir}
}

// completeEvent is the terminal message on both streaming transports.
type completeEvent struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Generate starts a podcast generation job and returns its id right away.
func (h *Handlers) Generate(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	id := uuid.NewString()[:8]
	h.store.Create(id)

	go func() {
		out, err := h.run(context.Background(), topic, func(evt models.ProgressEvent) {
			h.store.Publish(id, evt)
		})
		if err != nil {
			log.Printf("job %s failed: %v", id, err)
			h.store.Complete(id, "", err)
			return
		}
		h.store.Complete(id, filepath.Base(out.Path), nil)
	}()

	c.JSON(http.StatusAccepted, gin.H{"job_id": id})
}

// Status streams the job's progress events over Server-Sent-Events and
// finishes with a complete event carrying the final status.
func (h *Handlers) Status(c *gin.Context) {
	id := c.Param("id")
	events, ok := h.store.Events(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, open := <-events:
			if !open {
				c.SSEvent("message", h.finalEvent(id))
				return false
			}
			c.SSEvent("message", gin.H{"type": "progress", "event": evt})
			return true
		case <-time.After(sseKeepalive):
			c.SSEvent("message", gin.H{"type": "keepalive"})
			return true
		}
	})
}

// Stream serves the same progress feed over a WebSocket connection.
func (h *Handlers) Stream(c *gin.Context) {
	id := c.Param("id")
	events, ok := h.store.Events(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("upgrade error:", err)
		return
	}
	defer conn.Close()

	for evt := range events {
		if err := conn.WriteJSON(gin.H{"type": "progress", "event": evt}); err != nil {
			log.Println("error writing ws message:", err)
			return
		}
	}
	if err := conn.WriteJSON(h.finalEvent(id)); err != nil {
		log.Println("error writing ws message:", err)
	}
}

// Audio serves a generated podcast MP3 from the output directory.
func (h *Handlers) Audio(c *gin.Context) {
	name := c.Param("name")
	// Only bare generated file names, no path traversal.
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".mp3") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}
	c.File(filepath.Join(h.outputDir, name))
}

func (h *Handlers) finalEvent(id string) completeEvent {
	job, _ := h.store.Get(id)
	return completeEvent{
		Type:   "complete",
		Status: job.Status,
		Result: job.Result,
		Error:  job.Error,
	}
}
