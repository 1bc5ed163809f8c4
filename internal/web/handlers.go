package web

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/observability"
	"github.com/stemlab/exploratorium/internal/upload"
)

const previewSide = 480

// generateRequest is the JSON body of POST /api/generate.
type generateRequest struct {
	Activity *explore.ActivityType `json:"activity"`
	Topic    string                `json:"topic"`
	Count    *int                  `json:"count"`
}

type indexData struct {
	Title          string
	Welcome        string
	Tagline        string
	Purpose        string
	SidebarHeading string
	ActivityLabel  string
	TopicLabel     string
	CountLabel     string
	ImageLabel     string
	GenerateLabel  string
	ResultsHeading string
	PromptForInput string
	UploadHeading  string
	Disclaimer     string
	Activities     []activityOption
	MinCount       int
	MaxCount       int
	DefaultCount   int
}

type activityOption struct {
	Slug string
	Name string
}

// Index renders the single-page UI.
func (h *Handler) Index(c *gin.Context) {
	opts := make([]activityOption, 0, len(explore.Activities()))
	for _, a := range explore.Activities() {
		opts = append(opts, activityOption{Slug: a.Slug(), Name: a.String()})
	}

	c.HTML(http.StatusOK, "index.html", indexData{
		Title:          explore.Title,
		Welcome:        explore.Welcome,
		Tagline:        explore.Tagline,
		Purpose:        explore.Purpose,
		SidebarHeading: explore.SidebarHeading,
		ActivityLabel:  explore.ActivityLabel,
		TopicLabel:     explore.TopicLabel,
		CountLabel:     explore.CountLabel,
		ImageLabel:     explore.ImageLabel,
		GenerateLabel:  explore.GenerateLabel,
		ResultsHeading: explore.ResultsHeading,
		PromptForInput: explore.PromptForInput,
		UploadHeading:  explore.UploadHeading,
		Disclaimer:     explore.Disclaimer,
		Activities:     opts,
		MinCount:       explore.MinCount,
		MaxCount:       explore.MaxCount,
		DefaultCount:   explore.DefaultCount,
	})
}

// Health reports liveness and the configured tier models.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"version":  h.opts.Version,
		"primary":  h.opts.PrimaryModel,
		"fallback": h.opts.FallbackModel,
	})
}

// Generate runs one request and streams it back as Server-Sent Events:
// phase, notice, word, then done or error.
func (h *Handler) Generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A missing activity is "nothing selected", not the zero activity.
	if body.Activity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": explore.PromptForInput})
		return
	}

	count := explore.DefaultCount
	if body.Count != nil {
		count = *body.Count
	}

	req, err := explore.NewRequest(*body.Activity, body.Topic, count)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, explore.ErrEmptyTopic) {
			msg = explore.PromptForInput
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(event string, data any) {
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	ctx := c.Request.Context()
	observe := func(p explore.Phase) {
		send("phase", gin.H{"phase": p.String()})
		if p == explore.PhaseFallbackCalled {
			send("notice", gin.H{"message": explore.ShortResponseNotice})
		}
	}

	res, err := h.gen.Run(ctx, req, observe)
	if err != nil {
		requestID := c.GetString(requestIDKey)
		h.log.Error("generation failed", "request_id", requestID, "error", err)
		observability.CaptureError(ctx, err, map[string]string{
			"activity":   req.Activity.Slug(),
			"request_id": requestID,
		})
		send("error", gin.H{"message": "Generation failed: " + err.Error(), "request_id": requestID})
		return
	}

	for w := range res.Words() {
		send("word", gin.H{"text": w})
	}
	if ctx.Err() != nil {
		h.log.Info("client went away mid-stream", "request_id", c.GetString(requestIDKey))
		return
	}

	send("done", gin.H{
		"tier":          string(res.Tier),
		"primary_words": res.PrimaryWords,
		"request_id":    res.RequestID,
	})
}

// Upload accepts a multipart "image" field and reports what it is.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxBytes+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if fh.Size > upload.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": upload.ErrTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	img, err := upload.Read(f, fh.Filename)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, upload.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"image":   img.Info,
		"summary": img.Summary(),
		"message": upload.Message,
	}
	if preview, err := img.Preview(previewSide); err == nil {
		resp["preview"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(preview)
	} else {
		h.log.Warn("preview failed", "error", err, "format", img.Format)
	}
	c.JSON(http.StatusOK, resp)
}
