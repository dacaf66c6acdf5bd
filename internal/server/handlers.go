package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngenohkevin/rescuedeck-agent/config"
	"github.com/ngenohkevin/rescuedeck-agent/internal/files"
	"github.com/ngenohkevin/rescuedeck-agent/internal/system"
)

// Version is reported by the health and info endpoints
const Version = "1.0.0"

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg       *config.Config
	logger    *zap.Logger
	exts      *files.ExtensionSet
	scanner   *files.Scanner
	recoverer *files.Recoverer
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, logger *zap.Logger) *Handlers {
	exts := files.NewExtensionSet(cfg.Extensions, cfg.CaseInsensitiveExtensions)

	return &Handlers{
		cfg:    cfg,
		logger: logger,
		exts:   exts,
		scanner: files.NewScanner(exts, files.ScanOptions{
			Limit:      cfg.ScanLimit,
			MaxEntries: cfg.ScanMaxEntries,
		}, logger.Named("scanner")),
		recoverer: files.NewRecoverer(cfg.RelocateOnServer, cfg.DefaultRecoveryPath, logger.Named("recover")),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// GetInfo handles GET /info
func (h *Handlers) GetInfo(c *gin.Context) {
	resp := gin.H{
		"agent":              "rescuedeck-agent",
		"version":            Version,
		"relocate_on_server": h.recoverer.Relocates(),
		"recovery_path":      h.recoverer.DefaultPath(),
		"scan_limit":         h.scanner.Limit(),
		"extensions":         h.exts.Categories(),
	}

	if hostInfo, err := system.GetHostInfo(); err == nil {
		resp["host"] = hostInfo
	} else {
		h.logger.Warn("Host info unavailable", zap.Error(err))
	}

	if storage, err := system.GetStorageInfo(h.recoverer.DefaultPath()); err == nil {
		resp["recovery_storage"] = storage
	} else {
		h.logger.Debug("Recovery storage unavailable", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

// Scan handles GET /scan
func (h *Handlers) Scan(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Storage path is required."})
		return
	}

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Path '%s' does not exist.", path)})
		return
	}

	ctx := c.Request.Context()
	if h.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.ScanTimeout)
		defer cancel()
	}

	c.JSON(http.StatusOK, gin.H{"files": h.scanner.Scan(ctx, path)})
}

// Recover handles POST /recover
func (h *Handlers) Recover(c *gin.Context) {
	req, ok := decodeRecoverRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided."})
		return
	}

	result, err := h.recoverer.Recover(req)
	if err != nil {
		var verr *files.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// decodeRecoverRequest reads a JSON object body. An absent, empty, malformed
// or field-less body counts as no data.
func decodeRecoverRequest(c *gin.Context) (files.RecoverRequest, bool) {
	var req files.RecoverRequest

	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return req, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return req, false
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, false
	}
	return req, true
}
