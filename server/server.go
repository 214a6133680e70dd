// Package server 通过 HTTP 提供 logo 处理，请求体为 multipart 图片，响应为 PNG
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/segmentio/ksuid"

	"github.com/chaos-io/logokit/logo"
	"github.com/chaos-io/logokit/util"
)

const (
	formField      = "image"
	requestIDKey   = "X-Request-Id"
	maxUploadBytes = 32 << 20
	// 解码前按头部尺寸拦截，避免超大图把内存打满
	maxPixels = 40 << 20
)

var errImageTooLarge = errors.New("image too large")

// 每个 op 对应的基础参数
var operations = map[string]logo.Options{
	"clean":   {Mode: logo.ModeEdge},
	"strip":   {Mode: logo.ModeGlobal},
	"recolor": {Mode: logo.ModeNone, Recolor: true},
}

type Server struct {
	logger    hclog.Logger
	compress  bool
	maxBytes  int64
	maxPixels int
	engine    *gin.Engine
}

func New(logger hclog.Logger, compress bool) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		logger:    logger.Named("server"),
		compress:  compress,
		maxBytes:  maxUploadBytes,
		maxPixels: maxPixels,
	}

	engine := gin.New()
	engine.MaxMultipartMemory = maxUploadBytes
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/healthz", s.health)
	engine.POST("/v1/logo/:op", s.process)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	s.engine = engine

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger 为每个请求分配 ksuid 并记录耗时
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := ksuid.New().String()
		c.Header(requestIDKey, id)

		c.Next()

		s.logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) process(c *gin.Context) {
	opts, ok := operations[c.Param("op")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown operation %q", c.Param("op"))})
		return
	}

	opts, err := parseOptions(c, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := logo.NewProcessor(opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := s.readImage(c)
	if err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || errors.Is(err, errImageTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	out, err := p.Process(c.Request.Context(), img)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, logo.ErrNoForeground) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("process failed", "op", c.Param("op"), "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := util.EncodePNG(&buf, out, s.compress); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// parseOptions 读取 threshold、max_size、trim 查询参数
func parseOptions(c *gin.Context, opts logo.Options) (logo.Options, error) {
	opts.Threshold = logo.DefaultThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid threshold %q", v)
		}
		opts.Threshold = n
	}
	if v := c.Query("max_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid max_size %q", v)
		}
		opts.MaxSize = n
	}
	if v := c.Query("trim"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid trim %q", v)
		}
		opts.Trim = b
	}
	return opts, nil
}

// readImage 限制请求体大小，并在解码像素前先检查图片尺寸
func (s *Server) readImage(c *gin.Context) (image.Image, error) {
	if c.Request.ContentLength > s.maxBytes {
		return nil, fmt.Errorf("%w: body of %d bytes exceeds %d", errImageTooLarge, c.Request.ContentLength, s.maxBytes)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)

	fh, err := c.FormFile(formField)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q: %w", formField, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(s.maxPixels) {
		return nil, fmt.Errorf("%w: %s %dx%d exceeds %d pixels", errImageTooLarge, format, cfg.Width, cfg.Height, s.maxPixels)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind form file: %w", err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
