package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/response"
)

// UploadHandler accepts attachment batches and returns their URLs.
type UploadHandler struct {
	attachments *attachment.Service
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(attachments *attachment.Service) *UploadHandler {
	return &UploadHandler{attachments: attachments}
}

// RegisterRoutes registers the upload route.
func (h *UploadHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/upload", h.Upload)
}

// Upload stores every file of the multipart "files" field and answers
// with their URLs. The batch either fully succeeds or reports failure;
// files written before a mid-batch failure stay stored.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		response.BadRequest(c, "at least one file is required")
		return
	}

	files := make([]attachment.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			l.Error().Err(err).Str("file", fh.Filename).Msg("failed to open uploaded file")
			response.InternalError(c, "failed to read uploaded file")
			return
		}
		defer f.Close()

		files = append(files, attachment.File{
			Name:        fh.Filename,
			Content:     f,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	attachments, err := h.attachments.Upload(ctx, files)
	if err != nil {
		if errors.Is(err, attachment.ErrNoFiles) {
			response.BadRequest(c, "at least one file is required")
			return
		}
		l.Error().Err(err).Msg("attachment upload failed")
		response.InternalError(c, "upload failed")
		return
	}

	urls := make([]string, len(attachments))
	for i, a := range attachments {
		urls[i] = a.URL
	}

	c.JSON(http.StatusOK, gin.H{"urls": urls})
}
