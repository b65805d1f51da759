package api

import (
	"io"
	"net/http"
	"path"
	"strings"

	"portalcms/internal/storage"
	"portalcms/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// uploads are cover images and small attachments, not bulk media
const maxUploadBytes = 10 << 20

// Upload receives a multipart file and stores it on the configured backend.
// Returns the storage key and the public URL.
func (h *HTTPHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		InvalidPayload(c, err)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		ErrorResponse(c, http.StatusUnprocessableEntity, "FILE_TOO_LARGE", "Arquivo excede o tamanho máximo de 10MB")
		return
	}

	ext := strings.TrimPrefix(path.Ext(fileHeader.Filename), ".")
	if ext == "" {
		ext = utils.ExtensionFromMime(fileHeader.Header.Get("Content-Type"))
	}
	if !isAllowedExtension(ext) {
		ErrorResponse(c, http.StatusUnprocessableEntity, "UNSUPPORTED_FILE_TYPE", "Tipo de arquivo não suportado")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		WriteDomainError(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		ErrorResponse(c, http.StatusUnprocessableEntity, "FILE_TOO_LARGE", "Arquivo excede o tamanho máximo de 10MB")
		return
	}

	kind := strings.TrimSpace(c.PostForm("kind"))
	if kind == "" {
		kind = "covers"
	}

	base := strings.TrimSuffix(path.Base(fileHeader.Filename), path.Ext(fileHeader.Filename))
	key, err := h.storage.Save(c.Request.Context(), data, storage.SaveOptions{
		Kind:      kind,
		Extension: ext,
		BaseName:  base,
	})
	if err != nil {
		logrus.WithError(err).Error("upload failed")
		ErrorResponse(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Falha ao armazenar o arquivo")
		return
	}

	Data(c, gin.H{
		"key": key,
		"url": h.storagePublicBase + "/" + key,
	})
}

func isAllowedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "gif", "webp", "svg", "pdf":
		return true
	default:
		return false
	}
}
