package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead запас на заголовки частей и поля формы сверх размера файла
const multipartOverhead = 1 << 20

// readUpload читает файл из multipart-поля file.
// Тело запроса ограничивается до разбора формы.
func readUpload(ctx *gin.Context, maxSize int64) (string, []byte, bool) {
	if maxSize > 0 {
		limit := maxSize + multipartOverhead
		if ctx.Request.ContentLength > limit {
			respondTooLarge(ctx, maxSize)
			return "", nil, false
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondTooLarge(ctx, maxSize)
			return "", nil, false
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return "", nil, false
	}

	if maxSize > 0 && file.Size > maxSize {
		respondTooLarge(ctx, maxSize)
		return "", nil, false
	}

	data, err := readFileHeader(file)
	if err != nil {
		logrus.Error("Failed to read uploaded file: ", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return "", nil, false
	}

	return file.Filename, data, true
}

func readFileHeader(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func respondTooLarge(ctx *gin.Context, maxSize int64) {
	ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("File is too large, limit is %d bytes", maxSize),
	})
}
