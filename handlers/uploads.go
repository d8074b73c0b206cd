package handlers

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// product photos are downscaled before storage
const maxUploadWidth = 800

// UploadImage accepts a multipart image, normalizes it to a bounded JPEG and
// stores it with the configured provider. Responds with the public URL.
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		badRequest(c, err)
		return
	}
	if img.Bounds().Dx() > maxUploadWidth {
		img = imaging.Resize(img, maxUploadWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		serverError(c, err)
		return
	}

	objectName := uuid.New().String() + ".jpg"

	var url string
	switch utils.GetStorageProvider() {
	case utils.StorageProviderGCS:
		url, err = utils.UploadBytesToGCS(c.Request.Context(), objectName, buf.Bytes())
	default:
		url, err = utils.SaveBytesToLocal(objectName, buf.Bytes())
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
