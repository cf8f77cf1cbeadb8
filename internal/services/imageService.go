package services

import (
	"context"

	"kobogate/internal/imaging"
	"kobogate/internal/metrics"
)

// ImageService converts remote images to JPEG for inline rendering. It
// never fails: every failure resolves to the placeholder image.
type ImageService interface {
	ConvertToJPEG(ctx context.Context, src string) (data []byte, converted bool)
}

type imageServiceImpl struct {
	converter *imaging.Converter
}

func NewImageService() ImageService {
	return &imageServiceImpl{converter: imaging.NewConverter()}
}

func (s *imageServiceImpl) ConvertToJPEG(ctx context.Context, src string) ([]byte, bool) {
	data, converted := s.converter.Convert(ctx, src)
	if converted {
		metrics.ImageConversionsTotal.WithLabelValues("success").Inc()
	} else {
		metrics.ImageConversionsTotal.WithLabelValues("placeholder").Inc()
	}
	return data, converted
}
