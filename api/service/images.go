package service

import (
	"context"

	"imageImporter/api/dto"
	"imageImporter/api/repository"
)

type ImageService struct {
	repo repository.ImageRepository
}

func NewImageService(repo repository.ImageRepository) *ImageService {
	return &ImageService{repo: repo}
}

func (s *ImageService) List(ctx context.Context, limit, offset int) (*dto.ImageListResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImageListResponse{
		Items:  make([]dto.ImageResponse, 0, len(images)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, img := range images {
		resp.Items = append(resp.Items, dto.NewImageResponse(img))
	}
	return resp, nil
}
