package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/media"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resourceVideo = "video"

// VideoInput carries the form values for a video. File wins over URL.
type VideoInput struct {
	Title       string
	Description string
	URL         string
	File        *media.File
}

type VideoService interface {
	ListVideos(ctx context.Context) ([]domain.Video, error)
	GetVideo(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	CreateVideo(ctx context.Context, in VideoInput) (*domain.Video, error)
	UpdateVideo(ctx context.Context, id primitive.ObjectID, in VideoInput) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id primitive.ObjectID) error
}

// videoService implements the VideoService interface.
type videoService struct {
	videoRepo repository.VideoRepository
	media     URLResolver
	mutator
}

// NewVideoService creates a new instance of videoService.
func NewVideoService(videoRepo repository.VideoRepository, media URLResolver, locks *lock.Table) VideoService {
	return &videoService{videoRepo: videoRepo, media: media, mutator: mutator{locks: locks}}
}

func (s *videoService) apply(ctx context.Context, video *domain.Video, in VideoInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return validationError("title is required")
	}
	if in.File == nil && strings.TrimSpace(in.URL) == "" {
		return validationError("a video file or URL is required")
	}
	url, err := s.media.ResolveURL(ctx, in.File, in.URL)
	if err != nil {
		return err
	}
	video.Title = title
	video.Description = domain.OptionalText(in.Description)
	video.URL = domain.StringValue(url)
	return nil
}

func (s *videoService) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return s.videoRepo.List(ctx)
}

func (s *videoService) GetVideo(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *videoService) CreateVideo(ctx context.Context, in VideoInput) (*domain.Video, error) {
	video := &domain.Video{}
	if err := s.apply(ctx, video, in); err != nil {
		return nil, err
	}
	_, err := s.videoRepo.Create(ctx, video)
	record(resourceVideo, OpCreate, err)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, id primitive.ObjectID, in VideoInput) (*domain.Video, error) {
	var updated *domain.Video
	err := s.run(resourceVideo, id.Hex(), OpUpdate, func() error {
		video, err := s.GetVideo(ctx, id)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, video, in); err != nil {
			return err
		}
		if err := s.videoRepo.Update(ctx, video); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVideoNotFound
			}
			return err
		}
		updated = video
		return nil
	})
	return updated, err
}

func (s *videoService) DeleteVideo(ctx context.Context, id primitive.ObjectID) error {
	return s.run(resourceVideo, id.Hex(), OpDelete, func() error {
		err := s.videoRepo.Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	})
}
