package content

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pivot/internal/models"
	"pivot/internal/objectstore"
	"pivot/internal/speech"
)

// PresignVideoUpload validates the file and issues a direct-upload ticket
// for a new video object under the section.
func (s *Service) PresignVideoUpload(ctx context.Context, sectionID, filename string, size int64) (objectstore.UploadTicket, error) {
	return s.presignUpload(ctx, "video", sectionID, filename, size)
}

func (s *Service) PresignAudioUpload(ctx context.Context, sectionID, filename string, size int64) (objectstore.UploadTicket, error) {
	return s.presignUpload(ctx, "audio", sectionID, filename, size)
}

func (s *Service) presignUpload(ctx context.Context, kind, sectionID, filename string, size int64) (objectstore.UploadTicket, error) {
	if s.objects == nil {
		return objectstore.UploadTicket{}, ErrStorageUnavailable
	}
	if _, err := s.repo.SectionByID(ctx, sectionID); err != nil {
		return objectstore.UploadTicket{}, err
	}
	contentType, err := objectstore.ValidateFile(kind, filename, size)
	if err != nil {
		return objectstore.UploadTicket{}, err
	}
	return s.objects.PresignUpload(ctx, objectstore.FileKey(kind, sectionID, filename), contentType)
}

// ConfirmVideo persists the attachment after the client finished its direct
// upload, then refreshes the parent's count from a fresh count query.
func (s *Service) ConfirmVideo(ctx context.Context, sectionID, language, fileKey string) (models.Video, error) {
	if _, err := s.repo.SectionByID(ctx, sectionID); err != nil {
		return models.Video{}, err
	}
	video := models.Video{
		ID:        uuid.New().String(),
		SectionID: sectionID,
		Language:  language,
		VideoURL:  s.servingURL(ctx, fileKey),
		FilePath:  fileKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}
	if err := s.recountVideos(ctx, sectionID); err != nil {
		return models.Video{}, err
	}
	return video, nil
}

func (s *Service) ConfirmAudio(ctx context.Context, sectionID, language, fileKey string) (models.Audio, error) {
	if _, err := s.repo.SectionByID(ctx, sectionID); err != nil {
		return models.Audio{}, err
	}
	audio := models.Audio{
		ID:        uuid.New().String(),
		SectionID: sectionID,
		Language:  language,
		AudioURL:  s.servingURL(ctx, fileKey),
		FilePath:  fileKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAudio(ctx, audio); err != nil {
		return models.Audio{}, fmt.Errorf("create audio: %w", err)
	}
	if err := s.recountAudios(ctx, sectionID); err != nil {
		return models.Audio{}, err
	}
	return audio, nil
}

// GenerateAudio synthesizes the section's text with the TTS provider,
// stores the MP3 and attaches it like a confirmed upload.
func (s *Service) GenerateAudio(ctx context.Context, sectionID, language, voice string) (models.Audio, error) {
	if s.synth == nil {
		return models.Audio{}, ErrSpeechUnavailable
	}
	if s.objects == nil {
		return models.Audio{}, ErrStorageUnavailable
	}
	sec, err := s.repo.SectionByID(ctx, sectionID)
	if err != nil {
		return models.Audio{}, err
	}
	text := sec.TextContent
	if text == "" {
		text = sec.SelectedText
	}

	data, err := s.synth.Synthesize(ctx, text, language, voice)
	if err != nil {
		return models.Audio{}, err
	}

	fileKey := fmt.Sprintf("audios/%s/%s.mp3", sectionID, uuid.New().String())
	audioURL, err := s.objects.Upload(ctx, fileKey, data, "audio/mpeg")
	if err != nil {
		return models.Audio{}, fmt.Errorf("store generated audio: %w", err)
	}

	audio := models.Audio{
		ID:        uuid.New().String(),
		SectionID: sectionID,
		Language:  speech.NormalizeLanguage(language),
		AudioURL:  audioURL,
		FilePath:  fileKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAudio(ctx, audio); err != nil {
		return models.Audio{}, fmt.Errorf("create audio: %w", err)
	}
	if err := s.recountAudios(ctx, sectionID); err != nil {
		return models.Audio{}, err
	}
	return audio, nil
}

// DeleteVideo removes the row, best-effort deletes the stored object, then
// recounts the parent.
func (s *Service) DeleteVideo(ctx context.Context, videoID string) error {
	video, err := s.repo.VideoByID(ctx, videoID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteVideo(ctx, videoID); err != nil {
		return err
	}
	s.removeObject(ctx, video.FilePath)
	return s.recountVideos(ctx, video.SectionID)
}

func (s *Service) DeleteAudio(ctx context.Context, audioID string) error {
	audio, err := s.repo.AudioByID(ctx, audioID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAudio(ctx, audioID); err != nil {
		return err
	}
	s.removeObject(ctx, audio.FilePath)
	return s.recountAudios(ctx, audio.SectionID)
}

// ListVideos returns a section's videos with URLs resolved for serving.
func (s *Service) ListVideos(ctx context.Context, sectionID string) ([]models.Video, error) {
	videos, err := s.repo.VideosForSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		videos[i].VideoURL = s.resolveMediaURL(ctx, videos[i].VideoURL, videos[i].FilePath)
	}
	return videos, nil
}

func (s *Service) ListAudios(ctx context.Context, sectionID string) ([]models.Audio, error) {
	audios, err := s.repo.AudiosForSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	for i := range audios {
		audios[i].AudioURL = s.resolveMediaURL(ctx, audios[i].AudioURL, audios[i].FilePath)
	}
	return audios, nil
}

func (s *Service) servingURL(ctx context.Context, fileKey string) string {
	if s.objects == nil {
		return fileKey
	}
	if public, ok := s.objects.PublicURL(fileKey); ok {
		return public
	}
	signed, err := s.objects.SignedDownloadURL(ctx, fileKey)
	if err != nil {
		return fileKey
	}
	return signed
}
