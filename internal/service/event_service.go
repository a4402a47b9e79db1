package service

import (
	"errors"
	"io"
	"path"
	"time"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/storage"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
	"gorm.io/gorm"
)

type EventService struct {
	eventRepo *repository.EventRepository
	storage   storage.StorageService
}

func NewEventService(eventRepo *repository.EventRepository, storage storage.StorageService) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		storage:   storage,
	}
}

func (s *EventService) CreateEvent(userID uint, req models.EventRequest) (*models.Event, error) {
	event := &models.Event{
		UserID:      userID,
		Name:        req.Name,
		Organizer:   req.Organizer,
		Category:    req.Category,
		Tags:        req.Tags,
		Location:    req.Location,
		Description: req.Description,
		TicketCost:  MajorToMinor(req.TicketCost),
	}

	for _, input := range req.Sessions {
		event.Sessions = append(event.Sessions, models.EventSession{
			Name:     input.Name,
			StartsAt: input.StartsAt,
		})
	}

	return s.eventRepo.Create(event)
}

func (s *EventService) GetEvent(eventID uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) PublicList(query models.EventListQuery) (*models.EventListResponse, error) {
	return s.eventRepo.PublicList(query, time.Now())
}

func (s *EventService) GetDashboard(userID uint) ([]models.DashboardEvent, error) {
	return s.eventRepo.GetUserEventsWithStats(userID)
}

func (s *EventService) UpdateEvent(eventID, userID uint, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrNotEventOwner
	}

	event.Name = req.Name
	event.Organizer = req.Organizer
	event.Category = req.Category
	event.Tags = req.Tags
	event.Location = req.Location
	event.Description = req.Description
	event.TicketCost = MajorToMinor(req.TicketCost)

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) DeleteEvent(eventID, userID uint) error {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return ErrNotEventOwner
	}

	// Best effort on the images; a stale object is not worth failing the
	// delete over.
	if event.AvatarKey != "" {
		_ = s.storage.Delete(event.AvatarKey)
	}
	if event.BannerKey != "" {
		_ = s.storage.Delete(event.BannerKey)
	}

	return s.eventRepo.Delete(eventID)
}

// UploadAvatar stores a new avatar image and replaces the previous one.
func (s *EventService) UploadAvatar(eventID, userID uint, filename string, file io.Reader) (string, error) {
	return s.uploadImage(eventID, userID, "avatars", filename, file)
}

// UploadBanner stores a new banner image and replaces the previous one.
func (s *EventService) UploadBanner(eventID, userID uint, filename string, file io.Reader) (string, error) {
	return s.uploadImage(eventID, userID, "banners", filename, file)
}

func (s *EventService) uploadImage(eventID, userID uint, folder, filename string, file io.Reader) (string, error) {
	event, err := s.GetEvent(eventID)
	if err != nil {
		return "", err
	}
	if event.UserID != userID {
		return "", ErrNotEventOwner
	}

	key := folder + "/" + utils.GenerateRandomString(16) + path.Ext(filename)
	if err := s.storage.Upload(key, file); err != nil {
		return "", err
	}

	var oldKey string
	switch folder {
	case "avatars":
		oldKey = event.AvatarKey
		event.AvatarKey = key
	case "banners":
		oldKey = event.BannerKey
		event.BannerKey = key
	}

	if err := s.eventRepo.Update(event); err != nil {
		return "", err
	}

	if oldKey != "" {
		_ = s.storage.Delete(oldKey)
	}

	return s.storage.PublicURL(key), nil
}
