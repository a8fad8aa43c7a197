package service

import (
	"context"
	"time"

	"notekeeper-be/internal/apperrors"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/storage"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteListItem, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory  unitofwork.RepositoryFactory
	fileStorage storage.FileStorage
	publisher   IPublisherService
	log         logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	fileStorage storage.FileStorage,
	publisher IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:  uowFactory,
		fileStorage: fileStorage,
		publisher:   publisher,
		log:         log,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		FileName:  req.FileName,
		FileKey:   req.FileKey,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, events.NoteCreated, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
		"title":   note.Title,
	})

	return &dto.NoteResponse{
		Id:      note.Id,
		Title:   note.Title,
		Content: note.Content,
	}, nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NoteListItem, len(notes))
	for i, n := range notes {
		items[i] = &dto.NoteListItem{
			Id:       n.Id,
			Title:    n.Title,
			Content:  n.Content,
			FileName: n.FileName,
		}
	}
	return items, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.ShowNoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		FileName:  note.FileName,
		FileKey:   note.FileKey,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}, nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note.Title = req.Title
	note.Content = req.Content
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, events.NoteUpdated, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
	})

	return &dto.NoteResponse{
		Id:      note.Id,
		Title:   note.Title,
		Content: note.Content,
	}, nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	if note.HasFile() {
		if rmErr := s.fileStorage.Remove(note.FileKey); rmErr != nil {
			s.log.Warn("note", "failed to remove stored attachment", map[string]interface{}{
				"note_id":  id,
				"file_key": note.FileKey,
				"error":    rmErr.Error(),
			})
		}
	}

	s.publishActivity(ctx, events.NoteDeleted, map[string]interface{}{
		"note_id": id,
		"user_id": userId,
	})

	return nil
}

// findOwned always scopes the lookup to the owner, so foreign note ids
// are indistinguishable from missing ones.
func (s *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperrors.ErrNoteNotFound
	}
	return note, nil
}

func (s *noteService) publishActivity(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewActivityEvent(eventType, data)); err != nil {
		s.log.Warn("note", "failed to publish activity event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
