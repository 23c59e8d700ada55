package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todopro/internal/adapter/database/repository"
	"todopro/internal/core/domain"
	"todopro/internal/core/port"
	"todopro/pkg/test"
	"todopro/pkg/test/factory"
)

// fakeImageStore records saves and removals instead of touching disk.
type fakeImageStore struct {
	saved   []string
	removed []string
	failOn  string
}

func (f *fakeImageStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if f.failOn != "" && file.Filename == f.failOn {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, file.Filename)
	}

	name := fmt.Sprintf("stored-%d-%s", len(f.saved), file.Filename)
	f.saved = append(f.saved, name)

	return name, nil
}

func (f *fakeImageStore) Remove(ctx context.Context, filename string) error {
	f.removed = append(f.removed, filename)
	return nil
}

type TodoServiceTestSuite struct {
	suite.Suite
	Store    *fakeImageStore
	Service  *TodoService
	UserRepo port.UserRepository
	Alice    domain.User
	Bob      domain.User
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := test.InitTestDB()

	s.Store = &fakeImageStore{}
	s.Service = NewTodoService(repository.NewTodoRepository(db), s.Store)
	s.UserRepo = repository.NewUserRepository(db)

	s.Alice, _ = s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username": "alice",
	}))
	s.Bob, _ = s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username": "bob",
	}))
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceTestSuite))
}

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func (s *TodoServiceTestSuite) TestCreate_ProWithoutFiles() {
	_, err := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Pro todo",
		IsPro: true,
	})

	Expect(err).To(MatchError(domain.ErrMissingUpload))
}

func (s *TodoServiceTestSuite) TestCreate_ProStoresImagesInOrder() {
	todo, err := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Pro todo",
		IsPro: true,
		Images: []*multipart.FileHeader{
			fileHeader("first.png"),
			fileHeader("second.png"),
		},
	})

	assert.NoError(s.T(), err)
	assert.Len(s.T(), todo.Images, 2)
	assert.Equal(s.T(), s.Store.saved, todo.Images)
}

func (s *TodoServiceTestSuite) TestCreate_NonProIgnoresProRules() {
	todo, err := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Plain todo",
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{}, todo.Images)
	assert.Empty(s.T(), s.Store.saved)
}

func (s *TodoServiceTestSuite) TestCreate_StoreFailureRollsBackEarlierFiles() {
	s.Store.failOn = "bad.exe"

	_, err := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Pro todo",
		IsPro: true,
		Images: []*multipart.FileHeader{
			fileHeader("ok.png"),
			fileHeader("bad.exe"),
		},
	})

	assert.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, domain.ErrUnsupportedFileType))

	// the file stored before the failure must be cleaned up again
	assert.Equal(s.T(), s.Store.saved, s.Store.removed)
}

func (s *TodoServiceTestSuite) TestGetByID_OwnerSees() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Mine",
	})

	todo, err := s.Service.GetByID(context.Background(), s.Alice.ID, created.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Mine", todo.Title)
}

func (s *TodoServiceTestSuite) TestGetByID_OtherUserForbidden() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Alice only",
	})

	_, err := s.Service.GetByID(context.Background(), s.Bob.ID, created.ID)

	Expect(err).To(MatchError(domain.ErrNotOwner))
}

func (s *TodoServiceTestSuite) TestGetByID_MissingBeatsOwnership() {
	_, err := s.Service.GetByID(context.Background(), s.Bob.ID, 987654)

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoServiceTestSuite) TestUpdate_OtherUserForbidden() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Alice only",
	})

	title := "Hijacked"

	_, err := s.Service.Update(context.Background(), s.Bob.ID, created.ID, domain.TodoPatch{Title: &title})

	Expect(err).To(MatchError(domain.ErrNotOwner))

	unchanged, _ := s.Service.GetByID(context.Background(), s.Alice.ID, created.ID)
	assert.Equal(s.T(), "Alice only", unchanged.Title)
}

func (s *TodoServiceTestSuite) TestUpdate_PartialPatch() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title:       "Original",
		Description: "Keep me",
	})

	title := "Renamed"

	updated, err := s.Service.Update(context.Background(), s.Alice.ID, created.ID, domain.TodoPatch{Title: &title})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Renamed", updated.Title)
	assert.Equal(s.T(), "Keep me", updated.Description)
}

func (s *TodoServiceTestSuite) TestDelete_OtherUserForbidden() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Alice only",
	})

	err := s.Service.Delete(context.Background(), s.Bob.ID, created.ID)

	Expect(err).To(MatchError(domain.ErrNotOwner))
}

func (s *TodoServiceTestSuite) TestDelete_Owner() {
	created, _ := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{
		Title: "Short lived",
	})

	err := s.Service.Delete(context.Background(), s.Alice.ID, created.ID)
	assert.NoError(s.T(), err)

	_, err = s.Service.GetByID(context.Background(), s.Alice.ID, created.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoServiceTestSuite) TestListWithCursor_NotFilteredByOwner() {
	s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{Title: "a"})
	s.Service.Create(context.Background(), s.Bob.ID, port.CreateTodoInput{Title: "b"})

	page, hasNext, err := s.Service.ListWithCursor(context.Background(), 10, "")

	assert.NoError(s.T(), err)
	assert.False(s.T(), hasNext)
	assert.Len(s.T(), page, 2)
}
