package service

import (
	"context"
	"testing"
	"time"

	"titlehub/internal/http-api/dto"
	"titlehub/internal/http-api/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func testTitleService(t *testing.T) (TitleService, sqlmock.Sqlmock, *MockReviewRepository) {
	t.Helper()
	db, mock := newMockDB(t)
	reviewRepo := new(MockReviewRepository)
	svc := NewTitleService(
		repository.NewTitleRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewGenreRepo(db),
		reviewRepo,
	)
	return svc, mock, reviewRepo
}

func floatPtr(f float64) *float64 { return &f }

func TestTitleList_RatingMapping(t *testing.T) {
	svc, dbMock, reviewRepo := testTitleService(t)

	dbMock.ExpectQuery(`SELECT count\(DISTINCT\(.+\)\) FROM "titles"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	dbMock.ExpectQuery(`SELECT titles\.\* FROM "titles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "description", "category_id", "created_at"}).
			AddRow(1, "Dune", 2021, "", nil, time.Now()).
			AddRow(2, "Arrival", 2016, "", nil, time.Now()))
	dbMock.ExpectQuery(`FROM "title_genres"`).
		WillReturnRows(sqlmock.NewRows([]string{"title_id", "genre_id"}))

	// one title rated, the other without reviews
	reviewRepo.On("AverageScore", mock.Anything, int64(1)).Return(floatPtr(7.5), nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(2)).Return(nil, nil)

	resp, err := svc.List(context.Background(), repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	if assert.NotNil(t, resp.Data[0].Rating) {
		assert.Equal(t, 7.5, *resp.Data[0].Rating)
	}
	assert.Nil(t, resp.Data[1].Rating)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	reviewRepo.AssertExpectations(t)
}

func TestTitleGet_IncludesRating(t *testing.T) {
	svc, dbMock, reviewRepo := testTitleService(t)

	dbMock.ExpectQuery(`SELECT \* FROM "titles" WHERE "titles"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "description", "category_id", "created_at"}).
			AddRow(1, "Dune", 2021, "spice opera", nil, time.Now()))
	dbMock.ExpectQuery(`FROM "title_genres"`).
		WillReturnRows(sqlmock.NewRows([]string{"title_id", "genre_id"}))

	reviewRepo.On("AverageScore", mock.Anything, int64(1)).Return(floatPtr(9.0), nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Dune", resp.Name)
	if assert.NotNil(t, resp.Rating) {
		assert.Equal(t, 9.0, *resp.Rating)
	}
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTitleCreate_FutureYear(t *testing.T) {
	svc, dbMock, _ := testTitleService(t)

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Tomorrow",
		Year:     time.Now().Year() + 1,
		Category: "movies",
	})

	assert.ErrorIs(t, err, ErrYearInFuture)
	assert.Nil(t, resp)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	svc, dbMock, _ := testTitleService(t)

	dbMock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Dune",
		Year:     2021,
		Category: "ghost-slug",
	})

	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.Nil(t, resp)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	svc, dbMock, _ := testTitleService(t)

	dbMock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(1, "Movies", "movies"))
	dbMock.ExpectQuery(`SELECT \* FROM "genres"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Dune",
		Year:     2021,
		Category: "movies",
		Genre:    []string{"ghost-genre"},
	})

	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.Nil(t, resp)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

