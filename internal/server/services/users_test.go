package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"finbudget/internal/common"
	"finbudget/internal/dbx"
	"finbudget/internal/server/auth"
	"finbudget/internal/server/config"
	"finbudget/internal/server/models"
	budgetsrepo "finbudget/internal/server/repositories/budgets"
	transactionsrepo "finbudget/internal/server/repositories/transactions"
	usersrepo "finbudget/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byNameOut *models.User
	byNameErr error

	byIDOut *models.User
	byIDErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByName(ctx context.Context, name string) (*models.User, error) {
	if f.byNameErr != nil {
		return nil, f.byNameErr
	}
	return f.byNameOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

// exactMatchUsersRepo resolves lookups byte-exactly against its maps, the way
// the real repository's `WHERE email = $1` does.
type exactMatchUsersRepo struct {
	byEmail map[string]*models.User
	byName  map[string]*models.User

	createOut *models.User
}

func (f *exactMatchUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return f.createOut, nil
}

func (f *exactMatchUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *exactMatchUsersRepo) GetByName(ctx context.Context, name string) (*models.User, error) {
	if u, ok := f.byName[name]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *exactMatchUsersRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return nil, common.ErrorNotFound
}

type fakeBudgetsRepo struct {
	createErr error

	createCategoryErr error
	createdCategories []models.BudgetCategory

	byIDOut *models.Budget
	byIDErr error

	categoryOut *models.BudgetCategory
	categoryErr error

	listOut []models.Budget
	listErr error

	categoriesByBudget map[int][]models.BudgetCategory
	listCategoriesErr  error

	updatedBudget *models.Budget
	updateErr     error

	deletedCategoriesFor []int
	deleteCategoriesErr  error

	deletedBudgets []int
	deleteErr      error

	nextID int
}

func (f *fakeBudgetsRepo) Create(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *b
	f.nextID++
	out.ID = f.nextID
	return &out, nil
}

func (f *fakeBudgetsRepo) CreateCategory(ctx context.Context, c *models.BudgetCategory) (*models.BudgetCategory, error) {
	if f.createCategoryErr != nil {
		return nil, f.createCategoryErr
	}
	out := *c
	out.ID = len(f.createdCategories) + 1
	f.createdCategories = append(f.createdCategories, out)
	return &out, nil
}

func (f *fakeBudgetsRepo) GetByID(ctx context.Context, id int) (*models.Budget, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeBudgetsRepo) GetCategory(ctx context.Context, id int) (*models.BudgetCategory, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.categoryOut, nil
}

func (f *fakeBudgetsRepo) ListByUser(ctx context.Context, userID int) ([]models.Budget, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeBudgetsRepo) ListCategories(ctx context.Context, budgetID int) ([]models.BudgetCategory, error) {
	if f.listCategoriesErr != nil {
		return nil, f.listCategoriesErr
	}
	return f.categoriesByBudget[budgetID], nil
}

func (f *fakeBudgetsRepo) Update(ctx context.Context, b *models.Budget) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *b
	f.updatedBudget = &copied
	return nil
}

func (f *fakeBudgetsRepo) DeleteCategories(ctx context.Context, budgetID int) error {
	if f.deleteCategoriesErr != nil {
		return f.deleteCategoriesErr
	}
	f.deletedCategoriesFor = append(f.deletedCategoriesFor, budgetID)
	return nil
}

func (f *fakeBudgetsRepo) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedBudgets = append(f.deletedBudgets, id)
	return nil
}

type fakeTransactionsRepo struct {
	createErr error

	byIDOut *models.Transaction
	byIDErr error

	listOut []models.Transaction
	listErr error

	deleted   []int
	deleteErr error

	deletedByBudget   []int
	deleteByBudgetErr error
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, tr *models.Transaction) (*models.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *tr
	out.ID = 1
	return &out, nil
}

func (f *fakeTransactionsRepo) GetByID(ctx context.Context, id int) (*models.Transaction, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeTransactionsRepo) ListByUser(ctx context.Context, userID int) ([]models.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTransactionsRepo) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransactionsRepo) DeleteByBudget(ctx context.Context, budgetID int) error {
	if f.deleteByBudgetErr != nil {
		return f.deleteByBudgetErr
	}
	f.deletedByBudget = append(f.deletedByBudget, budgetID)
	return nil
}

type fakeRepoManager struct {
	u  usersrepo.Repository
	b  *fakeBudgetsRepo
	tr *fakeTransactionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Budgets(db dbx.DBTX) budgetsrepo.Repository   { return m.b }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactionsrepo.Repository {
	return m.tr
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byEmailErr: common.ErrorNotFound,
		byNameErr:  common.ErrorNotFound,
		createOut:  &models.User{ID: 42, Name: "alice", Email: "alice@example.com"},
	}}
	s := newUserService(t, db, rm)

	u, err := s.Register(context.Background(), "alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID != 42 || u.Name != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byEmailOut: &models.User{ID: 1, Email: "alice@example.com"},
	}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret")
	if !errors.Is(err, common.ErrEmailExists) {
		t.Fatalf("want ErrEmailExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byEmailErr: common.ErrorNotFound,
		byNameOut:  &models.User{ID: 1, Name: "alice"},
	}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "other@example.com", "secret")
	if !errors.Is(err, common.ErrNameExists) {
		t.Fatalf("want ErrNameExists, got %v", err)
	}
}

func TestRegister_RepoError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: errBoom{}}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret")
	if err == nil || errors.Is(err, common.ErrEmailExists) {
		t.Fatalf("expected plain repo error, got %v", err)
	}
}

// Uniqueness is byte-exact. Registering a differently cased email or name
// succeeds; only an exact match is a duplicate.
func TestRegister_CaseSensitiveUniqueness(t *testing.T) {
	existing := &models.User{ID: 1, Name: "alice", Email: "alice@example.com"}

	repo := &exactMatchUsersRepo{
		byEmail:   map[string]*models.User{"alice@example.com": existing},
		byName:    map[string]*models.User{"alice": existing},
		createOut: &models.User{ID: 2, Name: "Alice", Email: "Alice@example.com"},
	}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := newUserService(t, db, &fakeRepoManager{u: repo})

	u, err := s.Register(context.Background(), "Alice", "Alice@example.com", "secret")
	if err != nil {
		t.Fatalf("differently cased registration should succeed, got %v", err)
	}
	if u.ID != 2 {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := s.Register(context.Background(), "bob", "alice@example.com", "secret"); !errors.Is(err, common.ErrEmailExists) {
		t.Fatalf("exact email match: want ErrEmailExists, got %v", err)
	}
	if _, err := s.Register(context.Background(), "alice", "bob@example.com", "secret"); !errors.Is(err, common.ErrNameExists) {
		t.Fatalf("exact name match: want ErrNameExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byEmailOut: &models.User{ID: 7, Email: "alice@example.com", PasswordHash: hash},
	}}
	s := newUserService(t, db, rm)

	token, userID, err := s.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if userID != 7 || token == "" {
		t.Fatalf("unexpected login result: id=%d token=%q", userID, token)
	}

	parsedID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil || parsedID != 7 {
		t.Fatalf("token does not round-trip: id=%d err=%v", parsedID, err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, _, err := s.Login(context.Background(), "ghost@example.com", "secret")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byEmailOut: &models.User{ID: 7, PasswordHash: hash},
	}}
	s := newUserService(t, db, rm)

	_, _, err = s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: errBoom{}}}
	s := newUserService(t, db, rm)

	_, _, err := s.Login(context.Background(), "alice@example.com", "secret")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byIDOut: &models.User{ID: 3, Name: "bob", Email: "bob@example.com"},
	}}
	s := newUserService(t, db, rm)

	u, err := s.GetProfile(context.Background(), 3)
	if err != nil || u.Name != "bob" {
		t.Fatalf("GetProfile: got (%+v, %v)", u, err)
	}

	rmNF := &fakeRepoManager{u: &fakeUsersRepo{byIDErr: common.ErrorNotFound}}
	sNF := newUserService(t, db, rmNF)
	if _, err := sNF.GetProfile(context.Background(), 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
