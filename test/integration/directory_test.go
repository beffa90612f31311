package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	activityrepo "github.com/Ramsey-B/laurel/internal/repositories/activity"
	buildingrepo "github.com/Ramsey-B/laurel/internal/repositories/building"
	organizationrepo "github.com/Ramsey-B/laurel/internal/repositories/organization"
	organizationactivityrepo "github.com/Ramsey-B/laurel/internal/repositories/organizationactivity"
	"github.com/Ramsey-B/laurel/internal/services/directory"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "laurel"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

type testEnv struct {
	buildings     *buildingrepo.Repository
	activities    *activityrepo.Repository
	organizations *organizationrepo.Repository
	associations  *organizationactivityrepo.Repository
	directory     *directory.Service
}

func newTestEnv(t *testing.T) *testEnv {
	db := getTestDB(t)
	logger := getTestLogger()

	buildings := buildingrepo.NewRepository(db, logger)
	activities := activityrepo.NewRepository(db, logger)
	organizations := organizationrepo.NewRepository(db, logger)
	associations := organizationactivityrepo.NewRepository(db, logger)

	return &testEnv{
		buildings:     buildings,
		activities:    activities,
		organizations: organizations,
		associations:  associations,
		directory:     directory.NewService(organizations, buildings, associations, logger),
	}
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestDirectoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	b1, err := env.buildings.Create(ctx, &models.Building{
		Address:   "Москва, ул. Ленина 1",
		Latitude:  55.0,
		Longitude: 37.0,
	})
	require.NoError(t, err)
	require.NotZero(t, b1.ID)

	rootName := uniqueName("Еда")
	root, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: rootName})
	require.NoError(t, err)

	childName := uniqueName("Молочная продукция")
	child, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: childName, ParentID: &root.ID})
	require.NoError(t, err)

	org, err := env.organizations.Create(ctx, &models.Organization{
		Name:         "ООО “Рога и Копыта”",
		PhoneNumbers: []string{"2-222-222", "+7-923-666-13-13"},
		BuildingID:   b1.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.associations.Link(ctx, org.ID, child.ID))

	records, err := env.directory.ListByActivityName(ctx, childName)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, org.ID, records[0].ID)
	assert.Equal(t, "Москва, ул. Ленина 1", records[0].Address)
	assert.Equal(t, childName, records[0].ActivityName)
	assert.Equal(t, []string{"2-222-222", "+7-923-666-13-13"}, records[0].PhoneNumbers)

	byID, err := env.directory.GetOrganizationByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{childName}, byID.Activities)
	assert.Equal(t, org.CreatedAt.Format(models.TimestampFormat), byID.CreatedAt)

	byBuilding, err := env.directory.ListByBuildingID(ctx, b1.ID)
	require.NoError(t, err)
	require.Len(t, byBuilding, 1)
	assert.Equal(t, org.ID, byBuilding[0].ID)
}

func TestActivityDepthLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("a")})
	require.NoError(t, err)
	b, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("b"), ParentID: &a.ID})
	require.NoError(t, err)
	c, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("c"), ParentID: &b.ID})
	require.NoError(t, err)

	// a fourth level must be rejected and leave no row
	dName := uniqueName("d")
	_, err = env.activities.Create(ctx, models.CreateActivityRequest{Name: dName, ParentID: &c.ID})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))

	orphan, err := env.activities.GetByName(ctx, dName)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}

func TestActivityRejectionReleasesConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	db.SetMaxOpenConns(1)
	logger := getTestLogger()
	activities := activityrepo.NewRepository(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("a")})
	require.NoError(t, err)
	b, err := activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("b"), ParentID: &a.ID})
	require.NoError(t, err)
	c, err := activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("c"), ParentID: &b.ID})
	require.NoError(t, err)

	// with a single-connection pool, a rejected insert that held on to its
	// transaction would make every later call block until the ctx deadline
	for i := 0; i < 3; i++ {
		_, err = activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("d"), ParentID: &c.ID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	}

	got, err := activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.Name, got.Name)
}

func TestActivityMissingParent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	missing := int64(-1)
	_, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("x"), ParentID: &missing})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestLinkConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	b, err := env.buildings.Create(ctx, &models.Building{
		Address:   "Казань, ул. Мира 7",
		Latitude:  55.79,
		Longitude: 49.12,
	})
	require.NoError(t, err)

	a, err := env.activities.Create(ctx, models.CreateActivityRequest{Name: uniqueName("Еда")})
	require.NoError(t, err)

	org, err := env.organizations.Create(ctx, &models.Organization{
		Name:         "ИП “Надежда”",
		PhoneNumbers: []string{"3-333-333"},
		BuildingID:   b.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.associations.Link(ctx, org.ID, a.ID))

	err = env.associations.Link(ctx, org.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))

	err = env.associations.Link(ctx, org.ID, -1)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestWithinRadiusLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	// far from everything the other tests create
	b, err := env.buildings.Create(ctx, &models.Building{
		Address:   "Новосибирск, ул. Советская 20",
		Latitude:  -65.0,
		Longitude: -150.0,
	})
	require.NoError(t, err)

	org, err := env.organizations.Create(ctx, &models.Organization{
		Name:         "ЗАО “Светлый путь”",
		PhoneNumbers: []string{"4-444-444"},
		BuildingID:   b.ID,
	})
	require.NoError(t, err)

	records, err := env.directory.ListWithinRadius(ctx, -65.0, -150.0, 1000)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, org.ID, records[0].ID)

	_, err = env.directory.ListWithinRadius(ctx, -64.0, -150.0, 100)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}
