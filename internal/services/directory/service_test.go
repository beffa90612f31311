package directory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/laurel/pkg/geo"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type fakeOrganizationRepo struct {
	byID       map[int64]*models.OrganizationWithAddress
	byName     map[string]*models.OrganizationWithAddress
	byBuilding map[int64][]*models.OrganizationWithAddress
	byActivity map[string][]*models.OrganizationWithAddress
	inBounds   []*models.OrganizationWithAddress
	lastBox    geo.BoundingBox
}

func (f *fakeOrganizationRepo) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	return org, nil
}

func (f *fakeOrganizationRepo) GetByID(ctx context.Context, id int64) (*models.OrganizationWithAddress, error) {
	return f.byID[id], nil
}

func (f *fakeOrganizationRepo) GetByName(ctx context.Context, name string) (*models.OrganizationWithAddress, error) {
	return f.byName[name], nil
}

func (f *fakeOrganizationRepo) ListByBuildingID(ctx context.Context, buildingID int64) ([]*models.OrganizationWithAddress, error) {
	return f.byBuilding[buildingID], nil
}

func (f *fakeOrganizationRepo) ListByActivityName(ctx context.Context, activityName string) ([]*models.OrganizationWithAddress, error) {
	return f.byActivity[activityName], nil
}

func (f *fakeOrganizationRepo) ListWithinBounds(ctx context.Context, box geo.BoundingBox) ([]*models.OrganizationWithAddress, error) {
	f.lastBox = box
	return f.inBounds, nil
}

type fakeBuildingRepo struct {
	buildings map[int64]*models.Building
}

func (f *fakeBuildingRepo) Create(ctx context.Context, b *models.Building) (*models.Building, error) {
	return b, nil
}

func (f *fakeBuildingRepo) GetByID(ctx context.Context, id int64) (*models.Building, error) {
	return f.buildings[id], nil
}

type fakeAssociationRepo struct {
	activities map[int64][]*models.Activity
	lastIDs    []int64
}

func (f *fakeAssociationRepo) Link(ctx context.Context, organizationID, activityID int64) error {
	return nil
}

func (f *fakeAssociationRepo) ListActivitiesByOrganizationIDs(ctx context.Context, organizationIDs []int64) (map[int64][]*models.Activity, error) {
	f.lastIDs = organizationIDs
	result := make(map[int64][]*models.Activity)
	for _, id := range organizationIDs {
		if a, ok := f.activities[id]; ok {
			result[id] = a
		}
	}
	return result, nil
}

func orgWithAddress(id int64, name, address string) *models.OrganizationWithAddress {
	return &models.OrganizationWithAddress{
		Organization: models.Organization{
			ID:           id,
			Name:         name,
			PhoneNumbers: []string{"2-222-222"},
			BuildingID:   1,
			CreatedAt:    time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		Address: address,
	}
}

func newTestService(orgs *fakeOrganizationRepo, buildings *fakeBuildingRepo, assocs *fakeAssociationRepo) *Service {
	if orgs == nil {
		orgs = &fakeOrganizationRepo{}
	}
	if buildings == nil {
		buildings = &fakeBuildingRepo{}
	}
	if assocs == nil {
		assocs = &fakeAssociationRepo{}
	}
	return NewService(orgs, buildings, assocs, testLogger())
}

func TestGetOrganizationByID(t *testing.T) {
	orgs := &fakeOrganizationRepo{
		byID: map[int64]*models.OrganizationWithAddress{
			1: orgWithAddress(1, "ООО “Рога и Копыта”", "Москва, ул. Ленина 1"),
		},
	}
	assocs := &fakeAssociationRepo{
		activities: map[int64][]*models.Activity{
			1: {{ID: 10, Name: "Еда"}, {ID: 11, Name: "Молочная продукция"}},
		},
	}
	svc := newTestService(orgs, nil, assocs)

	record, err := svc.GetOrganizationByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, "ООО “Рога и Копыта”", record.Name)
	assert.Equal(t, "Москва, ул. Ленина 1", record.Address)
	assert.Equal(t, "2024-03-15 09:30", record.CreatedAt)
	assert.Equal(t, []string{"Еда", "Молочная продукция"}, record.Activities)
}

func TestGetOrganizationByID_NotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.GetOrganizationByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestGetOrganizationByName(t *testing.T) {
	orgs := &fakeOrganizationRepo{
		byName: map[string]*models.OrganizationWithAddress{
			"ИП “Надежда”": orgWithAddress(3, "ИП “Надежда”", "Казань, ул. Мира 7"),
		},
	}
	svc := newTestService(orgs, nil, nil)

	record, err := svc.GetOrganizationByName(context.Background(), "ИП “Надежда”")
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)
	assert.Empty(t, record.Activities)

	_, err = svc.GetOrganizationByName(context.Background(), "нет такой")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestListByActivityName_EchoesQueriedName(t *testing.T) {
	orgs := &fakeOrganizationRepo{
		byActivity: map[string][]*models.OrganizationWithAddress{
			"Молочная продукция": {
				orgWithAddress(1, "ЗАО “ЭкоПродукт”", "Сочи, ул. Садовая 12"),
				orgWithAddress(2, "ИП “Кулинария”", "Сочи, ул. Кирова 3"),
			},
		},
	}
	svc := newTestService(orgs, nil, nil)

	records, err := svc.ListByActivityName(context.Background(), "Молочная продукция")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "Молочная продукция", r.ActivityName)
	}
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
}

func TestListByActivityName_NotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.ListByActivityName(context.Background(), "Ковка")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestListByBuildingID_DistinguishesMissingFromEmpty(t *testing.T) {
	buildings := &fakeBuildingRepo{
		buildings: map[int64]*models.Building{
			1: {ID: 1, Address: "Москва, ул. Ленина 1"},
		},
	}
	svc := newTestService(nil, buildings, nil)

	_, err := svc.ListByBuildingID(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "building not found")

	_, err = svc.ListByBuildingID(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "no organizations in building")
}

func TestListByBuildingID(t *testing.T) {
	buildings := &fakeBuildingRepo{
		buildings: map[int64]*models.Building{
			1: {ID: 1, Address: "Москва, ул. Ленина 1"},
		},
	}
	orgs := &fakeOrganizationRepo{
		byBuilding: map[int64][]*models.OrganizationWithAddress{
			1: {orgWithAddress(5, "ООО “СтройМир”", "Москва, ул. Ленина 1")},
		},
	}
	assocs := &fakeAssociationRepo{
		activities: map[int64][]*models.Activity{
			5: {{ID: 20, Name: "Автомобили"}},
		},
	}
	svc := newTestService(orgs, buildings, assocs)

	records, err := svc.ListByBuildingID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Автомобили"}, records[0].Activities)
	assert.Equal(t, []int64{5}, assocs.lastIDs)
}

func TestListWithinRadius(t *testing.T) {
	orgs := &fakeOrganizationRepo{
		inBounds: []*models.OrganizationWithAddress{
			orgWithAddress(7, "ООО “АвтоМир”", "Москва, ул. Гагарина 2"),
		},
	}
	svc := newTestService(orgs, nil, nil)

	records, err := svc.ListWithinRadius(context.Background(), 55.75, 37.61, 1000)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].ID)

	// the box passed down must be centered on the query point
	assert.Greater(t, orgs.lastBox.LatMax, 55.75)
	assert.Less(t, orgs.lastBox.LatMin, 55.75)
	assert.Greater(t, orgs.lastBox.LonMax, 37.61)
	assert.Less(t, orgs.lastBox.LonMin, 37.61)
}

func TestListWithinRadius_Validation(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	tests := []struct {
		name     string
		lat, lon float64
		radius   float64
	}{
		{"latitude out of range", 91, 37, 100},
		{"longitude out of range", 55, 181, 100},
		{"zero radius", 55, 37, 0},
		{"negative radius", 55, 37, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListWithinRadius(context.Background(), tt.lat, tt.lon, tt.radius)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		})
	}
}

func TestListWithinRadius_NotFound(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.ListWithinRadius(context.Background(), 55.75, 37.61, 500)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}
