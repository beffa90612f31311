// Package seed fills the directory with sample data for development and demos.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/internal/repositories/activity"
	"github.com/Ramsey-B/laurel/internal/repositories/building"
	"github.com/Ramsey-B/laurel/internal/repositories/organization"
	"github.com/Ramsey-B/laurel/internal/repositories/organizationactivity"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/metrics"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

var cities = []string{
	"Москва",
	"Санкт-Петербург",
	"Сочи",
	"Казань",
	"Новосибирск",
	"Екатеринбург",
	"Нижний Новгород",
	"Ростов-на-Дону",
}

var streets = []string{
	"Ленина",
	"Пушкина",
	"Гагарина",
	"Мира",
	"Садовая",
	"Кирова",
	"Советская",
	"Тимирязева",
	"Набережная",
	"Центральная",
}

var organizationNames = []string{
	"ООО “Рога и Копыта”",
	"ЗАО “Светлый путь”",
	"ИП “Надежда”",
	"ООО “ТехноСервис”",
	"ЗАО “ЭкоПродукт”",
	"ООО “СтройМир”",
	"ИП “Кулинария”",
	"ООО “АвтоМир”",
	"ЗАО “Электроника”",
	"ООО “Финансовые решения”",
}

type taxonomyBranch struct {
	name     string
	children []taxonomyLeaf
}

type taxonomyLeaf struct {
	name      string
	leafNames []string
}

var activityHierarchy = []taxonomyBranch{
	{
		name: "Еда",
		children: []taxonomyLeaf{
			{name: "Мясная продукция", leafNames: []string{"Говядина", "Свинина"}},
			{name: "Молочная продукция", leafNames: []string{"Молоко", "Йогурты"}},
			{name: "Овощи и фрукты", leafNames: []string{"Свежие овощи", "Свежие фрукты"}},
		},
	},
	{
		name: "Автомобили",
		children: []taxonomyLeaf{
			{name: "Грузовые", leafNames: []string{"Фургоны", "Самосвалы"}},
			{name: "Легковые", leafNames: []string{"Седаны", "Хэтчбеки"}},
		},
	},
	{
		name: "Электроника",
		children: []taxonomyLeaf{
			{name: "Мобильные устройства", leafNames: []string{"Смартфоны", "Планшеты"}},
			{name: "Компьютеры", leafNames: []string{"Ноутбуки", "Настольные ПК"}},
			{name: "Аудио и видео", leafNames: []string{"Телевизоры", "Колонки"}},
		},
	},
}

// Options bound the amount of generated data
type Options struct {
	MinBuildings     int
	MaxBuildings     int
	MinOrganizations int
	MaxOrganizations int
}

// DataGenerator creates sample buildings, the activity taxonomy, and
// organizations linked to random activities
type DataGenerator struct {
	buildings     building.BuildingRepository
	activities    activity.ActivityRepository
	organizations organization.OrganizationRepository
	associations  organizationactivity.OrganizationActivityRepository
	emitter       *events.Emitter
	logger        ectologger.Logger
	opts          Options
	rng           *rand.Rand
}

// NewDataGenerator creates a new seed-data generator
func NewDataGenerator(
	buildings building.BuildingRepository,
	activities activity.ActivityRepository,
	organizations organization.OrganizationRepository,
	associations organizationactivity.OrganizationActivityRepository,
	emitter *events.Emitter,
	logger ectologger.Logger,
	opts Options,
	seed int64,
) *DataGenerator {
	return &DataGenerator{
		buildings:     buildings,
		activities:    activities,
		organizations: organizations,
		associations:  associations,
		emitter:       emitter,
		logger:        logger,
		opts:          opts,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Result reports how many rows the generator created
type Result struct {
	Buildings     int `json:"buildings"`
	Activities    int `json:"activities"`
	Organizations int `json:"organizations"`
	Links         int `json:"links"`
}

// Generate creates the full sample dataset. Any failure aborts the run and is
// reported as a storage failure; rows created before the failure remain.
func (g *DataGenerator) Generate(ctx context.Context) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "DataGenerator.Generate")
	defer span.End()

	result := &Result{}

	createdBuildings, err := g.createBuildings(ctx, result)
	if err != nil {
		return nil, err
	}

	createdActivities, err := g.createActivities(ctx, result)
	if err != nil {
		return nil, err
	}

	if err := g.createOrganizations(ctx, createdBuildings, createdActivities, result); err != nil {
		return nil, err
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"buildings":     result.Buildings,
		"activities":    result.Activities,
		"organizations": result.Organizations,
		"links":         result.Links,
	}).Info("seed data generated")

	return result, nil
}

func (g *DataGenerator) createBuildings(ctx context.Context, result *Result) ([]*models.Building, error) {
	count := g.intBetween(g.opts.MinBuildings, g.opts.MaxBuildings)
	created := make([]*models.Building, 0, count)

	for i := 0; i < count; i++ {
		b := &models.Building{
			Address:   fmt.Sprintf("%s, ул. %s %d", g.pick(cities), g.pick(streets), g.intBetween(1, 50)),
			Latitude:  55.0 + g.rng.Float64(),
			Longitude: 37.0 + g.rng.Float64(),
		}
		b, err := g.buildings.Create(ctx, b)
		if err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to seed buildings")
		}
		g.emitter.EmitBuildingCreated(ctx, b)
		metrics.SeedRecordsTotal.WithLabelValues("building").Inc()
		created = append(created, b)
		result.Buildings++
	}

	return created, nil
}

// createActivities inserts the three-level taxonomy. Only first and second
// level activities are returned as link candidates so the sample data mirrors
// the shape of real directory usage.
func (g *DataGenerator) createActivities(ctx context.Context, result *Result) ([]*models.Activity, error) {
	candidates := make([]*models.Activity, 0)

	create := func(name string, parentID *int64) (*models.Activity, error) {
		a, err := g.activities.Create(ctx, models.CreateActivityRequest{Name: name, ParentID: parentID})
		if err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to seed activities")
		}
		g.emitter.EmitActivityCreated(ctx, a)
		metrics.SeedRecordsTotal.WithLabelValues("activity").Inc()
		result.Activities++
		return a, nil
	}

	for _, branch := range activityHierarchy {
		root, err := create(branch.name, nil)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, root)

		for _, child := range branch.children {
			childActivity, err := create(child.name, &root.ID)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, childActivity)

			for _, leafName := range child.leafNames {
				if _, err := create(leafName, &childActivity.ID); err != nil {
					return nil, err
				}
			}
		}
	}

	return candidates, nil
}

func (g *DataGenerator) createOrganizations(ctx context.Context, buildings []*models.Building, activities []*models.Activity, result *Result) error {
	count := g.intBetween(g.opts.MinOrganizations, g.opts.MaxOrganizations)

	for i := 0; i < count; i++ {
		org := &models.Organization{
			Name:         g.pick(organizationNames),
			PhoneNumbers: g.phoneNumbers(),
			BuildingID:   buildings[g.rng.Intn(len(buildings))].ID,
		}
		org, err := g.organizations.Create(ctx, org)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to seed organizations")
		}
		g.emitter.EmitOrganizationCreated(ctx, org)
		metrics.SeedRecordsTotal.WithLabelValues("organization").Inc()
		result.Organizations++

		for _, a := range g.sampleActivities(activities) {
			if err := g.associations.Link(ctx, org.ID, a.ID); err != nil {
				if httperror.GetStatusCode(err) == http.StatusConflict {
					continue
				}
				return httperror.NewHTTPError(http.StatusInternalServerError, "failed to seed organization links")
			}
			g.emitter.EmitOrganizationLinked(ctx, org.ID, a.ID)
			metrics.SeedRecordsTotal.WithLabelValues("link").Inc()
			result.Links++
		}
	}

	return nil
}

func (g *DataGenerator) phoneNumbers() []string {
	count := g.intBetween(1, 3)
	numbers := make([]string, count)
	for i := range numbers {
		n := fmt.Sprintf("%d-%d-%d", g.intBetween(1, 9), g.intBetween(100, 999), g.intBetween(1000, 9999))
		if g.rng.Intn(2) == 0 {
			n = "+" + n
		}
		numbers[i] = n
	}
	return numbers
}

func (g *DataGenerator) sampleActivities(activities []*models.Activity) []*models.Activity {
	count := g.intBetween(1, 3)
	if count > len(activities) {
		count = len(activities)
	}
	perm := g.rng.Perm(len(activities))
	sample := make([]*models.Activity, count)
	for i := 0; i < count; i++ {
		sample[i] = activities[perm[i]]
	}
	return sample
}

func (g *DataGenerator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *DataGenerator) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}
